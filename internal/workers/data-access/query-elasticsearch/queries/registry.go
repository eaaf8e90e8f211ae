// internal/workers/data-access/query-elasticsearch/queries/registry.go
package queries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

// ErrTransport marks failures to reach the cluster at all.
var ErrTransport = errors.New("elasticsearch transport failed")

type QueryResult struct {
	Data      []map[string]interface{}
	TotalHits int64
	MaxScore  float64
	Took      int64
}

// ResponseError is a non-2xx answer from the cluster.
type ResponseError struct {
	StatusCode int
	Type       string
	Reason     string
}

func (e *ResponseError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("search query failed: status %d", e.StatusCode)
	}
	return fmt.Sprintf("search query failed: status %d: %s: %s", e.StatusCode, e.Type, e.Reason)
}

// IndexMissing reports whether the cluster rejected the query for a missing index.
func (e *ResponseError) IndexMissing() bool {
	return e.Type == "index_not_found_exception"
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		MaxScore *float64 `json:"max_score"`
		Hits     []struct {
			ID     string                 `json:"_id"`
			Score  *float64               `json:"_score"`
			Source map[string]interface{} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

type errorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

func Execute(ctx context.Context, esClient *elasticsearch.Client, q SearchQuery) (*QueryResult, error) {
	req, err := BuildQuery(q)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := req.Do(ctx, esClient)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		respErr := &ResponseError{StatusCode: res.StatusCode}
		var body errorResponse
		if json.NewDecoder(res.Body).Decode(&body) == nil {
			respErr.Type = body.Error.Type
			respErr.Reason = body.Error.Reason
		}
		return nil, respErr
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	result := &QueryResult{
		Data:      make([]map[string]interface{}, 0, len(r.Hits.Hits)),
		TotalHits: r.Hits.Total.Value,
		Took:      time.Since(start).Milliseconds(),
	}
	if r.Hits.MaxScore != nil {
		result.MaxScore = *r.Hits.MaxScore
	}
	for _, hit := range r.Hits.Hits {
		source := hit.Source
		if source == nil {
			source = map[string]interface{}{}
		}
		if _, ok := source["id"]; !ok {
			source["id"] = hit.ID
		}
		if hit.Score != nil {
			source["_score"] = *hit.Score
		}
		result.Data = append(result.Data, source)
	}
	return result, nil
}
