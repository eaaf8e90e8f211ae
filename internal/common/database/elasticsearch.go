// internal/common/database/elasticsearch.go
package database

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"roommate-finder/internal/common/config"
)

// ListingIndexMapping is the mapping applied when the listing index is created.
const ListingIndexMapping = `{
  "mappings": {
    "properties": {
      "id":           {"type": "keyword"},
      "userId":       {"type": "keyword"},
      "title":        {"type": "text"},
      "description":  {"type": "text"},
      "propertyType": {"type": "keyword"},
      "rentAmount":   {"type": "double"},
      "location": {
        "properties": {
          "address": {"type": "text"},
          "city":    {"type": "text", "fields": {"raw": {"type": "keyword", "normalizer": "lowercase"}}},
          "state":   {"type": "text", "fields": {"raw": {"type": "keyword", "normalizer": "lowercase"}}},
          "zipCode": {"type": "keyword"}
        }
      },
      "amenities": {"type": "keyword"},
      "roomDetails": {
        "properties": {
          "bedrooms":      {"type": "integer"},
          "bathrooms":     {"type": "integer"},
          "furnished":     {"type": "boolean"},
          "availableFrom": {"type": "date"}
        }
      },
      "preferences": {
        "properties": {
          "gender":    {"type": "keyword"},
          "smoking":   {"type": "keyword"},
          "pets":      {"type": "keyword"},
          "lifestyle": {"type": "keyword"}
        }
      },
      "isActive":  {"type": "boolean"},
      "createdAt": {"type": "date"}
    }
  },
  "settings": {
    "analysis": {
      "normalizer": {
        "lowercase": {"type": "custom", "filter": ["lowercase"]}
      }
    }
  }
}`

// ElasticsearchClient wraps the Elasticsearch client.
type ElasticsearchClient struct {
	Client *elasticsearch.Client
}

func NewElasticsearch(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	esCfg := elasticsearch.Config{Addresses: cfg.Addresses}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &ElasticsearchClient{Client: es}, nil
}

func (c *ElasticsearchClient) Ping(ctx context.Context) error {
	res, err := c.Client.Ping(c.Client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}
	return nil
}

// EnsureIndex creates the index with the given body unless it already exists.
func (c *ElasticsearchClient) EnsureIndex(ctx context.Context, index, body string) error {
	res, err := c.Client.Indices.Exists([]string{index}, c.Client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", index, err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	res, err = c.Client.Indices.Create(index,
		c.Client.Indices.Create.WithContext(ctx),
		c.Client.Indices.Create.WithBody(strings.NewReader(body)),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("create index %s: %s", index, res.Status())
	}
	return nil
}

// IndexDocument upserts a document under the given id.
func (c *ElasticsearchClient) IndexDocument(ctx context.Context, index, id string, doc interface{}) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", id, err)
	}

	req := esapi.IndexRequest{
		Index:      index,
		DocumentID: id,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, c.Client)
	if err != nil {
		return fmt.Errorf("index document %s: %w", id, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index document %s: %s", id, res.Status())
	}
	return nil
}

// DeleteDocument removes a document; a missing document is not an error.
func (c *ElasticsearchClient) DeleteDocument(ctx context.Context, index, id string) error {
	req := esapi.DeleteRequest{Index: index, DocumentID: id}
	res, err := req.Do(ctx, c.Client)
	if err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete document %s: %s", id, res.Status())
	}
	return nil
}
