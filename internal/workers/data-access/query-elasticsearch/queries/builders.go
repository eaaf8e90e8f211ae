// internal/workers/data-access/query-elasticsearch/queries/builders.go
package queries

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"roommate-finder/internal/models"
)

const (
	QueryTypeListingSearch   = "listing_search"
	QueryTypeSimilarListings = "similar_listings"

	DefaultPageSize = 20
	MaxPageSize     = 100
)

var (
	ErrUnknownQueryType = errors.New("unknown query type")
	ErrMissingIndex     = errors.New("index name is required")
	ErrMissingListingID = errors.New("listingId is required for similar_listings")
)

// SearchQuery defines the structure of a query request
type SearchQuery struct {
	Index     string
	QueryType string
	Keywords  string
	Filters   *models.ListingSearch
	ListingID string
	From      int
	Size      int
}

// normalizePage clamps pagination to the supported window.
func (q *SearchQuery) normalizePage() {
	if q.From < 0 {
		q.From = 0
	}
	if q.Size < 1 {
		q.Size = DefaultPageSize
	}
	if q.Size > MaxPageSize {
		q.Size = MaxPageSize
	}
}

// BuildQuery builds an Elasticsearch search request based on query type and filters
func BuildQuery(q SearchQuery) (*esapi.SearchRequest, error) {
	if q.Index == "" {
		return nil, ErrMissingIndex
	}
	q.normalizePage()

	var body map[string]interface{}
	switch q.QueryType {
	case QueryTypeListingSearch:
		body = buildListingSearchQuery(q)
	case QueryTypeSimilarListings:
		if q.ListingID == "" {
			return nil, ErrMissingListingID
		}
		body = buildSimilarListingsQuery(q)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueryType, q.QueryType)
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	from, size := q.From, q.Size
	return &esapi.SearchRequest{
		Index: []string{q.Index},
		Body:  bytes.NewReader(raw),
		From:  &from,
		Size:  &size,
	}, nil
}

func term(field string, value interface{}) map[string]interface{} {
	return map[string]interface{}{"term": map[string]interface{}{field: value}}
}

// listingFilters translates structured filters into bool filter and must_not clauses.
func listingFilters(f *models.ListingSearch) (filter, mustNot []interface{}) {
	filter = []interface{}{term("isActive", true)}
	if f == nil {
		return filter, nil
	}

	if f.City != "" {
		filter = append(filter, term("location.city.raw", f.City))
	}
	if f.State != "" {
		filter = append(filter, term("location.state.raw", f.State))
	}

	rent := map[string]interface{}{}
	if f.MinRent != nil {
		rent["gte"] = *f.MinRent
	}
	if f.MaxRent != nil {
		rent["lte"] = *f.MaxRent
	}
	if len(rent) > 0 {
		filter = append(filter, map[string]interface{}{
			"range": map[string]interface{}{"rentAmount": rent},
		})
	}

	if f.PropertyType != "" {
		filter = append(filter, term("propertyType", string(f.PropertyType)))
	}
	if f.Bedrooms != nil {
		filter = append(filter, term("roomDetails.bedrooms", *f.Bedrooms))
	}
	if f.Bathrooms != nil {
		filter = append(filter, term("roomDetails.bathrooms", *f.Bathrooms))
	}
	if f.Furnished != nil {
		filter = append(filter, term("roomDetails.furnished", *f.Furnished))
	}
	if f.Pets != "" {
		filter = append(filter, term("preferences.pets", string(f.Pets)))
	}
	if f.Smoking != "" {
		filter = append(filter, term("preferences.smoking", string(f.Smoking)))
	}
	if f.AvailableFrom != nil {
		filter = append(filter, map[string]interface{}{
			"range": map[string]interface{}{
				"roomDetails.availableFrom": map[string]interface{}{"lte": f.AvailableFrom.Format("2006-01-02")},
			},
		})
	}
	if f.ExcludeUserID != "" {
		mustNot = append(mustNot, term("userId", f.ExcludeUserID))
	}
	return filter, mustNot
}

func buildListingSearchQuery(q SearchQuery) map[string]interface{} {
	must := []interface{}{}
	if q.Keywords != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q.Keywords,
				"fields": []string{"title^3", "description", "amenities"},
				"type":   "best_fields",
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	filter, mustNot := listingFilters(q.Filters)
	boolQuery := map[string]interface{}{
		"must":   must,
		"filter": filter,
	}
	if len(mustNot) > 0 {
		boolQuery["must_not"] = mustNot
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
	}
	// Relevance first when searching text, newest first otherwise.
	if q.Keywords == "" {
		query["sort"] = []map[string]interface{}{{"createdAt": "desc"}}
	}
	return query
}

// buildSimilarListingsQuery finds active listings that read like the given one.
func buildSimilarListingsQuery(q SearchQuery) map[string]interface{} {
	filter, mustNot := listingFilters(q.Filters)
	mustNot = append(mustNot, map[string]interface{}{
		"ids": map[string]interface{}{"values": []string{q.ListingID}},
	})

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []interface{}{
					map[string]interface{}{
						"more_like_this": map[string]interface{}{
							"fields": []string{"title", "description", "amenities"},
							"like": []map[string]interface{}{
								{"_index": q.Index, "_id": q.ListingID},
							},
							"min_term_freq":   1,
							"max_query_terms": 12,
							"min_doc_freq":    1,
							"min_word_length": 3,
						},
					},
				},
				"filter":   filter,
				"must_not": mustNot,
			},
		},
	}
}
