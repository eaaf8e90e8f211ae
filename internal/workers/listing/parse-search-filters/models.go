// internal/workers/listing/parse-search-filters/models.go
package parsesearchfilters

import "roommate-finder/internal/models"

type Input struct {
	RawFilters map[string]interface{} `json:"rawFilters"`
	UserID     string                 `json:"userId,omitempty"`
}

type Output struct {
	ParsedFilters models.ListingSearch `json:"parsedFilters"`
}
