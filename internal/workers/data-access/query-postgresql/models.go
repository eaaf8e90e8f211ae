// internal/workers/data-access/query-postgresql/models.go
package querypostgresql

import "roommate-finder/internal/models"

type Input struct {
	QueryType string                 `json:"queryType"`
	UserID    string                 `json:"userId,omitempty"`
	ListingID string                 `json:"listingId,omitempty"`
	Filters   map[string]interface{} `json:"filters,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}

type QueryType = models.QueryType

var (
	QueryTypeUserProfile     = models.QueryTypeUserProfile
	QueryTypeListingDetails  = models.QueryTypeListingDetails
	QueryTypeActiveListings  = models.QueryTypeActiveListings
	QueryTypeMatchCandidates = models.QueryTypeMatchCandidates
	QueryTypeListingSearch   = models.QueryTypeListingSearch
	QueryTypeUserListings    = models.QueryTypeUserListings
	QueryTypeUnreadCount     = models.QueryTypeUnreadCount
)
