// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypeUserProfile     QueryType = "user_profile"
	QueryTypeListingDetails  QueryType = "listing_details"
	QueryTypeActiveListings  QueryType = "active_listings"
	QueryTypeMatchCandidates QueryType = "match_candidates"
	QueryTypeListingSearch   QueryType = "listing_search"
	QueryTypeUserListings    QueryType = "user_listings"
	QueryTypeUnreadCount     QueryType = "unread_count"
)
