// internal/workers/matching/rank-matches/models.go
package rankmatches

import (
	"roommate-finder/internal/matching"
	"roommate-finder/internal/models"
)

type Input struct {
	UserID      string           `json:"userId"`
	UserProfile *models.User     `json:"userProfile,omitempty"`
	Listings    []models.Listing `json:"listings"`
}

type Output struct {
	RankedListings []matching.RankedListing `json:"rankedListings"`
	Count          int                      `json:"count"`
}
