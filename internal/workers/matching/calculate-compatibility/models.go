// internal/workers/matching/calculate-compatibility/models.go
package calculatecompatibility

import (
	"roommate-finder/internal/matching"
	"roommate-finder/internal/models"
)

type Input struct {
	UserID      string         `json:"userId"`
	UserProfile *models.User   `json:"userProfile,omitempty"`
	Listing     models.Listing `json:"listing"`
}

type Output struct {
	Compatibility matching.Result `json:"compatibility"`
}
