// internal/matching/scorer.go
package matching

import (
	"math"
	"strings"

	"roommate-finder/internal/models"
)

// Category weights. They sum to 100 when every category applies.
const (
	BudgetWeight      = 30.0
	LocationWeight    = 20.0
	PreferencesWeight = 50.0

	genderWeight    = 15.0
	smokingWeight   = 15.0
	petsWeight      = 10.0
	lifestyleWeight = 10.0

	occasionalSmokerPoints = 8.0
	stateMatchPoints       = 10.0
)

// Breakdown is each category's share of the applicable maximum, not the points earned.
type Breakdown struct {
	Budget      int `json:"budget" yaml:"budget"`
	Location    int `json:"location" yaml:"location"`
	Preferences int `json:"preferences" yaml:"preferences"`
}

// Result is the compatibility of one listing for one user. Score is 0-100.
type Result struct {
	Score     int       `json:"score" yaml:"score"`
	Breakdown Breakdown `json:"breakdown" yaml:"breakdown"`
}

var lifestyleTable = map[models.Lifestyle]map[models.Lifestyle]float64{
	models.LifestyleQuiet: {
		models.LifestyleQuiet: 10, models.LifestyleModerate: 5, models.LifestyleSocial: 2, models.LifestyleParty: 0,
	},
	models.LifestyleModerate: {
		models.LifestyleQuiet: 5, models.LifestyleModerate: 10, models.LifestyleSocial: 7, models.LifestyleParty: 3,
	},
	models.LifestyleSocial: {
		models.LifestyleQuiet: 2, models.LifestyleModerate: 7, models.LifestyleSocial: 10, models.LifestyleParty: 7,
	},
	models.LifestyleParty: {
		models.LifestyleQuiet: 0, models.LifestyleModerate: 3, models.LifestyleSocial: 7, models.LifestyleParty: 10,
	},
}

// Score computes how well a listing fits a user. It never fails and has no side effects.
func Score(user *models.User, listing *models.Listing) Result {
	var points, maxPoints float64

	points += budgetPoints(user.Budget, listing.RentAmount)
	maxPoints += BudgetWeight

	if user.Location != nil && listing.Location != nil {
		points += locationPoints(user.Location, listing.Location)
		maxPoints += LocationWeight
	}

	if user.Preferences != nil && listing.Preferences != nil {
		points += preferencePoints(user.Preferences, listing.Preferences)
		maxPoints += PreferencesWeight
	}

	if maxPoints == 0 {
		return Result{}
	}

	return Result{
		Score: clampPercent(points / maxPoints * 100),
		Breakdown: Breakdown{
			Budget:      roundHalfUp(BudgetWeight / maxPoints * 100),
			Location:    roundHalfUp(LocationWeight / maxPoints * 100),
			Preferences: roundHalfUp(PreferencesWeight / maxPoints * 100),
		},
	}
}

func budgetPoints(b models.Budget, rent float64) float64 {
	if rent >= b.Min && rent <= b.Max {
		return BudgetWeight
	}

	span := b.Max - b.Min
	if span <= 0 {
		return 0
	}

	var diff float64
	if rent < b.Min {
		diff = b.Min - rent
	} else {
		diff = rent - b.Max
	}

	return math.Max(0, BudgetWeight-diff/span*BudgetWeight)
}

func locationPoints(u *models.UserLocation, l *models.ListingLocation) float64 {
	switch {
	case strings.EqualFold(u.City, l.City):
		return LocationWeight
	case strings.EqualFold(u.State, l.State):
		return stateMatchPoints
	default:
		return 0
	}
}

func preferencePoints(u *models.UserPreferences, l *models.ListingPreferences) float64 {
	var points float64

	if u.Gender == models.GenderNoPreference || l.Gender == models.GenderNoPreference || u.Gender == l.Gender {
		points += genderWeight
	}

	switch {
	case l.Smoking == models.SmokingNoPreference || l.Smoking == u.Smoking:
		points += smokingWeight
	case u.Smoking == models.SmokingOccasionally:
		points += occasionalSmokerPoints
	}

	if l.Pets == models.PetsNegotiable || l.Pets == u.Pets {
		points += petsWeight
	}

	if u.Lifestyle != "" && l.Lifestyle != "" {
		points += lifestyleTable[u.Lifestyle][l.Lifestyle]
	}

	return points
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func clampPercent(v float64) int {
	r := roundHalfUp(v)
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}
