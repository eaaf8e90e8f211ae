// internal/models/preferences.go
package models

type Gender string

const (
	GenderMale         Gender = "male"
	GenderFemale       Gender = "female"
	GenderOther        Gender = "other"
	GenderNoPreference Gender = "no-preference"
)

// Smoking covers both sides: users answer yes/no/occasionally, listings yes/no/no-preference.
type Smoking string

const (
	SmokingYes          Smoking = "yes"
	SmokingNo           Smoking = "no"
	SmokingOccasionally Smoking = "occasionally"
	SmokingNoPreference Smoking = "no-preference"
)

type Pets string

const (
	PetsYes        Pets = "yes"
	PetsNo         Pets = "no"
	PetsNegotiable Pets = "negotiable"
)

type Lifestyle string

const (
	LifestyleQuiet    Lifestyle = "quiet"
	LifestyleModerate Lifestyle = "moderate"
	LifestyleSocial   Lifestyle = "social"
	LifestyleParty    Lifestyle = "party"
)

type Cleanliness string

const (
	CleanlinessVeryClean Cleanliness = "very-clean"
	CleanlinessClean     Cleanliness = "clean"
	CleanlinessModerate  Cleanliness = "moderate"
	CleanlinessRelaxed   Cleanliness = "relaxed"
)

type PropertyType string

const (
	PropertyApartment PropertyType = "apartment"
	PropertyHouse     PropertyType = "house"
	PropertyCondo     PropertyType = "condo"
	PropertyTownhouse PropertyType = "townhouse"
	PropertyStudio    PropertyType = "studio"
)

var (
	Genders        = []interface{}{GenderMale, GenderFemale, GenderOther, GenderNoPreference}
	UserSmoking    = []interface{}{SmokingYes, SmokingNo, SmokingOccasionally}
	ListingSmoking = []interface{}{SmokingYes, SmokingNo, SmokingNoPreference}
	PetOptions     = []interface{}{PetsYes, PetsNo, PetsNegotiable}
	Lifestyles     = []interface{}{LifestyleQuiet, LifestyleModerate, LifestyleSocial, LifestyleParty}
	Cleanlinesses  = []interface{}{CleanlinessVeryClean, CleanlinessClean, CleanlinessModerate, CleanlinessRelaxed}
	PropertyTypes  = []interface{}{PropertyApartment, PropertyHouse, PropertyCondo, PropertyTownhouse, PropertyStudio}
)
