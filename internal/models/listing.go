// internal/models/listing.go
package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MaxTitleLen       = 100
	MaxDescriptionLen = 1000
)

type Listing struct {
	ID           string              `json:"id"`
	UserID       string              `json:"userId"`
	Owner        *PublicUser         `json:"user,omitempty"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	PropertyType PropertyType        `json:"propertyType"`
	RentAmount   float64             `json:"rentAmount"`
	Location     *ListingLocation    `json:"location,omitempty"`
	Amenities    []string            `json:"amenities"`
	RoomDetails  RoomDetails         `json:"roomDetails"`
	Preferences  *ListingPreferences `json:"preferences,omitempty"`
	Images       []string            `json:"images"`
	IsActive     bool                `json:"isActive"`
	CreatedAt    time.Time           `json:"createdAt"`
}

type ListingLocation struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

type RoomDetails struct {
	Bedrooms      int       `json:"bedrooms"`
	Bathrooms     int       `json:"bathrooms"`
	Furnished     bool      `json:"furnished"`
	AvailableFrom time.Time `json:"availableFrom"`
}

type ListingPreferences struct {
	Gender    Gender    `json:"gender,omitempty"`
	Smoking   Smoking   `json:"smoking,omitempty"`
	Pets      Pets      `json:"pets,omitempty"`
	Lifestyle Lifestyle `json:"lifestyle,omitempty"`
}

// ListingSearch is the structured filter set accepted by the search query.
// Zero values mean "no constraint".
type ListingSearch struct {
	City          string       `json:"city,omitempty"`
	State         string       `json:"state,omitempty"`
	MinRent       *float64     `json:"minRent,omitempty"`
	MaxRent       *float64     `json:"maxRent,omitempty"`
	PropertyType  PropertyType `json:"propertyType,omitempty"`
	Bedrooms      *int         `json:"bedrooms,omitempty"`
	Bathrooms     *int         `json:"bathrooms,omitempty"`
	Furnished     *bool        `json:"furnished,omitempty"`
	Pets          Pets         `json:"pets,omitempty"`
	Smoking       Smoking      `json:"smoking,omitempty"`
	AvailableFrom *time.Time   `json:"availableFrom,omitempty"`
	ExcludeUserID string       `json:"excludeUserId,omitempty"`
}

func (l Listing) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Title, validation.Required, validation.Length(1, MaxTitleLen)),
		validation.Field(&l.Description, validation.Required, validation.Length(1, MaxDescriptionLen)),
		validation.Field(&l.PropertyType, validation.Required, validation.In(PropertyTypes...)),
		validation.Field(&l.RentAmount, validation.Min(0.0)),
		validation.Field(&l.Location, validation.Required),
		validation.Field(&l.RoomDetails),
		validation.Field(&l.Preferences),
	)
}

func (l ListingLocation) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Address, validation.Required),
		validation.Field(&l.City, validation.Required),
		validation.Field(&l.State, validation.Required),
		validation.Field(&l.ZipCode, validation.Required),
	)
}

func (r RoomDetails) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Bedrooms, validation.Min(0)),
		validation.Field(&r.Bathrooms, validation.Min(0)),
		validation.Field(&r.AvailableFrom, validation.Required),
	)
}

func (p ListingPreferences) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Gender, validation.In(Genders...)),
		validation.Field(&p.Smoking, validation.In(ListingSmoking...)),
		validation.Field(&p.Pets, validation.In(PetOptions...)),
		validation.Field(&p.Lifestyle, validation.In(Lifestyles...)),
	)
}
