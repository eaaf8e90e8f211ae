// internal/models/user.go
package models

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	DefaultBudgetMin = 0
	DefaultBudgetMax = 100000
	MinPasswordLen   = 6
)

type User struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Email        string           `json:"email"`
	PasswordHash string           `json:"-"`
	Preferences  *UserPreferences `json:"preferences,omitempty"`
	Budget       Budget           `json:"budget"`
	Location     *UserLocation    `json:"location,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// PublicUser is the subset exposed next to listings and messages.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type UserPreferences struct {
	Gender      Gender      `json:"gender,omitempty"`
	Smoking     Smoking     `json:"smoking,omitempty"`
	Pets        Pets        `json:"pets,omitempty"`
	Cleanliness Cleanliness `json:"cleanliness,omitempty"`
	Lifestyle   Lifestyle   `json:"lifestyle,omitempty"`
}

type Budget struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type UserLocation struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
}

// ProfileUpdate carries the fields a user may change about themselves.
type ProfileUpdate struct {
	Name        *string          `json:"name,omitempty"`
	Preferences *UserPreferences `json:"preferences,omitempty"`
	Budget      *Budget          `json:"budget,omitempty"`
	Location    *UserLocation    `json:"location,omitempty"`
}

type Registration struct {
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Password    string           `json:"password"`
	Preferences *UserPreferences `json:"preferences,omitempty"`
	Budget      *Budget          `json:"budget,omitempty"`
	Location    *UserLocation    `json:"location,omitempty"`
}

func DefaultBudget() Budget {
	return Budget{Min: DefaultBudgetMin, Max: DefaultBudgetMax}
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Apply merges a profile update into the user.
func (u *User) Apply(p ProfileUpdate) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Preferences != nil {
		u.Preferences = p.Preferences
	}
	if p.Budget != nil {
		u.Budget = *p.Budget
	}
	if p.Location != nil {
		u.Location = p.Location
	}
}

func (p UserPreferences) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Gender, validation.In(Genders...)),
		validation.Field(&p.Smoking, validation.In(UserSmoking...)),
		validation.Field(&p.Pets, validation.In(PetOptions...)),
		validation.Field(&p.Cleanliness, validation.In(Cleanlinesses...)),
		validation.Field(&p.Lifestyle, validation.In(Lifestyles...)),
	)
}

func (b Budget) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Min, validation.Min(0.0)),
		validation.Field(&b.Max, validation.By(func(interface{}) error {
			if b.Max < b.Min {
				return errors.New("must be greater than or equal to min")
			}
			return nil
		})),
	)
}

func (r Registration) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required, validation.Length(MinPasswordLen, 0)),
		validation.Field(&r.Preferences),
		validation.Field(&r.Budget),
	)
}

func (p ProfileUpdate) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&p.Preferences),
		validation.Field(&p.Budget),
	)
}
