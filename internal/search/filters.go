// internal/search/filters.go
package search

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"roommate-finder/internal/models"
)

var ErrInvalidFilterFormat = errors.New("INVALID_FILTER_FORMAT")

// FilterKeys are the query parameters understood by ParseFilters.
var FilterKeys = []string{
	"city", "state", "minRent", "maxRent", "propertyType",
	"bedrooms", "bathrooms", "furnished", "pets", "smoking", "availableFrom",
}

var nonNumeric = regexp.MustCompile(`[^\d.]+`)

// FromQuery keeps the known filter keys of a query string, dropping empty values.
func FromQuery(q url.Values) map[string]interface{} {
	raw := make(map[string]interface{})
	for _, key := range FilterKeys {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			raw[key] = v
		}
	}
	return raw
}

// ParseFilters turns loosely typed filter values (query strings or decoded JSON)
// into a ListingSearch. Unknown keys are ignored; malformed values are rejected.
func ParseFilters(raw map[string]interface{}) (*models.ListingSearch, error) {
	f := &models.ListingSearch{}
	if raw == nil {
		return f, nil
	}

	var err error
	if f.City, err = parseString(raw, "city"); err != nil {
		return nil, err
	}
	if f.State, err = parseString(raw, "state"); err != nil {
		return nil, err
	}

	if f.MinRent, err = parseAmount(raw, "minRent"); err != nil {
		return nil, err
	}
	if f.MaxRent, err = parseAmount(raw, "maxRent"); err != nil {
		return nil, err
	}
	if f.MinRent != nil && f.MaxRent != nil && *f.MinRent > *f.MaxRent {
		return nil, fmt.Errorf("%w: minRent (%.2f) > maxRent (%.2f)", ErrInvalidFilterFormat, *f.MinRent, *f.MaxRent)
	}

	propertyType, err := parseEnum(raw, "propertyType", models.PropertyTypes)
	if err != nil {
		return nil, err
	}
	f.PropertyType = models.PropertyType(propertyType)

	if f.Bedrooms, err = parseCount(raw, "bedrooms"); err != nil {
		return nil, err
	}
	if f.Bathrooms, err = parseCount(raw, "bathrooms"); err != nil {
		return nil, err
	}
	if f.Furnished, err = parseBool(raw, "furnished"); err != nil {
		return nil, err
	}

	pets, err := parseEnum(raw, "pets", models.PetOptions)
	if err != nil {
		return nil, err
	}
	f.Pets = models.Pets(pets)

	smoking, err := parseEnum(raw, "smoking", models.ListingSmoking)
	if err != nil {
		return nil, err
	}
	f.Smoking = models.Smoking(smoking)

	if f.AvailableFrom, err = parseDate(raw, "availableFrom"); err != nil {
		return nil, err
	}

	return f, nil
}

func parseString(raw map[string]interface{}, key string) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", ErrInvalidFilterFormat, key)
	}
	return strings.TrimSpace(s), nil
}

func parseEnum(raw map[string]interface{}, key string, allowed []interface{}) (string, error) {
	s, err := parseString(raw, key)
	if err != nil || s == "" {
		return s, err
	}
	for _, a := range allowed {
		if fmt.Sprint(a) == s {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: invalid %s '%s'", ErrInvalidFilterFormat, key, s)
}

// parseAmount accepts numbers and strings like "$1,200" or "USD 950.50".
func parseAmount(raw map[string]interface{}, key string) (*float64, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}

	var amount float64
	switch n := v.(type) {
	case float64:
		amount = n
	case int:
		amount = float64(n)
	case int64:
		amount = float64(n)
	case string:
		cleaned := nonNumeric.ReplaceAllString(strings.ReplaceAll(n, ",", ""), "")
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s '%s' is not a number", ErrInvalidFilterFormat, key, n)
		}
		if strings.HasPrefix(strings.TrimSpace(n), "-") {
			parsed = -parsed
		}
		amount = parsed
	default:
		return nil, fmt.Errorf("%w: %s is not a number", ErrInvalidFilterFormat, key)
	}

	if amount < 0 {
		return nil, fmt.Errorf("%w: %s must not be negative", ErrInvalidFilterFormat, key)
	}
	return &amount, nil
}

func parseCount(raw map[string]interface{}, key string) (*int, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}

	var n int
	switch c := v.(type) {
	case float64:
		if c != float64(int(c)) {
			return nil, fmt.Errorf("%w: %s must be a whole number", ErrInvalidFilterFormat, key)
		}
		n = int(c)
	case int:
		n = c
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(c))
		if err != nil {
			return nil, fmt.Errorf("%w: %s '%s' is not a whole number", ErrInvalidFilterFormat, key, c)
		}
		n = parsed
	default:
		return nil, fmt.Errorf("%w: %s is not a whole number", ErrInvalidFilterFormat, key)
	}

	if n < 0 {
		return nil, fmt.Errorf("%w: %s must not be negative", ErrInvalidFilterFormat, key)
	}
	return &n, nil
}

func parseBool(raw map[string]interface{}, key string) (*bool, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}

	switch b := v.(type) {
	case bool:
		return &b, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return nil, fmt.Errorf("%w: %s '%s' is not true or false", ErrInvalidFilterFormat, key, b)
		}
		return &parsed, nil
	default:
		return nil, fmt.Errorf("%w: %s is not true or false", ErrInvalidFilterFormat, key)
	}
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(raw map[string]interface{}, key string) (*time.Time, error) {
	s, err := parseString(raw, key)
	if err != nil || s == "" {
		return nil, err
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s '%s' is not a date", ErrInvalidFilterFormat, key, s)
}
