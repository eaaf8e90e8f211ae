// internal/httpapi/schemas.go
package httpapi

import (
	"roommate-finder/internal/common/validation"
)

const (
	schemaRegister = "api.register"
	schemaLogin    = "api.login"
	schemaProfile  = "api.profile"
	schemaListing  = "api.listing"
	schemaPatch    = "api.listing-update"
	schemaMessage  = "api.message"
)

// Shape checks only. Enum membership and cross-field rules live on the models.
var requestSchemaDocs = map[string]string{
	schemaRegister: `{
		"type": "object",
		"required": ["name", "email", "password"],
		"properties": {
			"name":        {"type": "string"},
			"email":       {"type": "string"},
			"password":    {"type": "string"},
			"preferences": {"type": ["object", "null"]},
			"budget":      {"type": ["object", "null"], "properties": {"min": {"type": "number"}, "max": {"type": "number"}}},
			"location":    {"type": ["object", "null"]}
		}
	}`,
	schemaLogin: `{
		"type": "object",
		"required": ["email", "password"],
		"properties": {
			"email":    {"type": "string", "minLength": 1},
			"password": {"type": "string", "minLength": 1}
		}
	}`,
	schemaProfile: `{
		"type": "object",
		"properties": {
			"name":        {"type": "string"},
			"preferences": {"type": ["object", "null"]},
			"budget":      {"type": ["object", "null"], "properties": {"min": {"type": "number"}, "max": {"type": "number"}}},
			"location":    {"type": ["object", "null"]}
		}
	}`,
	schemaListing: `{
		"type": "object",
		"required": ["title", "description", "propertyType", "rentAmount", "location"],
		"properties": {
			"title":        {"type": "string"},
			"description":  {"type": "string"},
			"propertyType": {"type": "string"},
			"rentAmount":   {"type": "number"},
			"location":     {"type": "object"},
			"amenities":    {"type": ["array", "null"], "items": {"type": "string"}},
			"roomDetails":  {"type": "object"},
			"preferences":  {"type": ["object", "null"]},
			"images":       {"type": ["array", "null"], "items": {"type": "string"}},
			"isActive":     {"type": "boolean"}
		}
	}`,
	schemaPatch: `{
		"type": "object",
		"properties": {
			"title":        {"type": "string"},
			"description":  {"type": "string"},
			"propertyType": {"type": "string"},
			"rentAmount":   {"type": "number"},
			"location":     {"type": "object"},
			"amenities":    {"type": ["array", "null"], "items": {"type": "string"}},
			"roomDetails":  {"type": "object"},
			"preferences":  {"type": ["object", "null"]},
			"images":       {"type": ["array", "null"], "items": {"type": "string"}},
			"isActive":     {"type": "boolean"}
		}
	}`,
	schemaMessage: `{
		"type": "object",
		"required": ["recipientId", "content"],
		"properties": {
			"recipientId": {"type": "string"},
			"listingId":   {"type": ["string", "null"]},
			"content":     {"type": "string"}
		}
	}`,
}

func requestSchemas() (*validation.Validator, error) {
	v := validation.NewValidator()
	for name, doc := range requestSchemaDocs {
		if err := v.Register(name, doc); err != nil {
			return nil, err
		}
	}
	return v, nil
}
