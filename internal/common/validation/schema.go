// internal/common/validation/schema.go
package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Summary joins the errors into one message.
func (r *ValidationResult) Summary() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return strings.Join(parts, "; ")
}

// Validator validates documents against compiled JSON schemas, keyed by name.
type Validator struct {
	mu      sync.RWMutex
	schemas map[string]*gojsonschema.Schema
}

func NewValidator() *Validator {
	return &Validator{schemas: make(map[string]*gojsonschema.Schema)}
}

// Register compiles schema (a Go value or JSON string) under name.
func (v *Validator) Register(name string, schema interface{}) error {
	var loader gojsonschema.JSONLoader
	if s, ok := schema.(string); ok {
		loader = gojsonschema.NewStringLoader(s)
	} else {
		loader = gojsonschema.NewGoLoader(schema)
	}

	compiled, err := gojsonschema.NewSchema(loader)
	if err != nil {
		return fmt.Errorf("compile schema %s: %w", name, err)
	}

	v.mu.Lock()
	v.schemas[name] = compiled
	v.mu.Unlock()
	return nil
}

func (v *Validator) Has(name string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.schemas[name]
	return ok
}

// Validate checks data against the named schema. Unknown names, and a nil
// Validator, validate trivially.
func (v *Validator) Validate(name string, data interface{}) (*ValidationResult, error) {
	if v == nil {
		return &ValidationResult{Valid: true}, nil
	}

	v.mu.RLock()
	schema, ok := v.schemas[name]
	v.mu.RUnlock()
	if !ok {
		return &ValidationResult{Valid: true}, nil
	}

	result, err := schema.Validate(loaderFor(data))
	if err != nil {
		return nil, fmt.Errorf("validate against %s: %w", name, err)
	}
	return fromSchemaResult(result), nil
}

// ValidateDocument validates data against a one-off schema.
func ValidateDocument(schema, data interface{}) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(loaderFor(schema), loaderFor(data))
	if err != nil {
		return nil, err
	}
	return fromSchemaResult(result), nil
}

func loaderFor(v interface{}) gojsonschema.JSONLoader {
	switch d := v.(type) {
	case string:
		return gojsonschema.NewStringLoader(d)
	case []byte:
		return gojsonschema.NewBytesLoader(d)
	default:
		return gojsonschema.NewGoLoader(d)
	}
}

func fromSchemaResult(result *gojsonschema.Result) *ValidationResult {
	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out
}

// FromRules converts ozzo-validation errors into a ValidationResult.
// A nil error is a valid result; non-validation errors are returned as is.
func FromRules(err error) (*ValidationResult, error) {
	if err == nil {
		return &ValidationResult{Valid: true}, nil
	}

	var fieldErrs ozzo.Errors
	if !errors.As(err, &fieldErrs) {
		var single ozzo.Error
		if errors.As(err, &single) {
			return &ValidationResult{Errors: []ValidationError{{Field: "(root)", Message: single.Message(), Code: strings.ToUpper(single.Code())}}}, nil
		}
		return nil, err
	}

	out := &ValidationResult{}
	flatten("", fieldErrs, out)
	sort.Slice(out.Errors, func(i, j int) bool { return out.Errors[i].Field < out.Errors[j].Field })
	return out, nil
}

func flatten(prefix string, errs ozzo.Errors, out *ValidationResult) {
	for field, err := range errs {
		name := field
		if prefix != "" {
			name = prefix + "." + field
		}

		var nested ozzo.Errors
		if errors.As(err, &nested) {
			flatten(name, nested, out)
			continue
		}

		ve := ValidationError{Field: name, Message: err.Error(), Code: "INVALID"}
		var single ozzo.Error
		if errors.As(err, &single) {
			ve.Message = single.Message()
			ve.Code = strings.ToUpper(single.Code())
		}
		out.Errors = append(out.Errors, ve)
	}
}
