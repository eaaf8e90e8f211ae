package validation

import (
	"testing"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const messageSchema = `{
  "type": "object",
  "required": ["recipientId", "content"],
  "properties": {
    "recipientId": {"type": "string", "minLength": 1},
    "content": {"type": "string", "maxLength": 1000}
  }
}`

func TestValidator_Validate(t *testing.T) {
	v := NewValidator()
	require.NoError(t, v.Register("message", messageSchema))
	assert.True(t, v.Has("message"))

	result, err := v.Validate("message", map[string]interface{}{"recipientId": "u-2", "content": "hi"})
	require.NoError(t, err)
	assert.True(t, result.Valid)

	result, err = v.Validate("message", []byte(`{"content": 12}`))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 2)
	assert.Contains(t, result.Summary(), "recipientId")
}

func TestValidator_UnknownSchema(t *testing.T) {
	result, err := NewValidator().Validate("nope", map[string]interface{}{})
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestValidator_RegisterInvalidSchema(t *testing.T) {
	assert.Error(t, NewValidator().Register("broken", `{"type": 12}`))
}

func TestValidateDocument(t *testing.T) {
	schema := map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"success"},
	}
	result, err := ValidateDocument(schema, map[string]interface{}{"data": 1})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "REQUIRED", result.Errors[0].Code)
}

type budget struct {
	Min float64
	Max float64
}

func (b budget) Validate() error {
	return ozzo.ValidateStruct(&b,
		ozzo.Field(&b.Min, ozzo.Min(0.0)),
		ozzo.Field(&b.Max, ozzo.Required),
	)
}

type profile struct {
	Name   string
	Budget budget
}

func (p profile) Validate() error {
	return ozzo.ValidateStruct(&p,
		ozzo.Field(&p.Name, ozzo.Required),
		ozzo.Field(&p.Budget),
	)
}

func TestFromRules(t *testing.T) {
	result, err := FromRules(profile{Budget: budget{Min: -1}}.Validate())
	require.NoError(t, err)
	assert.False(t, result.Valid)

	fields := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"Budget.Max", "Budget.Min", "Name"}, fields)

	result, err = FromRules(nil)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}
