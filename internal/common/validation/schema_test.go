package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entrySchema() JSONSchema {
	return JSONSchema{
		Type:     "object",
		Required: []string{"newEntry"},
		Properties: map[string]Property{
			"newEntry": {Type: "object", Description: "record fields"},
		},
		AdditionalProperties: true,
	}
}

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name      string
		document  string
		wantValid bool
		wantText  string
	}{
		{
			name:      "object entry",
			document:  `{"newEntry":{"mdoc":"1234","status":"In"}}`,
			wantValid: true,
		},
		{
			name:      "empty object entry",
			document:  `{"newEntry":{}}`,
			wantValid: true,
		},
		{
			name:      "missing entry",
			document:  `{}`,
			wantValid: false,
			wantText:  "newEntry",
		},
		{
			name:      "array entry",
			document:  `{"newEntry":[1,2]}`,
			wantValid: false,
			wantText:  "newEntry",
		},
		{
			name:      "string document",
			document:  `"hello"`,
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateJSON([]byte(tt.document), entrySchema())
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid, result.Summary())
			if tt.wantText != "" {
				assert.Contains(t, result.Summary(), tt.wantText)
			}
		})
	}
}

func TestValidateJSON_MalformedDocument(t *testing.T) {
	_, err := ValidateJSON([]byte(`{"newEntry":`), entrySchema())
	assert.Error(t, err)
}

func TestValidateJSON_DisallowsExtraFields(t *testing.T) {
	schema := entrySchema()
	schema.AdditionalProperties = false

	result, err := ValidateJSON([]byte(`{"newEntry":{},"extra":true}`), schema)
	require.NoError(t, err)

	assert.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, "additional_property_not_allowed", result.Errors[0].Code)
}
