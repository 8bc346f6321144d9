package inserthoursrecord

import (
	"encoding/json"

	apperrors "timeclock-kiosk/internal/common/errors"
	"timeclock-kiosk/internal/common/validation"
)

var inputSchema = validation.JSONSchema{
	Type:     "object",
	Required: []string{"newEntry"},
	Properties: map[string]validation.Property{
		"newEntry": {
			Type:        "object",
			Description: "Field values of the TimeclockHours record to add",
		},
	},
	AdditionalProperties: true,
}

// parseInput validates args and decodes them. Empty args are treated as {}.
func parseInput(args json.RawMessage) (*Input, error) {
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}

	result, err := validation.ValidateJSON(args, inputSchema)
	if err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error())
	}
	if !result.Valid {
		return nil, apperrors.NewInvalidInputError(result.Summary())
	}

	var input Input
	if err := json.Unmarshal(args, &input); err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error())
	}
	return &input, nil
}

// InputSchema returns the argument schema in descriptor form.
func InputSchema() map[string]interface{} {
	data, err := json.Marshal(inputSchema)
	if err != nil {
		return nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}
