package request

import (
	"strings"

	"djp.chapter42.de/printerbridge/internal/data"
	perrors "djp.chapter42.de/printerbridge/internal/errors"
	"github.com/xeipuuv/gojsonschema"
)

// Constraints on enum and numeric fields, shared across kinds.
var propertySchemas = map[string]map[string]interface{}{
	"message":          {"type": "string"},
	"left_text":        {"type": "string"},
	"right_text":       {"type": "string"},
	"col1":             {"type": "string"},
	"col2":             {"type": "string"},
	"col3":             {"type": "string"},
	"col4":             {"type": "string"},
	"label":            {"type": "string", "maxLength": 64},
	"data":             {"type": "string"},
	"barcode_data":     {"type": "string"},
	"text_size":        {"type": "string", "enum": []string{"S", "M", "L"}},
	"alignment":        {"type": "string", "enum": []string{"L", "C", "R"}},
	"size":             {"type": "integer", "minimum": 1, "maximum": 4},
	"bold":             {"type": "boolean"},
	"underline":        {"type": "boolean"},
	"inverse":          {"type": "boolean"},
	"fill_dots":        {"type": "boolean"},
	"rotation":         {"type": "integer", "enum": []int{0, 1}},
	"barcode_type":     {"type": "integer", "minimum": 0, "maximum": 8},
	"error_correction": {"type": "integer", "minimum": 0, "maximum": 3},
	"spacing":          {"type": "integer", "minimum": 0, "maximum": 5},
	"lines":            {"type": "integer", "minimum": 1, "maximum": 10},
}

// Label sizes differ from the regular text sizes.
var labelSizeSchema = map[string]interface{}{"type": "string", "enum": []string{"S", "M", "L", "XL"}}

var schemaLoaders = buildSchemaLoaders()

func buildSchemaLoaders() map[data.Kind]gojsonschema.JSONLoader {
	loaders := make(map[data.Kind]gojsonschema.JSONLoader, len(kindFields))
	for kind, specs := range kindFields {
		properties := make(map[string]interface{}, len(specs))
		required := make([]string, 0, len(specs))
		for _, s := range specs {
			prop := propertySchemas[s.name]
			if kind == data.KindLabelText && s.name == "size" {
				prop = labelSizeSchema
			}
			properties[s.name] = prop
			required = append(required, s.name)
		}
		schema := map[string]interface{}{
			"type":                 "object",
			"properties":           properties,
			"additionalProperties": false,
		}
		if len(required) > 0 {
			schema["required"] = required
		}
		loaders[kind] = gojsonschema.NewGoLoader(schema)
	}
	return loaders
}

// validateSchema checks the coerced payload against the kind's schema and
// reports the first violation as a ValidationError.
func validateSchema(kind data.Kind, payload map[string]interface{}) error {
	result, err := gojsonschema.Validate(schemaLoaders[kind], gojsonschema.NewGoLoader(payload))
	if err != nil {
		return perrors.NewValidationError("", "payload could not be validated: "+err.Error())
	}
	if result.Valid() {
		return nil
	}

	desc := result.Errors()[0]
	field := desc.Field()
	if desc.Type() == "additional_property_not_allowed" {
		if name, ok := desc.Details()["property"].(string); ok {
			field = name
		}
	}
	field = strings.TrimPrefix(field, "(root).")
	return perrors.NewValidationError(field, desc.Description())
}
