// internal/validate/schema.go
package validate

import (
	"github.com/xeipuuv/gojsonschema"
)

// scenarioFileSchema describes the JSON shape of one corpus file. Structural
// schema violations surface as validator errors before any scenario is
// decoded, keeping malformed files from half-loading.
var scenarioFileSchema = map[string]any{
	"type":     "object",
	"required": []any{"biasType", "scenarios"},
	"properties": map[string]any{
		"biasType": map[string]any{"type": "string"},
		"scenarios": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":     "object",
				"required": []any{"id", "biasType", "prompt", "difficulty", "rubric"},
				"properties": map[string]any{
					"id":            map[string]any{"type": "string"},
					"biasType":      map[string]any{"type": "string"},
					"category":      map[string]any{"type": "string"},
					"prompt":        map[string]any{"type": "string"},
					"controlPrompt": map[string]any{"type": "string"},
					"difficulty":    map[string]any{"type": "string"},
					"tags": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"expectedBiasIndicators": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"rubric": map[string]any{
						"type":     "object",
						"required": []any{"dimensions", "weights"},
						"properties": map[string]any{
							"dimensions": map[string]any{
								"type":     "array",
								"minItems": 1,
								"items": map[string]any{
									"type":     "object",
									"required": []any{"name", "scaleMin", "scaleMax"},
								},
							},
							"weights": map[string]any{"type": "object"},
						},
					},
				},
			},
		},
	},
}

// ScenarioFileJSON validates raw corpus file bytes against the scenario file
// schema before decoding.
func ScenarioFileJSON(data []byte) Result {
	var result Result

	schemaLoader := gojsonschema.NewGoLoader(scenarioFileSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	outcome, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		result.errorf("scenario file is not valid JSON: %v", err)
		return result
	}
	if !outcome.Valid() {
		for _, desc := range outcome.Errors() {
			result.errorf("scenario file schema violation: %s", desc.String())
		}
	}

	return result
}
