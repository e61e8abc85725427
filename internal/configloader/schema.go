package configloader

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/import_rules.json
var importRulesSchema string

// importRulesKey is the YAML key of the import rule mapping.
const importRulesKey = "import_rules"

// validateImportRulesSchema checks the raw import_rules mapping of a
// config document against the embedded JSON Schema.
func validateImportRulesSchema(doc map[string]any, filePath string) error {
	raw, ok := doc[importRulesKey]
	if !ok || raw == nil {
		return nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(importRulesSchema),
		gojsonschema.NewGoLoader(raw),
	)
	if err != nil {
		return &ValidationError{
			FilePath: filePath,
			Field:    importRulesKey,
			Message:  fmt.Sprintf("cannot validate: %v", err),
		}
	}
	if result.Valid() {
		return nil
	}

	descs := result.Errors()
	first := descs[0]
	field := importRulesKey
	if f := first.Field(); f != "" && f != "(root)" {
		field += "." + f
	}
	msg := first.Description()
	if len(descs) > 1 {
		others := make([]string, 0, len(descs)-1)
		for _, d := range descs[1:] {
			others = append(others, d.Field()+": "+d.Description())
		}
		msg += " (also: " + strings.Join(others, "; ") + ")"
	}
	return &ValidationError{FilePath: filePath, Field: field, Value: first.Value(), Message: msg}
}
