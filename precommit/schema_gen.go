package precommit

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema reflects the hook configuration types into a JSON Schema
// document. The embedded schema used by the schema package is produced
// from this output.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		// Reject keys the config model does not know about.
		AllowAdditionalProperties: false,
		// Expand struct references instead of using $ref for a cleaner schema.
		ExpandedStruct: true,
		// Use YAML field names for property names
		FieldNameTag: "yaml",
	}

	schema := r.Reflect(&Config{})
	schema.Title = "Pre-commit Hook Configuration"
	schema.Description = "Schema for .pre-commit-config.yaml tool repository declarations."
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(schema, "", "  ")
}
