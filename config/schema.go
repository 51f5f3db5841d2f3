package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema generates the JSON Schema for sessionsync.yml. Extension
// sections such as `logging` are allowed but not described.
func GenerateSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	schema := r.Reflect(&Config{})
	schema.Title = "sessionsync configuration"
	schema.Description = "Session storage and bridge settings for sessionsync."
	schema.Version = "http://json-schema.org/draft-07/schema#"
	return schema
}

// GenerateSchemaJSON renders GenerateSchema as indented JSON.
func GenerateSchemaJSON() ([]byte, error) {
	return json.MarshalIndent(GenerateSchema(), "", "  ")
}
