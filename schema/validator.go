// Package schema holds the JSON Schemas for the durable snapshot and the
// bridge wire format, and validators compiled from them.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed snapshot.schema.json
var snapshotSchemaData []byte

//go:embed bridge.schema.json
var bridgeSchemaData []byte

// Validator validates raw JSON documents against one compiled schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the schema document registered under name.
func NewValidator(name string, data []byte) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource %s: %w", name, err)
	}

	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
	}

	return &Validator{schema: schema}, nil
}

// ValidateJSON validates a raw JSON document.
func (v *Validator) ValidateJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return v.Validate(doc)
}

// Validate validates an already decoded JSON value. Numbers should be
// json.Number to keep integer checks exact.
func (v *Validator) Validate(doc interface{}) error {
	if err := v.schema.Validate(doc); err != nil {
		if validationErr, ok := err.(*jsonschema.ValidationError); ok {
			var errorMessages []string
			collectErrors(validationErr, &errorMessages)
			return fmt.Errorf("schema validation failed:\n%s", strings.Join(errorMessages, "\n"))
		}
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// collectErrors recursively collects all validation errors into a slice
func collectErrors(err *jsonschema.ValidationError, messages *[]string) {
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*messages = append(*messages, fmt.Sprintf("- %s: %s", loc, err.Message))
	}
	for _, cause := range err.Causes {
		collectErrors(cause, messages)
	}
}

var (
	snapshotOnce      sync.Once
	snapshotValidator *Validator
	snapshotErr       error

	bridgeOnce      sync.Once
	bridgeValidator *Validator
	bridgeErr       error
)

// Snapshot returns the shared validator for durable snapshot records.
func Snapshot() (*Validator, error) {
	snapshotOnce.Do(func() {
		snapshotValidator, snapshotErr = NewValidator("snapshot.json", snapshotSchemaData)
	})
	return snapshotValidator, snapshotErr
}

// Bridge returns the shared validator for bridge wire messages.
func Bridge() (*Validator, error) {
	bridgeOnce.Do(func() {
		bridgeValidator, bridgeErr = NewValidator("bridge.json", bridgeSchemaData)
	})
	return bridgeValidator, bridgeErr
}

// SnapshotSchema returns the raw snapshot schema document.
func SnapshotSchema() []byte {
	return snapshotSchemaData
}

// BridgeSchema returns the raw bridge message schema document.
func BridgeSchema() []byte {
	return bridgeSchemaData
}
