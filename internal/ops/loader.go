package ops

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// opsFileSchema is the JSON Schema every custom operations file must satisfy.
// Unknown fields are rejected so a typoed "statments" can't silently turn an
// operation into a no-op.
const opsFileSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "description", "class"],
    "additionalProperties": false,
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "description": {"type": "string", "minLength": 1},
      "class": {"enum": ["read-only", "safe-to-rerun", "requires-guard"]},
      "precheck": {
        "type": "object",
        "required": ["kind"],
        "additionalProperties": false,
        "properties": {
          "kind": {"enum": ["column-missing", "table-missing", "index-missing", "rows-match"]},
          "table": {"type": "string"},
          "column": {"type": "string"},
          "index": {"type": "string"},
          "expected_columns": {"type": "array", "items": {"type": "string"}}
        }
      },
      "statements": {"type": "array", "items": {"type": "string", "minLength": 1}},
      "projection_sql": {"type": "string"},
      "query_sql": {"type": "string"}
    }
  }
}`

// LoadOperationsFile reads a custom operations file and validates it against
// the embedded JSON Schema before decoding
func LoadOperationsFile(path string) ([]Operation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read operations file: %w", err)
	}

	schemaLoader := gojsonschema.NewStringLoader(opsFileSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("failed to validate %s: %w", path, err)
	}
	if !result.Valid() {
		var msgs []string
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return nil, fmt.Errorf("invalid operations file %s:\n  %s", path, strings.Join(msgs, "\n  "))
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var operations []Operation
	if err := decoder.Decode(&operations); err != nil {
		return nil, fmt.Errorf("failed to decode operations file %s: %w", path, err)
	}

	return operations, nil
}

// MergeFile loads a custom operations file into the registry. Duplicate ids
// and structurally invalid operations are rejected by Register.
func MergeFile(r *Registry, path string) error {
	operations, err := LoadOperationsFile(path)
	if err != nil {
		return err
	}
	for _, op := range operations {
		if err := r.Register(op); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}
