package tool

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidateSchema checks raw params against a compiled JSON Schema. The
// returned error names the offending field where the schema pinpoints
// one. A nil return means the params are structurally valid.
func ValidateSchema(schema *jsonschema.Schema, params json.RawMessage) error {
	var v interface{}
	if err := json.Unmarshal(params, &v); err != nil {
		return fmt.Errorf("params are not valid JSON: %v", err)
	}

	if err := schema.Validate(v); err != nil {
		return errors.New(schemaErrorMessage(err))
	}
	return nil
}

// schemaErrorMessage flattens a jsonschema validation error to its most
// specific cause so callers see "parameter 'query' is invalid: expected
// string, but got number" instead of the full cause tree.
func schemaErrorMessage(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}

	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}

	if loc := strings.TrimPrefix(leaf.InstanceLocation, "/"); loc != "" {
		return fmt.Sprintf("parameter '%s' is invalid: %s", loc, leaf.Message)
	}
	return fmt.Sprintf("params failed schema validation: %s", leaf.Message)
}
