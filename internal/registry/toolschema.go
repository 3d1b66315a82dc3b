package registry

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema/tool.schema.json
var toolSchemaBytes []byte

var (
	toolSchema     *jsonschema.Schema
	toolSchemaOnce sync.Once
	toolSchemaErr  error
)

// compiledToolSchema compiles the embedded schema once.
func compiledToolSchema() (*jsonschema.Schema, error) {
	toolSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(toolSchemaBytes))
		if err != nil {
			toolSchemaErr = fmt.Errorf("unmarshaling tool schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("tool.schema.json", doc); err != nil {
			toolSchemaErr = fmt.Errorf("adding tool schema resource: %w", err)
			return
		}
		toolSchema, toolSchemaErr = c.Compile("tool.schema.json")
	})
	return toolSchema, toolSchemaErr
}

// CheckToolShape validates one extracted tool entry against the minimal
// invocable-capability shape. The result is advisory: callers log failures
// and keep the entry.
func CheckToolShape(tool any) error {
	schema, err := compiledToolSchema()
	if err != nil {
		return err
	}

	// Round-trip through JSON so the validator sees canonical types.
	raw, err := json.Marshal(tool)
	if err != nil {
		return fmt.Errorf("marshaling tool: %w", err)
	}
	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("decoding tool: %w", err)
	}
	return schema.Validate(v)
}
