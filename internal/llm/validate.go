package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemas holds compiled schemas by name. Schema names are unique per
// process, so the first compiled definition wins.
var schemas = &schemaRegistry{compiled: map[string]*jsonschema.Schema{}}

type schemaRegistry struct {
	mu       sync.Mutex
	compiled map[string]*jsonschema.Schema
}

func (r *schemaRegistry) get(schema *Schema) (*jsonschema.Schema, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.compiled[schema.Name]; ok {
		return c, nil
	}

	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	url := fmt.Sprintf("schema://kuisku/%s.json", schema.Name)
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	r.compiled[schema.Name] = compiled
	return compiled, nil
}

// checkContent applies the checks every provider shares to a reply:
// truncation, empty text and, when req carries a schema, validation.
// Errors keep the content so callers can still repair it.
func checkContent(req Request, content json.RawMessage, truncated bool) error {
	if truncated {
		return &ErrMaxTokensExceeded{Content: content, Limit: req.MaxTokens}
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return &ErrInvalidResponse{Content: content, Err: errEmptyContent}
	}
	return validateResponse(req.Schema, content)
}

// validateResponse validates raw JSON against the given Schema. Numbers
// are decoded as json.Number so integer constraints hold for large values.
// Returns nil if no schema is provided, *ErrInvalidResponse on failure.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := schemas.get(schema)
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("schema %q: %w", schema.Name, err)}
	}

	if err := compiled.Validate(doc); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}
