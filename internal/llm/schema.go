package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var compiled sync.Map // schema name -> *jsonschema.Schema

// validate checks raw against schema and returns a KindInvalid *Error on
// any failure.
func validate(schema *Schema, raw json.RawMessage) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &Error{Kind: KindInvalid, Raw: raw, Err: fmt.Errorf("decode output: %w", err)}
	}
	sch, err := compile(schema)
	if err != nil {
		return &Error{Kind: KindInvalid, Raw: raw, Err: err}
	}
	if err := sch.Validate(doc); err != nil {
		return &Error{Kind: KindInvalid, Raw: raw, Err: err}
	}
	return nil
}

// Validate checks raw against schema. It is exported for callers that
// receive JSON from elsewhere, such as cached or hand-written fixtures.
func Validate(schema *Schema, raw json.RawMessage) error {
	return validate(schema, raw)
}

func compile(schema *Schema) (*jsonschema.Schema, error) {
	if s, ok := compiled.Load(schema.Name); ok {
		return s.(*jsonschema.Schema), nil
	}

	// The compiler wants the decoded form jsonschema.UnmarshalJSON yields,
	// not Go maps with typed numbers.
	b, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %s: %w", schema.Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode schema %s: %w", schema.Name, err)
	}

	url := "mem://qirim/" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", schema.Name, err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", schema.Name, err)
	}
	compiled.Store(schema.Name, s)
	return s, nil
}
