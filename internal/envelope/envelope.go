// Package envelope parses and validates the publish metadata document
// that travels alongside an artifact upload. The document is validated
// against an embedded JSON Schema before it is trusted: unknown
// fields and malformed shapes are rejected at the boundary rather
// than surfacing later as odd registry state.
package envelope

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed envelope.schema.json
var schemaJSON string

// Metadata is the validated publish envelope.
type Metadata struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description,omitempty"`
	Authors     []string `json:"authors,omitempty"`
	License     string   `json:"license,omitempty"`
	Repository  string   `json:"repository,omitempty"`
	Homepage    string   `json:"homepage,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Signature   string   `json:"signature,omitempty"`
	Fingerprint string   `json:"publisher_fingerprint,omitempty"`
}

var (
	compileOnce sync.Once
	schema      *jsonschema.Schema
	compileErr  error
)

// compiled returns the compiled embedded schema. Compilation happens
// once; an error here is a programming error in the embedded document.
func compiled() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("decode embedded schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("envelope.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("register embedded schema: %w", err)
			return
		}
		schema, compileErr = c.Compile("envelope.schema.json")
	})
	return schema, compileErr
}

// Parse validates data against the envelope schema and unmarshals it.
func Parse(data []byte) (*Metadata, error) {
	sch, err := compiled()
	if err != nil {
		return nil, err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("envelope is not valid JSON: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return nil, fmt.Errorf("envelope rejected by schema: %w", err)
	}

	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return &m, nil
}
