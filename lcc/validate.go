package lcc

import (
	"bytes"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const metaSchemaSource = `{
	"type": "object",
	"required": ["version", "guid", "dataType", "totalSplats", "attributes"],
	"properties": {
		"version": {"type": "string"},
		"guid": {"type": "string", "minLength": 32, "maxLength": 32},
		"dataType": {"const": "DIMENVUE"},
		"totalSplats": {"type": "integer", "minimum": 0},
		"attributes": {"type": "array", "minItems": 1}
	}
}`

const attrsSchemaSource = `{
	"type": "object",
	"required": ["spawnPoint", "transform"],
	"properties": {
		"spawnPoint": {"type": "object"},
		"transform": {"type": "object"}
	}
}`

func compileSchema(name, source string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader([]byte(source))); err != nil {
		return nil, err
	}
	return compiler.Compile(name)
}

// ValidateMeta parses metaJSON and checks it against the meta.lcc
// schema before the writer commits it to disk.
func ValidateMeta(metaJSON string) error {
	schema, err := compileSchema("meta.lcc.json", metaSchemaSource)
	if err != nil {
		return err
	}
	var doc interface{}
	if err := json.Unmarshal([]byte(metaJSON), &doc); err != nil {
		return err
	}
	return schema.Validate(doc)
}

// ValidateAttrs parses attrsJSON and checks it against the attrs.lcp
// schema before the writer commits it to disk.
func ValidateAttrs(attrsJSON string) error {
	schema, err := compileSchema("attrs.lcp.json", attrsSchemaSource)
	if err != nil {
		return err
	}
	var doc interface{}
	if err := json.Unmarshal([]byte(attrsJSON), &doc); err != nil {
		return err
	}
	return schema.Validate(doc)
}
