package valar

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

///////////////////////////////////////////////////////////////////////////////
// YAML schema loading
///////////////////////////////////////////////////////////////////////////////

// docSchemaFile mirrors the YAML layout of a document schema:
//
//	name: user
//	fields:
//	  - path: name
//	    type: string
//	    required: true
//	    rules: [nonempty, maxlen(64)]
//	  - path: address
//	    type: object
//	    fields:
//	      - path: zip
//	        rules: [regex(^[0-9]{5}$)]
type docSchemaFile struct {
	Name   string         `yaml:"name"`
	Fields []docFieldFile `yaml:"fields"`
}

type docFieldFile struct {
	Path     string         `yaml:"path"`
	Type     string         `yaml:"type"`
	Required bool           `yaml:"required"`
	Rules    []string       `yaml:"rules"`
	Fields   []docFieldFile `yaml:"fields"`
}

// ParseDocSchema loads a document schema from YAML and compiles it against
// reg. Rule references are resolved here, so a schema with an unknown or
// malformed rule never produces a usable schema.
func ParseDocSchema(data []byte, reg *Registry) (*DocSchema, error) {
	var file docSchemaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing document schema: %w", err)
	}
	return NewDocSchema(file.Name, reg, docFieldsFromFile(file.Fields))
}

func docFieldsFromFile(fields []docFieldFile) []DocField {
	out := make([]DocField, 0, len(fields))
	for _, f := range fields {
		out = append(out, DocField{
			Path:     f.Path,
			Type:     f.Type,
			Required: f.Required,
			Rules:    f.Rules,
			Fields:   docFieldsFromFile(f.Fields),
		})
	}
	return out
}
