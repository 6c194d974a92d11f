package gen

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/wkalt/fbc/ir"
)

/*
The json-ir target dumps the compiled IR as a JSON document. It exists for
tooling that wants schema structure without linking the compiler: editor
integrations, diffing schema versions, build-system introspection.
*/

////////////////////////////////////////////////////////////////////////////////

func init() { // nolint:gochecknoinits
	register(jsonTarget{})
}

type jsonTarget struct{}

func (jsonTarget) Name() string { return "json-ir" }

type jsonDecl struct {
	Kind      ir.DeclKind `json:"kind"`
	Name      string      `json:"name"`
	Namespace string      `json:"namespace,omitempty"`
	Synthetic bool        `json:"synthetic,omitempty"`
	Decl      ir.Decl     `json:"decl"`
}

type jsonSchema struct {
	Decls          []jsonDecl `json:"decls"`
	Root           ir.Ref     `json:"root"`
	FileIdentifier string     `json:"fileIdentifier,omitempty"`
	FileExtension  string     `json:"fileExtension,omitempty"`
	Attributes     []string   `json:"attributes,omitempty"`
}

func (jsonTarget) Generate(schema *ir.Schema, opts Options) ([]File, error) {
	doc := jsonSchema{
		Decls:          make([]jsonDecl, 0, len(schema.Decls)),
		Root:           schema.Root,
		FileIdentifier: schema.FileIdentifier,
		FileExtension:  schema.FileExtension,
		Attributes:     schema.Attributes,
	}
	for _, decl := range schema.Decls {
		base := decl.Base()
		entry := jsonDecl{
			Kind:      decl.Kind(),
			Name:      base.Name,
			Namespace: base.Namespace,
			Decl:      decl,
		}
		if e, ok := decl.(*ir.Enum); ok {
			entry.Synthetic = e.Synthetic
		}
		doc.Decls = append(doc.Decls, entry)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return []File{{Path: "schema.json", Content: append(data, '\n')}}, nil
}
