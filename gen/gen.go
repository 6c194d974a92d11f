package gen

import (
	"fmt"

	"github.com/wkalt/fbc/ir"
	"github.com/wkalt/fbc/util"
)

/*
gen holds the code generation backends. Each target consumes the compiled IR
and produces a set of output files; targets never see schema text or the AST.
Backends are registered by name so the CLI can list and select them.
*/

////////////////////////////////////////////////////////////////////////////////

// File is one generated output file. Path is relative to the output
// directory.
type File struct {
	Path    string
	Content []byte
}

// Options carries target-independent generation settings.
type Options struct {
	// Package is the package name for declarations outside any namespace.
	// Targets that have no package concept ignore it.
	Package string

	// Module is the base import path under which generated packages are
	// placed. Targets that emit one package per namespace need it to
	// resolve references between namespaces.
	Module string
}

// Target is a code generation backend.
type Target interface {
	Name() string
	Generate(schema *ir.Schema, opts Options) ([]File, error)
}

// nolint:gochecknoglobals
var targets = map[string]Target{}

func register(t Target) {
	targets[t.Name()] = t
}

// Lookup returns the target registered under name.
func Lookup(name string) (Target, error) {
	t, ok := targets[name]
	if !ok {
		return nil, fmt.Errorf("unknown target %q (available: %v)", name, Names())
	}
	return t, nil
}

// Names returns the registered target names, sorted.
func Names() []string {
	return util.Okeys(targets)
}
