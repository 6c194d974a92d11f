package compile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wkalt/fbc/fbs"
)

// LoadFiles reads and parses the named schema files plus everything they
// include, transitively. Include paths resolve relative to the including
// file's directory first, then against the include directories. Each file is
// loaded once regardless of how many files include it, so include cycles are
// harmless. Units come back dependency-first.
func LoadFiles(paths []string, includeDirs []string) ([]Unit, error) {
	l := &loader{
		includeDirs: includeDirs,
		seen:        map[string]bool{},
	}
	for _, path := range paths {
		if err := l.load(path); err != nil {
			l.errs = append(l.errs, err)
		}
	}
	if len(l.errs) > 0 {
		return nil, ErrorList(l.errs)
	}
	return l.units, nil
}

type loader struct {
	includeDirs []string
	seen        map[string]bool
	units       []Unit
	errs        []error
}

func (l *loader) load(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if l.seen[abs] {
		return nil
	}
	l.seen[abs] = true

	data, err := os.ReadFile(abs)
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}
	schema, err := fbs.Parse(path, string(data))
	if err != nil {
		return err
	}
	for _, decl := range schema.Decls {
		inc, ok := decl.(fbs.Include)
		if !ok {
			continue
		}
		resolved, err := l.resolveInclude(filepath.Dir(abs), inc.Path)
		if err != nil {
			l.errs = append(l.errs, fmt.Errorf("%s: %w", inc.Pos, err))
			continue
		}
		if err := l.load(resolved); err != nil {
			l.errs = append(l.errs, err)
		}
	}
	l.units = append(l.units, Unit{Name: path, Schema: schema})
	return nil
}

func (l *loader) resolveInclude(dir, path string) (string, error) {
	candidates := append([]string{dir}, l.includeDirs...)
	for _, base := range candidates {
		candidate := filepath.Join(base, path)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("include %q not found (searched %d directories)", path, len(candidates))
}
