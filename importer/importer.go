// Package importer resolves the source text of import statements.
package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extension is appended to import paths that have none.
const Extension = ".em"

// Importer loads the source for an import path.
type Importer interface {
	// Import returns the canonical name and source text for path.
	Import(ctx context.Context, path string) (name, source string, err error)
}

// LocalImporter reads imports from files beneath a root directory.
type LocalImporter struct {
	root string
}

// NewLocalImporter returns an Importer that reads files relative to root.
func NewLocalImporter(root string) *LocalImporter {
	return &LocalImporter{root: root}
}

func (i *LocalImporter) Import(ctx context.Context, path string) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	if path == "" {
		return "", "", fmt.Errorf("empty import path")
	}
	if filepath.Ext(path) == "" {
		path += Extension
	}
	full := filepath.Clean(filepath.Join(i.root, path))
	rel, err := filepath.Rel(i.root, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", "", fmt.Errorf("import path %q escapes %s", path, i.root)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", "", fmt.Errorf("cannot import %q: %w", path, err)
	}
	return full, string(data), nil
}

// MapImporter serves imports from an in-memory map keyed by path. It is
// useful for embedding and tests.
type MapImporter map[string]string

func (m MapImporter) Import(ctx context.Context, path string) (string, string, error) {
	source, ok := m[path]
	if !ok {
		source, ok = m[path+Extension]
		path += Extension
	}
	if !ok {
		return "", "", fmt.Errorf("cannot import %q: not found", strings.TrimSuffix(path, Extension))
	}
	return path, source, nil
}
