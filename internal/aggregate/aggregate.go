// Package aggregate builds the generated top-level configuration that
// references every unit no other unit depends on, so the whole workspace
// can be built with a single `tsc --build`.
package aggregate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Bnaya/typescript-monorepo-toolkit/internal/workspace"
)

// DefaultFileName is the aggregate configuration written at the workspace
// root.
const DefaultFileName = "build-all-tsconfig.json"

type reference struct {
	Path string `json:"path"`
}

type document struct {
	References []reference `json:"references"`
	Include    []string    `json:"include"`
}

// Roots returns the units that no other unit declares as a dependency, in
// the unit set's order. A unit that only depends on itself still counts as
// a root.
func Roots(units *workspace.UnitSet) []workspace.PackageRecord {
	dependedOn := make(map[string]struct{}, units.Len())
	for _, u := range units.Units() {
		for _, dep := range u.WorkspaceDependencies {
			if dep != u.Name {
				dependedOn[dep] = struct{}{}
			}
		}
	}

	roots := make([]workspace.PackageRecord, 0, units.Len())
	for _, u := range units.Units() {
		if _, ok := dependedOn[u.Name]; !ok {
			roots = append(roots, u)
		}
	}
	return roots
}

// Build renders the aggregate configuration for roots, with paths relative
// to the workspace root.
func Build(roots []workspace.PackageRecord) ([]byte, error) {
	doc := document{
		References: make([]reference, 0, len(roots)),
		Include:    []string{},
	}
	for _, r := range roots {
		doc.References = append(doc.References, reference{Path: filepath.ToSlash(filepath.Clean(r.Location))})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode aggregate configuration: %w", err)
	}
	return buf.Bytes(), nil
}

// Write renders the aggregate configuration and overwrites
// root/fileName with it. The file is fully generated; nothing in a previous
// version is kept.
func Write(root, fileName string, roots []workspace.PackageRecord) (string, error) {
	if fileName == "" {
		fileName = DefaultFileName
	}
	b, err := Build(roots)
	if err != nil {
		return "", err
	}
	path := filepath.Join(root, fileName)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write aggregate configuration: %w", err)
	}
	return path, nil
}

// UpToDate reports whether root/fileName already holds exactly what Write
// would produce for roots. A missing file is out of date.
func UpToDate(root, fileName string, roots []workspace.PackageRecord) (bool, error) {
	if fileName == "" {
		fileName = DefaultFileName
	}
	want, err := Build(roots)
	if err != nil {
		return false, err
	}
	got, err := os.ReadFile(filepath.Join(root, fileName))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read aggregate configuration: %w", err)
	}
	return bytes.Equal(want, got), nil
}
