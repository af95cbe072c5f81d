package tsconfig

import (
	"bytes"

	"github.com/tailscale/hujson"

	"github.com/Bnaya/typescript-monorepo-toolkit/internal/configdoc"
)

const (
	CompilerOptionsKey = "compilerOptions"
	CompositeKey       = "composite"
	ReferencesKey      = "references"
	ExtendsKey         = "extends"
)

var compilerOptions = []string{CompilerOptionsKey}

// EnsureComposite sets compilerOptions.composite to true, creating
// compilerOptions when it is missing.
func EnsureComposite(doc *configdoc.Document) error {
	return doc.SetBoolField(compilerOptions, CompositeKey, true)
}

// SetReferenceList replaces the whole references array with one
// { "path": p } entry per path, in order. Previous entries are dropped.
func SetReferenceList(doc *configdoc.Document, paths []string) error {
	elements := make([][]byte, 0, len(paths))
	for _, p := range paths {
		var b bytes.Buffer
		b.WriteString(`{ "path": `)
		b.Write(hujson.String(p))
		b.WriteString(` }`)
		elements = append(elements, b.Bytes())
	}
	return doc.SetArray(nil, ReferencesKey, elements)
}

// SetStringOption sets or, for a nil value, deletes compilerOptions.<name>.
func SetStringOption(doc *configdoc.Document, name string, value *string) error {
	return doc.SetStringField(compilerOptions, name, value)
}

// SetRootStringOption sets or, for a nil value, deletes a top-level string
// field.
func SetRootStringOption(doc *configdoc.Document, name string, value *string) error {
	return doc.SetStringField(nil, name, value)
}

// IsComposite reports whether compilerOptions.composite is literally true.
func IsComposite(doc *configdoc.Document) bool {
	v, ok := doc.Lookup(CompilerOptionsKey, CompositeKey)
	if !ok {
		return false
	}
	lit, ok := v.Value.(hujson.Literal)
	return ok && string(lit) == "true"
}

// References returns the path of every references entry that has one.
func References(doc *configdoc.Document) []string {
	v, ok := doc.Lookup(ReferencesKey)
	if !ok {
		return nil
	}
	arr, ok := v.Value.(*hujson.Array)
	if !ok {
		return nil
	}
	var out []string
	for _, e := range arr.Elements {
		obj, ok := e.Value.(*hujson.Object)
		if !ok {
			continue
		}
		for _, m := range obj.Members {
			if name, _ := configdoc.LiteralString(m.Name.Value); name != "path" {
				continue
			}
			if p, ok := configdoc.LiteralString(m.Value.Value); ok {
				out = append(out, p)
			}
		}
	}
	return out
}

// StringOption returns compilerOptions.<name> when it is a string.
func StringOption(doc *configdoc.Document, name string) (string, bool) {
	v, ok := doc.Lookup(CompilerOptionsKey, name)
	if !ok {
		return "", false
	}
	return configdoc.LiteralString(v.Value)
}

// RootStringOption returns a top-level string field.
func RootStringOption(doc *configdoc.Document, name string) (string, bool) {
	v, ok := doc.Lookup(name)
	if !ok {
		return "", false
	}
	return configdoc.LiteralString(v.Value)
}
