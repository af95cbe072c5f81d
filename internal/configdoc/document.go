package configdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tailscale/hujson"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Document is the editable syntax tree of one configuration file. It is not
// safe for concurrent use; each unit operation owns its own Document.
type Document struct {
	root *hujson.Value
	obj  *hujson.Object
	unit string
	bom  bool
	lead map[string]bool
}

// Parse builds a Document from file contents. Comments and trailing commas
// are accepted. The root value must be an object.
func Parse(b []byte) (*Document, error) {
	bom := bytes.HasPrefix(b, utf8BOM)
	if bom {
		b = b[len(utf8BOM):]
	}
	v, err := hujson.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	obj, ok := v.Value.(*hujson.Object)
	if !ok {
		return nil, fmt.Errorf("%w (found %s)", ErrNotObject, kindName(v.Value))
	}
	return &Document{
		root: &v,
		obj:  obj,
		unit: inferUnit(obj),
		bom:  bom,
		lead: map[string]bool{},
	}, nil
}

// LeadWith makes new top-level members with one of the given keys go first
// in the root object instead of last.
func (d *Document) LeadWith(keys ...string) {
	for _, k := range keys {
		d.lead[k] = true
	}
}

// Bytes serialises the document. Regions no edit touched come out exactly
// as they were parsed.
func (d *Document) Bytes() []byte {
	out := d.root.Pack()
	if d.bom {
		out = append(append([]byte(nil), utf8BOM...), out...)
	}
	return out
}

// Lookup returns the value at path without creating anything.
func (d *Document) Lookup(path ...string) (hujson.Value, bool) {
	if len(path) == 0 {
		return *d.root, true
	}
	parent, _, found, err := d.walk(path[:len(path)-1], false)
	if err != nil || !found {
		return hujson.Value{}, false
	}
	i := memberIndex(parent, path[len(path)-1])
	if i < 0 {
		return hujson.Value{}, false
	}
	return parent.Members[i].Value, true
}

// ObjectField walks path from the root, creating an empty object for every
// missing step, and returns the object at the end of it.
func (d *Document) ObjectField(path ...string) (*hujson.Object, error) {
	obj, _, _, err := d.walk(path, true)
	return obj, err
}

// ArrayField returns the array stored under key in the object at
// parentPath, creating the parents and an empty array when missing.
func (d *Document) ArrayField(parentPath []string, key string) (*hujson.Array, error) {
	arr, _, err := d.arrayField(parentPath, key)
	return arr, err
}

// SetArray replaces every element of the array under key with the given
// JSON values, creating the array when missing. Elements are laid out one
// per line unless the enclosing object is written on a single line.
func (d *Document) SetArray(parentPath []string, key string, elements [][]byte) error {
	arr, lay, err := d.arrayField(parentPath, key)
	if err != nil {
		return err
	}
	tmpl, err := parseArray(renderArray(elements, lay, d.unit))
	if err != nil {
		return fmt.Errorf("set %s: %w", strings.Join(append(append([]string(nil), parentPath...), key), "."), err)
	}
	arr.Elements = tmpl.Elements
	arr.AfterExtra = tmpl.AfterExtra
	return nil
}

// SetStringField sets key in the object at parentPath to value. An existing
// field keeps its position and surrounding text; a missing one is added. A
// nil value deletes the field, and deleting an absent field changes nothing.
func (d *Document) SetStringField(parentPath []string, key string, value *string) error {
	if value == nil {
		return d.DeleteField(parentPath, key)
	}
	return d.SetLiteral(parentPath, key, hujson.String(*value))
}

// SetBoolField sets key in the object at parentPath to value.
func (d *Document) SetBoolField(parentPath []string, key string, value bool) error {
	return d.SetLiteral(parentPath, key, hujson.Bool(value))
}

// SetLiteral stores a scalar under key in the object at parentPath.
func (d *Document) SetLiteral(parentPath []string, key string, lit hujson.Literal) error {
	obj, lay, _, err := d.walk(parentPath, true)
	if err != nil {
		return err
	}
	if i := memberIndex(obj, key); i >= 0 {
		obj.Members[i].Value.Value = lit
		return nil
	}
	return d.insert(obj, lay, d.leads(parentPath, key), key, lit)
}

// DeleteField removes key from the object at parentPath. Missing parents
// or a missing key are not an error.
func (d *Document) DeleteField(parentPath []string, key string) error {
	obj, _, found, err := d.walk(parentPath, false)
	if err != nil || !found {
		return err
	}
	i := memberIndex(obj, key)
	if i < 0 {
		return nil
	}
	m := obj.Members[i]
	// Comments after the preceding comma belong to the previous line. Those
	// on the line of the removed value go with it.
	keep, _ := splitLine(m.Name.BeforeExtra)
	if i < len(obj.Members)-1 {
		next := &obj.Members[i+1].Name
		_, rest := splitLine(next.BeforeExtra)
		next.BeforeExtra = joinExtra(keep, rest)
	} else {
		_, rest := splitLine(obj.AfterExtra)
		tail := joinExtra(keep, rest)
		if i > 0 {
			prev := &obj.Members[i-1].Value
			switch {
			case m.Value.AfterExtra == nil:
				// No trailing comma: text after the new last value moves
				// into the object.
				tail = joinExtra(prev.AfterExtra, tail)
				prev.AfterExtra = nil
			case prev.AfterExtra == nil:
				prev.AfterExtra = hujson.Extra{}
			}
		}
		obj.AfterExtra = tail
	}
	obj.Members = append(obj.Members[:i], obj.Members[i+1:]...)
	return nil
}

func (d *Document) leads(parentPath []string, key string) bool {
	return len(parentPath) == 0 && d.lead[key]
}

// walk follows path through nested objects. With create set, missing steps
// are added as empty objects; otherwise found reports whether the full path
// exists.
func (d *Document) walk(path []string, create bool) (obj *hujson.Object, lay layout, found bool, err error) {
	obj = d.obj
	lay = objectLayout(obj, "", d.unit)
	for i, key := range path {
		idx := memberIndex(obj, key)
		if idx < 0 {
			if !create {
				return nil, layout{}, false, nil
			}
			child := &hujson.Object{}
			if err := d.insert(obj, lay, d.leads(path[:i], key), key, child); err != nil {
				return nil, layout{}, false, err
			}
			obj, lay = child, objectLayout(child, lay.indent, d.unit)
			continue
		}
		child, ok := obj.Members[idx].Value.Value.(*hujson.Object)
		if !ok {
			return nil, layout{}, false, &FieldTypeError{
				Path: append([]string(nil), path[:i+1]...),
				Want: "object",
				Got:  kindName(obj.Members[idx].Value.Value),
			}
		}
		obj, lay = child, objectLayout(child, lay.indent, d.unit)
	}
	return obj, lay, true, nil
}

func (d *Document) arrayField(parentPath []string, key string) (*hujson.Array, layout, error) {
	obj, lay, _, err := d.walk(parentPath, true)
	if err != nil {
		return nil, layout{}, err
	}
	if i := memberIndex(obj, key); i >= 0 {
		arr, ok := obj.Members[i].Value.Value.(*hujson.Array)
		if !ok {
			return nil, layout{}, &FieldTypeError{
				Path: append(append([]string(nil), parentPath...), key),
				Want: "array",
				Got:  kindName(obj.Members[i].Value.Value),
			}
		}
		return arr, lay, nil
	}
	arr := &hujson.Array{}
	if err := d.insert(obj, lay, d.leads(parentPath, key), key, arr); err != nil {
		return nil, layout{}, err
	}
	return arr, lay, nil
}

// insert adds a member to obj, first or last. Appending moves the text that
// followed the previous last value onto the new one, so the closing brace
// and any trailing comma stay where the author put them.
func (d *Document) insert(obj *hujson.Object, lay layout, first bool, key string, val hujson.ValueTrimmed) error {
	if len(obj.Members) == 0 {
		return fillEmpty(obj, lay, key, val)
	}
	m := hujson.ObjectMember{
		Name:  hujson.Value{BeforeExtra: lay.memberPrefix(), Value: hujson.String(key)},
		Value: hujson.Value{BeforeExtra: cloneExtra(lay.colon), Value: val},
	}
	if first {
		// A comment on the opening brace line stays there.
		head := &obj.Members[0].Name
		same, rest := splitLine(head.BeforeExtra)
		if same != nil {
			m.Name.BeforeExtra = joinExtra(same, m.Name.BeforeExtra)
			head.BeforeExtra = joinExtra(nil, rest)
		}
		obj.Members = append([]hujson.ObjectMember{m}, obj.Members...)
		return nil
	}
	last := &obj.Members[len(obj.Members)-1]
	m.Value.AfterExtra, last.Value.AfterExtra = last.Value.AfterExtra, nil
	// A comment on the line of the previous last value stays on that line,
	// after the comma that now follows it.
	if same, rest := splitLine(obj.AfterExtra); same != nil {
		m.Name.BeforeExtra = joinExtra(same, m.Name.BeforeExtra)
		obj.AfterExtra = joinExtra(nil, rest)
	}
	obj.Members = append(obj.Members, m)
	return nil
}

// fillEmpty gives an empty object its first member. The new layout is
// produced by parsing generated text, keeping any comment that sat between
// the braces.
func fillEmpty(obj *hujson.Object, lay layout, key string, val hujson.ValueTrimmed) error {
	var b strings.Builder
	b.WriteByte('{')
	if !isBlank(obj.AfterExtra) {
		b.Write(bytes.TrimRight(obj.AfterExtra, " \t\r\n"))
	}
	b.WriteString("\n" + lay.indent)
	b.Write(hujson.String(key))
	b.WriteString(": null\n" + lay.close + "}")

	v, err := hujson.Parse([]byte(b.String()))
	if err != nil {
		return fmt.Errorf("insert %q: %w", key, err)
	}
	tmpl := v.Value.(*hujson.Object)
	tmpl.Members[0].Value.Value = val
	obj.Members = tmpl.Members
	obj.AfterExtra = tmpl.AfterExtra
	return nil
}

func renderArray(elements [][]byte, lay layout, unit string) []byte {
	if len(elements) == 0 {
		return []byte("[]")
	}
	var b bytes.Buffer
	b.WriteByte('[')
	for i, e := range elements {
		if i > 0 {
			b.WriteByte(',')
		}
		if lay.inline {
			if i > 0 {
				b.WriteByte(' ')
			}
		} else {
			b.WriteString("\n" + lay.indent + unit)
		}
		b.Write(e)
	}
	if !lay.inline {
		b.WriteString("\n" + lay.indent)
	}
	b.WriteByte(']')
	return b.Bytes()
}

func parseArray(text []byte) (*hujson.Array, error) {
	v, err := hujson.Parse(text)
	if err != nil {
		return nil, err
	}
	arr, ok := v.Value.(*hujson.Array)
	if !ok {
		return nil, fmt.Errorf("rendered %s, want array", kindName(v.Value))
	}
	return arr, nil
}

// memberIndex returns the index of the last member named key, or -1. The
// last duplicate wins, as it does for JSON readers.
func memberIndex(obj *hujson.Object, key string) int {
	for i := len(obj.Members) - 1; i >= 0; i-- {
		if name, ok := LiteralString(obj.Members[i].Name.Value); ok && name == key {
			return i
		}
	}
	return -1
}

// LiteralString decodes v when it is a JSON string literal.
func LiteralString(v hujson.ValueTrimmed) (string, bool) {
	lit, ok := v.(hujson.Literal)
	if !ok || len(lit) == 0 || lit[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(lit, &s); err != nil {
		return "", false
	}
	return s, true
}

func kindName(v hujson.ValueTrimmed) string {
	switch v := v.(type) {
	case *hujson.Object:
		return "object"
	case *hujson.Array:
		return "array"
	case hujson.Literal:
		if len(v) == 0 {
			return "empty"
		}
		switch v[0] {
		case '"':
			return "string"
		case 't', 'f':
			return "boolean"
		case 'n':
			return "null"
		default:
			return "number"
		}
	default:
		return "unknown"
	}
}
