package configdoc

import (
	"bytes"

	"github.com/tailscale/hujson"
)

const defaultIndentUnit = "  "

// layout captures how the members of one object are laid out.
type layout struct {
	inline bool         // members share a line with the braces
	indent string       // indentation of each member line
	close  string       // indentation of the closing brace line
	sep    hujson.Extra // text before a new member name when inline
	colon  hujson.Extra // text between ':' and a new value
}

// memberPrefix is the extra placed before a new member or element.
func (l layout) memberPrefix() hujson.Extra {
	if l.inline {
		return cloneExtra(l.sep)
	}
	return hujson.Extra("\n" + l.indent)
}

// objectLayout derives the layout of obj from its last member. An empty
// object is laid out on its own lines, one unit deeper than close.
func objectLayout(obj *hujson.Object, close, unit string) layout {
	l := layout{indent: close + unit, close: close, colon: hujson.Extra(" ")}
	if len(obj.Members) == 0 {
		return l
	}
	last := obj.Members[len(obj.Members)-1]
	if ind, ok := lineIndent(last.Name.BeforeExtra); ok {
		l.indent = ind
	} else {
		l.inline = true
		l.sep = hujson.Extra(" ")
		if isBlank(last.Name.BeforeExtra) {
			l.sep = cloneExtra(last.Name.BeforeExtra)
		}
	}
	if isBlank(last.Value.BeforeExtra) {
		l.colon = cloneExtra(last.Value.BeforeExtra)
	}
	return l
}

// lineIndent returns the leading whitespace of the last line in extra, or
// false when extra does not contain a line break.
func lineIndent(extra hujson.Extra) (string, bool) {
	i := bytes.LastIndexByte(extra, '\n')
	if i < 0 {
		return "", false
	}
	rest := extra[i+1:]
	trimmed := bytes.TrimLeft(rest, " \t")
	return string(rest[:len(rest)-len(trimmed)]), true
}

// inferUnit guesses one level of indentation from the root object.
func inferUnit(root *hujson.Object) string {
	l := objectLayout(root, "", defaultIndentUnit)
	if len(root.Members) == 0 || l.inline || l.indent == "" {
		return defaultIndentUnit
	}
	return l.indent
}

func isBlank(extra hujson.Extra) bool {
	return len(bytes.TrimSpace(extra)) == 0
}

func cloneExtra(extra hujson.Extra) hujson.Extra {
	if extra == nil {
		return nil
	}
	return append(hujson.Extra(nil), extra...)
}

// splitLine splits extra after the comments sharing the line it starts on.
// same is nil when extra holds no line break or nothing but whitespace
// precedes the first one.
func splitLine(extra hujson.Extra) (same, rest hujson.Extra) {
	for i := 0; i < len(extra); i++ {
		switch {
		case extra[i] == '\n':
			if isBlank(extra[:i]) {
				return nil, extra
			}
			return extra[:i:i], extra[i:]
		case bytes.HasPrefix(extra[i:], []byte("/*")):
			end := bytes.Index(extra[i+2:], []byte("*/"))
			if end < 0 {
				return nil, extra
			}
			i += end + 3
		case bytes.HasPrefix(extra[i:], []byte("//")):
			end := bytes.IndexByte(extra[i:], '\n')
			if end < 0 {
				return nil, extra
			}
			i += end - 1
		}
	}
	return nil, extra
}

func joinExtra(a, b hujson.Extra) hujson.Extra {
	out := make(hujson.Extra, 0, len(a)+len(b))
	return append(append(out, a...), b...)
}
