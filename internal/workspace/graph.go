package workspace

import (
	"path"
	"sort"
	"strings"
)

// Graph maps package names to their records. It is immutable once built.
type Graph struct {
	records map[string]PackageRecord
	names   []string
}

// New builds a Graph from the topology mapping. Record names are taken from
// the mapping keys. Two packages sharing one location, or a package without
// a location, make the mapping unusable.
func New(mapping map[string]PackageRecord) (*Graph, error) {
	g := &Graph{
		records: make(map[string]PackageRecord, len(mapping)),
		names:   make([]string, 0, len(mapping)),
	}
	byLocation := make(map[string]string, len(mapping))

	for name, rec := range mapping {
		if name == "" {
			return nil, invalidf("package with empty name")
		}
		loc := strings.TrimSpace(rec.Location)
		if loc == "" {
			return nil, invalidf("package %q has no location", name)
		}
		loc = path.Clean(strings.ReplaceAll(loc, "\\", "/"))
		if other, dup := byLocation[loc]; dup {
			return nil, invalidf("packages %q and %q share location %q", other, name, loc)
		}
		byLocation[loc] = name

		rec.Name = name
		rec.Location = loc
		g.records[name] = rec
		g.names = append(g.names, name)
	}
	sort.Strings(g.names)
	return g, nil
}

// Len returns the number of packages.
func (g *Graph) Len() int { return len(g.names) }

// Lookup returns the record for name.
func (g *Graph) Lookup(name string) (PackageRecord, bool) {
	rec, ok := g.records[name]
	return rec, ok
}

// Names returns all package names in sorted order.
func (g *Graph) Names() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// Records returns every record, sorted by name.
func (g *Graph) Records() []PackageRecord {
	out := make([]PackageRecord, 0, len(g.names))
	for _, name := range g.names {
		out = append(out, g.records[name])
	}
	return out
}

// Without returns a graph that omits the named packages. Dependencies on
// omitted packages stay declared and are dropped later like any other
// dependency on a non-unit.
func (g *Graph) Without(names ...string) *Graph {
	if len(names) == 0 {
		return g
	}
	skip := make(map[string]struct{}, len(names))
	for _, n := range names {
		skip[n] = struct{}{}
	}
	out := &Graph{records: make(map[string]PackageRecord, len(g.records))}
	for _, name := range g.names {
		if _, ok := skip[name]; ok {
			continue
		}
		out.records[name] = g.records[name]
		out.names = append(out.names, name)
	}
	return out
}
