package config

import "slices"

// Model is a single configuration layer.
type Model struct {
	TSConfigPath     *string
	Concurrency      *int
	LogLevel         *string
	LogFormat        *string
	GenerateBuildAll *bool
	BuildAllFile     *string
	// Ignore lists package names excluded from classification. Layers
	// append to each other.
	Ignore   []string
	Topology *Topology
}

// Topology selects where the workspace dependency graph comes from.
type Topology struct {
	Command []string
	File    *string
}

// Merge folds layers into one Model. Later layers take precedence; nil
// layers are skipped.
func Merge(layers ...*Model) *Model {
	out := &Model{}
	for _, l := range layers {
		if l == nil {
			continue
		}
		out.TSConfigPath = pick(out.TSConfigPath, l.TSConfigPath)
		out.Concurrency = pick(out.Concurrency, l.Concurrency)
		out.LogLevel = pick(out.LogLevel, l.LogLevel)
		out.LogFormat = pick(out.LogFormat, l.LogFormat)
		out.GenerateBuildAll = pick(out.GenerateBuildAll, l.GenerateBuildAll)
		out.BuildAllFile = pick(out.BuildAllFile, l.BuildAllFile)
		for _, name := range l.Ignore {
			if !slices.Contains(out.Ignore, name) {
				out.Ignore = append(out.Ignore, name)
			}
		}
		if l.Topology != nil {
			if out.Topology == nil {
				out.Topology = &Topology{}
			}
			if len(l.Topology.Command) > 0 {
				out.Topology.Command = slices.Clone(l.Topology.Command)
			}
			out.Topology.File = pick(out.Topology.File, l.Topology.File)
		}
	}
	return out
}

func pick[T any](cur, next *T) *T {
	if next != nil {
		return next
	}
	return cur
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
