// Package workspace holds the in-memory model of a yarn workspace: the
// package records reported by the topology source, the dependency relation
// between them, and the classification of packages into buildable units.
//
// # Lifecycle
//
// A Graph is built once per run from the topology mapping and is read-only
// afterwards, so it is shared by every concurrent unit operation without
// locking. Classification probes the filesystem on every invocation; nothing
// is persisted between runs.
package workspace
