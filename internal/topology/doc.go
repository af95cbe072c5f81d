// Package topology obtains the workspace package mapping from an external
// source: the package manager (`yarn workspaces info --json`) or a JSON file
// holding the same payload. The source is a black box; this package only
// runs it and decodes its answer.
package topology
