package workspace

import (
	"path/filepath"
)

// PackageRecord describes one workspace package as reported by the topology
// source.
type PackageRecord struct {
	// Name is the package name; unique within the workspace.
	Name string `json:"-" yaml:"-"`

	// Location is the package directory relative to the workspace root.
	Location string `json:"location" yaml:"location"`

	// WorkspaceDependencies are the declared dependencies that the package
	// manager resolved inside the workspace, in declaration order.
	WorkspaceDependencies []string `json:"workspaceDependencies" yaml:"workspaceDependencies"`

	// MismatchedWorkspaceDependencies are declared workspace dependencies
	// whose version range does not match the local package. They are kept
	// for diagnostics only.
	MismatchedWorkspaceDependencies []string `json:"mismatchedWorkspaceDependencies" yaml:"mismatchedWorkspaceDependencies"`
}

// Dir returns the absolute (or root-relative when root is relative) package
// directory.
func (p PackageRecord) Dir(root string) string {
	return filepath.Join(root, filepath.FromSlash(p.Location))
}

// ConfigFile returns the path of the package's build configuration file.
func (p PackageRecord) ConfigFile(root, configPath string) string {
	return filepath.Join(p.Dir(root), filepath.FromSlash(configPath))
}

// DependsOn reports whether name is one of the package's declared workspace
// dependencies.
func (p PackageRecord) DependsOn(name string) bool {
	for _, dep := range p.WorkspaceDependencies {
		if dep == name {
			return true
		}
	}
	return false
}
