// Package config defines the format-agnostic settings model of the toolkit
// and the Loader interface for reading it from a settings file.
//
// A Model is one configuration layer. Unset fields are nil so that layers
// (settings file, environment, command line flags) can be merged with a
// clear precedence. Concrete file formats, such as HCL, are provided in
// separate packages.
package config
