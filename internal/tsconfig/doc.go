// Package tsconfig implements the idempotent edits applied to a package's
// TypeScript build configuration: the composite flag, the project reference
// list, string compiler options and top-level string options such as
// "extends". Each edit is a pure function of one configdoc.Document.
package tsconfig
