// Package configdoc edits JSON-with-comments configuration files without
// disturbing the bytes it does not need to change.
//
// A Document wraps the syntax tree produced by hujson, which keeps every
// comment, whitespace run and trailing comma attached to the node it
// follows. Edits replace or insert individual nodes; packing the tree
// re-emits untouched regions exactly as they were read. New members copy
// the indentation of their siblings, and a new container is laid out on
// its own lines using the document's indent unit.
package configdoc
