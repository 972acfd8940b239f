// Package workflow loads and validates workflow specification files. Each
// specification dialect (yadage, serial) is served by a SpecLoader registered
// in a Registry under its dialect tag. Loaders read the file, dereference every
// $ref it contains (internal pointers, relative files, remote URLs), validate
// the result against the dialect's JSON Schema, and return the fully inlined
// document.
package workflow
