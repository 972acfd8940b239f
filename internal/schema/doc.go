// Package schema wraps the JSON Schema compiler used by the client. It compiles
// schema trees from any fs.FS (the embedded schemas or a directory on disk),
// converts YAML-decoded documents into JSON values, and flattens validation
// error trees into a list of readable issues.
package schema
