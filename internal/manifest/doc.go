// Package manifest loads the analysis manifest (.reana.yaml) and validates it
// against the analysis JSON Schema. Both file locations are supplied by the
// caller; the schema file is read again on every validation so a changed
// schema takes effect without restarting the process.
package manifest
