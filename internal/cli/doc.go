// Package cli defines the Cobra command tree for reana-client. Commands map
// flags onto the workflow loader registry and the manifest validator, render
// results, and choose the process exit code. Business logic lives in the
// internal packages.
package cli
