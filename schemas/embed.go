// Package schemas ships the JSON Schema documents used by the client: the
// analysis manifest schema and the per-dialect workflow schemas.
package schemas

import "embed"

// FS holds every schema document, rooted at this directory.
//
//go:embed *.json yadage/*.json serial/*.json
var FS embed.FS

// AnalysisSchema is the path of the manifest schema inside FS.
const AnalysisSchema = "reana_analysis_schema.json"
