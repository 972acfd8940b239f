package manifest

import (
	"fmt"
	"path/filepath"

	"github.com/reanahub/reana-client/internal/workflow"
)

// LoadWorkflow loads the workflow specification the manifest points to.
// A relative workflow file is resolved against the manifest's directory. An
// inline specification is dereferenced against the manifest's directory and
// validated with the dialect's schema, the same as a workflow file.
func LoadWorkflow(a *Analysis, manifestPath string, reg *workflow.Registry, opts ...workflow.Option) (workflow.Document, error) {
	tag := a.Workflow.Type

	base := filepath.Dir(manifestPath)
	opts = append([]workflow.Option{workflow.WithTopLevel(base)}, opts...)

	if a.Workflow.File != "" {
		return reg.Load(tag, a.Workflow.File, opts...)
	}
	if _, ok := reg.Lookup(tag); ok && a.Workflow.Specification == nil {
		return nil, fmt.Errorf("manifest %s declares neither workflow.file nor workflow.specification", manifestPath)
	}
	return reg.Validate(tag, map[string]any(a.Workflow.Specification), opts...)
}
