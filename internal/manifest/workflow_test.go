package manifest

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/reanahub/reana-client/internal/reanaerr"
	"github.com/reanahub/reana-client/internal/workflow"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

const serialSpec = `
steps:
  - environment: 'python:3.12-slim'
    commands: [python fit.py]
`

func TestLoadWorkflow_FileRelativeToManifest(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/analysis/.reana.yaml", "workflow: {type: serial, file: workflow/serial.yaml}\n")
	writeFile(t, fsys, "/analysis/workflow/serial.yaml", serialSpec)

	v := NewWithEmbeddedSchema("/analysis/.reana.yaml", zerolog.Nop())
	v.Fs = fsys

	m, err := v.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	a, err := Decode(m)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	doc, err := LoadWorkflow(a, v.ManifestPath, workflow.Default(), workflow.WithFs(fsys))
	if err != nil {
		t.Fatalf("LoadWorkflow() error: %v", err)
	}
	steps, ok := doc["steps"].([]any)
	if !ok || len(steps) != 1 {
		t.Errorf("steps = %v, want one step", doc["steps"])
	}
}

func TestLoadWorkflow_Inline(t *testing.T) {
	a := &Analysis{Workflow: Workflow{
		Type: workflow.DialectSerial,
		Specification: map[string]interface{}{
			"steps": []interface{}{
				map[string]interface{}{"environment": "busybox", "commands": []interface{}{"true"}},
			},
		},
	}}

	doc, err := LoadWorkflow(a, ".reana.yaml", workflow.Default())
	if err != nil {
		t.Fatalf("LoadWorkflow() error: %v", err)
	}
	steps, ok := doc["steps"].([]any)
	if !ok || len(steps) != 1 {
		t.Errorf("steps = %v, want one step", doc["steps"])
	}
}

func TestLoadWorkflow_InlineInvalid(t *testing.T) {
	tests := []struct {
		name string
		spec map[string]interface{}
	}{
		{"unknown step keys", map[string]interface{}{"steps": []interface{}{map[string]interface{}{"bogus": 1}}}},
		{"no steps", map[string]interface{}{"steps": []interface{}{}}},
		{"missing steps", map[string]interface{}{"parameters": map[string]interface{}{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Analysis{Workflow: Workflow{Type: workflow.DialectSerial, Specification: tt.spec}}
			doc, err := LoadWorkflow(a, ".reana.yaml", workflow.Default())
			if !errors.Is(err, reanaerr.ErrSchemaValidation) {
				t.Fatalf("LoadWorkflow() error = %v, want schema validation", err)
			}
			if doc != nil {
				t.Errorf("LoadWorkflow() returned %v alongside an error", doc)
			}
		})
	}
}

func TestLoadWorkflow_InlineRefRelativeToManifest(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/analysis/steps.yaml", "fit: {environment: busybox, commands: ['true']}\n")

	a := &Analysis{Workflow: Workflow{
		Type: workflow.DialectSerial,
		Specification: map[string]interface{}{
			"steps": []interface{}{map[string]interface{}{"$ref": "steps.yaml#/fit"}},
		},
	}}

	doc, err := LoadWorkflow(a, "/analysis/.reana.yaml", workflow.Default(), workflow.WithFs(fsys))
	if err != nil {
		t.Fatalf("LoadWorkflow() error: %v", err)
	}
	step := doc["steps"].([]any)[0].(map[string]any)
	if step["environment"] != "busybox" {
		t.Errorf("step = %v, want the referenced step", step)
	}
}

func TestLoadWorkflow_InlineUnsupportedLogsOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	a := &Analysis{Workflow: Workflow{Type: "cwl", Specification: map[string]interface{}{}}}

	_, err := LoadWorkflow(a, ".reana.yaml", workflow.Default(), workflow.WithLogger(logger))
	if !errors.Is(err, reanaerr.ErrUnsupportedDialect) {
		t.Fatalf("LoadWorkflow() error = %v, want unsupported dialect", err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 1 {
		t.Errorf("logged %d lines, want 1:\n%s", n, buf.String())
	}
	if !strings.Contains(buf.String(), `"dialect":"cwl"`) {
		t.Errorf("log = %s, want the rejected dialect", buf.String())
	}
}

func TestLoadWorkflow_UnsupportedDialect(t *testing.T) {
	tests := []struct {
		name string
		wf   Workflow
	}{
		{"file", Workflow{Type: "cwl", File: "main.cwl"}},
		{"inline", Workflow{Type: "cwl", Specification: map[string]interface{}{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWorkflow(&Analysis{Workflow: tt.wf}, ".reana.yaml", workflow.Default())
			if !errors.Is(err, reanaerr.ErrUnsupportedDialect) {
				t.Fatalf("LoadWorkflow() error = %v, want unsupported dialect", err)
			}
		})
	}
}

func TestLoadWorkflow_NoFileNoSpecification(t *testing.T) {
	a := &Analysis{Workflow: Workflow{Type: workflow.DialectSerial}}
	if _, err := LoadWorkflow(a, ".reana.yaml", workflow.Default()); err == nil {
		t.Fatal("expected error, got nil")
	}
}
