package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/reanahub/reana-client/internal/reanaerr"
	"github.com/reanahub/reana-client/internal/workflow"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command in an isolated home and working directory and
// returns stdout, stderr, and the command error.
func execute(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	chdir(t, dir)
	viper.Reset()
	t.Cleanup(viper.Reset)

	validateFile, validateSchema = "", ""
	specTopLevel, specOutput = "", "yaml"
	logLevelFlag = ""
	versionShort, versionJSON = false, false

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeProject(t *testing.T, manifest string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "workflow"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".reana.yaml"), []byte(manifest), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "workflow", "serial.yaml"), []byte(`
steps:
  - environment: 'python:3.12-slim'
    commands: [python fit.py]
`), 0o644))
	return dir
}

func TestValidate_Success(t *testing.T) {
	dir := writeProject(t, "version: 0.6.0\nworkflow: {type: serial, file: workflow/serial.yaml}\n")

	stdout, stderr, err := execute(t, dir, "validate")

	require.NoError(t, err)
	assert.Contains(t, stdout, "File .reana.yaml is a valid REANA specification file.")
	assert.Contains(t, stdout, "Workflow type: serial (1 step)")
	assert.NotContains(t, stderr, "Warning")
}

func TestValidate_VersionWarning(t *testing.T) {
	dir := writeProject(t, "version: 2.0.0\nworkflow: {type: serial, file: workflow/serial.yaml}\n")

	_, stderr, err := execute(t, dir, "validate")

	require.NoError(t, err)
	assert.Contains(t, stderr, "Warning: manifest version 2.0.0")
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		args     []string
		wantCode int
	}{
		{"missing manifest", "", []string{"validate", "-f", "nope.yaml"}, 3},
		{"schema violation", "inputs: {files: [a]}\n", []string{"validate"}, 5},
		{"not yaml", "workflow: [unterminated\n", []string{"validate"}, 4},
		{"missing schema", "workflow: {type: serial, file: workflow/serial.yaml}\n", []string{"validate", "--schema", "nope.json"}, 3},
		{"unsupported dialect", "workflow: {type: cwl, file: main.cwl}\n", []string{"validate"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeProject(t, tt.manifest)

			stdout, _, err := execute(t, dir, tt.args...)

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, ExitCode(err))
			assert.Empty(t, stdout)
		})
	}
}

func TestValidate_ConfigManifestPath(t *testing.T) {
	dir := writeProject(t, "workflow: {type: serial, file: workflow/serial.yaml}\n")
	require.NoError(t, os.Rename(filepath.Join(dir, ".reana.yaml"), filepath.Join(dir, "reana-prod.yaml")))
	t.Setenv("REANA_MANIFEST_PATH", "reana-prod.yaml")

	stdout, _, err := execute(t, dir, "validate")

	require.NoError(t, err)
	assert.Contains(t, stdout, "File reana-prod.yaml is a valid")
}

func TestSpec_JSON(t *testing.T) {
	dir := writeProject(t, "")

	stdout, _, err := execute(t, dir, "spec", "serial", "workflow/serial.yaml", "-o", "json")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Len(t, doc["steps"], 1)
}

func TestEncodeSpec(t *testing.T) {
	out, err := encodeSpec(workflow.Document{"steps": []any{}}, "json")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"steps\": []\n}\n", string(out))

	out, err = encodeSpec(workflow.Document{"bad": make(chan int)}, "json")
	require.Error(t, err)
	assert.Nil(t, out)
}

func TestValidate_LogsComponent(t *testing.T) {
	tests := []struct {
		name      string
		manifest  string
		component string
	}{
		{"manifest", "inputs: {files: [a]}\n", `"component":"manifest"`},
		{"workflow", "workflow: {type: cwl, specification: {}}\n", `"component":"workflow"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeProject(t, tt.manifest)

			_, stderr, err := execute(t, dir, "--log-level", "info", "validate")

			require.Error(t, err)
			assert.Contains(t, stderr, tt.component)
		})
	}
}

func TestConfig_HelpNamesEnvVar(t *testing.T) {
	stdout, _, err := execute(t, t.TempDir(), "config", "--help")

	require.NoError(t, err)
	assert.Contains(t, stdout, "REANA_MANIFEST_PATH")
	assert.Contains(t, stdout, "~/.reana/config.yaml")
}

func TestSpec_TopLevel(t *testing.T) {
	dir := writeProject(t, "")

	stdout, _, err := execute(t, t.TempDir(), "spec", "serial", "serial.yaml", "--toplevel", filepath.Join(dir, "workflow"))

	require.NoError(t, err)
	assert.Contains(t, stdout, "python:3.12-slim")
}

func TestSpec_UnsupportedDialect(t *testing.T) {
	_, _, err := execute(t, t.TempDir(), "spec", "cwl", "main.cwl")

	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))
}

func TestSpec_BadOutput(t *testing.T) {
	_, _, err := execute(t, t.TempDir(), "spec", "serial", "x.yaml", "-o", "toml")
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
}

func TestDialects(t *testing.T) {
	stdout, _, err := execute(t, t.TempDir(), "dialects")

	require.NoError(t, err)
	assert.Contains(t, stdout, "serial")
	assert.Contains(t, stdout, "yadage/workflow-schema")
}

func TestVersion_Short(t *testing.T) {
	buildVersion = "1.2.3"

	stdout, _, err := execute(t, t.TempDir(), "version", "--short")

	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", stdout)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{errors.New("boom"), 1},
		{reanaerr.NewUnsupportedDialect("cwl"), 2},
		{reanaerr.NewIO("read", "x", os.ErrNotExist), 3},
		{reanaerr.NewParse("parse", "x", errors.New("bad")), 4},
		{reanaerr.NewSchemaValidation("validate", "x", nil, nil), 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExitCode(tt.err))
	}
}

func TestPrintError_ListsIssues(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, reanaerr.NewSchemaValidation("validate manifest", ".reana.yaml", []reanaerr.Issue{
		{Path: "/workflow", Message: "missing property 'type'"},
		{Path: "/inputs/files", Message: "got string, want array"},
	}, nil))

	out := buf.String()
	assert.Contains(t, out, "Error: validate manifest .reana.yaml")
	assert.Contains(t, out, "  - /workflow: missing property 'type'")
	assert.Contains(t, out, "  - /inputs/files: got string, want array")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
