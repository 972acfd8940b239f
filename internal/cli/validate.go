package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/reanahub/reana-client/internal/logging"
	"github.com/reanahub/reana-client/internal/manifest"
	"github.com/reanahub/reana-client/internal/workflow"
	"github.com/spf13/cobra"
)

var (
	validateFile   string
	validateSchema string
)

func init() {
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "Analysis manifest to validate (default from config, .reana.yaml)")
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "JSON Schema to validate against (default: the schema shipped with the client)")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the analysis manifest and its workflow specification",
	Long: `Load the analysis manifest, validate it against the REANA analysis schema,
then load and validate the workflow specification it references.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	v := newValidator()

	m, err := v.Load()
	if err != nil {
		return err
	}

	a, err := manifest.Decode(m)
	if err != nil {
		return err
	}

	if err := manifest.CheckVersion(a, manifest.SupportedVersions); err != nil {
		logger.Warn().Err(err).Str("path", v.ManifestPath).Msg("Manifest version check failed")
		color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}

	doc, err := manifest.LoadWorkflow(a, v.ManifestPath, workflow.Default(), workflow.WithLogger(logging.Component(logger, "workflow")))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File %s is a valid REANA specification file.\n", v.ManifestPath)
	fmt.Fprintf(out, "Workflow type: %s (%s)\n", a.Workflow.Type, summarize(doc))
	return nil
}

// newValidator builds a manifest validator from flags and settings.
func newValidator() *manifest.Validator {
	path := settings.ManifestPath
	if validateFile != "" {
		path = validateFile
	}
	schemaPath := settings.SchemaPath
	if validateSchema != "" {
		schemaPath = validateSchema
	}

	log := logging.Component(logger, "manifest")
	if schemaPath == "" {
		return manifest.NewWithEmbeddedSchema(path, log)
	}
	return manifest.New(path, schemaPath, log)
}

// summarize describes the size of a loaded workflow for display.
func summarize(doc workflow.Document) string {
	if stages, ok := doc["stages"].([]any); ok {
		return plural(len(stages), "stage")
	}
	if steps, ok := doc["steps"].([]any); ok {
		return plural(len(steps), "step")
	}
	return "inline specification"
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
