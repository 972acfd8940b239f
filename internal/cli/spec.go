package cli

import (
	"encoding/json"
	"fmt"

	"github.com/reanahub/reana-client/internal/logging"
	"github.com/reanahub/reana-client/internal/workflow"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var (
	specTopLevel string
	specOutput   string
)

func init() {
	specCmd.Flags().StringVar(&specTopLevel, "toplevel", "", "Base directory for relative paths and references (default from config)")
	specCmd.Flags().StringVarP(&specOutput, "output", "o", "yaml", "Output format (yaml, json)")
	rootCmd.AddCommand(specCmd)
}

var specCmd = &cobra.Command{
	Use:   "spec <type> <file>",
	Short: "Load a workflow specification and print it fully dereferenced",
	Args:  cobra.ExactArgs(2),
	RunE:  runSpec,
}

func runSpec(cmd *cobra.Command, args []string) error {
	if specOutput != "yaml" && specOutput != "json" {
		return fmt.Errorf("unknown output format %q (want yaml or json)", specOutput)
	}

	topLevel := settings.TopLevel
	if specTopLevel != "" {
		topLevel = specTopLevel
	}

	doc, err := workflow.LoadWorkflowSpec(args[0], args[1],
		workflow.WithTopLevel(topLevel),
		workflow.WithLogger(logging.Component(logger, "workflow")),
	)
	if err != nil {
		return err
	}

	out, err := encodeSpec(doc, specOutput)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// encodeSpec renders doc as indented JSON or YAML. Nothing is returned when
// encoding fails.
func encodeSpec(doc workflow.Document, format string) ([]byte, error) {
	if format == "json" {
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding specification: %w", err)
		}
		return append(out, '\n'), nil
	}
	out, err := yaml.Marshal(map[string]any(doc))
	if err != nil {
		return nil, fmt.Errorf("encoding specification: %w", err)
	}
	return out, nil
}
