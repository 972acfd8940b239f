package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/reanahub/reana-client/internal/workflow"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(dialectsCmd)
}

var dialectsCmd = &cobra.Command{
	Use:   "dialects",
	Short: "List the supported workflow specification types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TYPE\tSCHEMA")
		for _, tag := range workflow.Default().Dialects() {
			fmt.Fprintf(w, "%s\t%s\n", tag, schemaFor(tag))
		}
		return w.Flush()
	},
}

func schemaFor(tag string) string {
	switch tag {
	case workflow.DialectYadage:
		return workflow.YadageSchema
	case workflow.DialectSerial:
		return workflow.SerialSchema
	default:
		return "-"
	}
}
