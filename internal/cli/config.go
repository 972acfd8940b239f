package cli

import (
	"fmt"

	"github.com/reanahub/reana-client/internal/branding"
	"github.com/reanahub/reana-client/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.Long = fmt.Sprintf(`Read and write settings stored at %s.

Keys: %s, %s, %s, %s.
Each key can also be set with an environment variable such as %s.`,
		"~/"+branding.HomeDir()+"/config.yaml",
		config.KeyManifestPath, config.KeySchemaPath, config.KeyLogLevel, config.KeyTopLevel,
		branding.EnvVar(config.KeyManifestPath))
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
		return nil
	},
}
