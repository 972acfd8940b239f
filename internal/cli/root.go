package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/reanahub/reana-client/internal/branding"
	"github.com/reanahub/reana-client/internal/config"
	"github.com/reanahub/reana-client/internal/logging"
	"github.com/reanahub/reana-client/internal/reanaerr"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	// settings and logger are resolved once per invocation before any
	// command runs.
	settings config.Settings
	logger   = zerolog.Nop()

	logLevelFlag string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` validates REANA analysis manifests (.reana.yaml) and the workflow
specifications they reference before an analysis is submitted.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		settings = config.Current()
		if logLevelFlag != "" {
			settings.LogLevel = logLevelFlag
		}
		logger = logging.New(cmd.ErrOrStderr(), settings.LogLevel, !color.NoColor)
	},
}

// Execute runs the root command with build info injected via ldflags and
// returns the process exit code.
func Execute(version, commit, date string) int {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	if err != nil {
		printError(os.Stderr, err)
	}
	return ExitCode(err)
}

// ExitCode maps an error to a process exit code. Each failure kind gets its
// own code so scripts can tell a bad manifest from a missing one.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	kind, ok := reanaerr.KindOf(err)
	if !ok {
		return 1
	}
	switch kind {
	case reanaerr.UnsupportedDialect:
		return 2
	case reanaerr.IO:
		return 3
	case reanaerr.Parse:
		return 4
	case reanaerr.SchemaValidation:
		return 5
	default:
		return 1
	}
}

func printError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold)
	red.Fprint(w, "Error: ")
	fmt.Fprintln(w, err)

	var rerr *reanaerr.Error
	if errors.As(err, &rerr) && len(rerr.Issues) > 1 {
		for _, issue := range rerr.Issues {
			fmt.Fprintf(w, "  - %s\n", issue)
		}
	}
}
