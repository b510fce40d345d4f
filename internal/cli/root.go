package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	projectDir string
	outputJSON bool
	assumeYes  bool
	noInstall  bool
	noProgress bool
)

// exitError carries a child process exit code up to Execute.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("language server exited with status %d", e.code)
}

// Execute runs the root cobra command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rlsboot",
		Short:         "Bootstrap the Rust toolchain and launch the Rust Language Server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&projectDir, "project", "", "Path to project directory")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")
	cmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Accept every install offer")
	cmd.PersistentFlags().BoolVar(&noInstall, "no-install", false, "Decline every install offer")
	cmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "Disable spinners and interactive prompts")
	cmd.MarkFlagsMutuallyExclusive("yes", "no-install")

	cmd.AddCommand(newStartCmd())
	cmd.AddCommand(newEnsureCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newUpdateCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}
