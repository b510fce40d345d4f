package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rlsboot/internal/config"
	"rlsboot/internal/paths"
)

var configInitForce bool

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the project configuration",
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration in YAML",
		RunE:  runConfigShow,
	}
}

func newConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default " + config.FileName + " into the project",
		RunE:  runConfigInit,
	}
	cmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing configuration")
	return cmd
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}

	cfg, err := config.Load(pp.ConfigFile, pp.Root)
	if err != nil {
		return err
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), string(data))
	if len(data) == 0 || data[len(data)-1] != '\n' {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}

	written, err := writeDefaultConfig(pp, configInitForce)
	if err != nil {
		return err
	}
	if !written {
		fmt.Fprintf(cmd.OutOrStdout(), "%s already exists (use --force to overwrite)\n", pp.ConfigFile)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", pp.ConfigFile)
	return nil
}

// writeDefaultConfig reports whether the file was written.
func writeDefaultConfig(pp paths.ProjectPaths, force bool) (bool, error) {
	if !force {
		exists, err := paths.FileExists(pp.ConfigFile)
		if err != nil {
			return false, fmt.Errorf("stat config: %w", err)
		}
		if exists {
			return false, nil
		}
	}

	if err := os.MkdirAll(pp.Root, 0o755); err != nil {
		return false, fmt.Errorf("ensure project dir: %w", err)
	}

	data, err := config.Default().Marshal()
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(pp.ConfigFile, data, 0o644); err != nil {
		return false, fmt.Errorf("write default config: %w", err)
	}
	return true, nil
}
