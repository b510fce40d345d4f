package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"rlsboot/internal/config"
	"rlsboot/internal/paths"
	"rlsboot/internal/rustup"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check rustup, the toolchain and the project configuration",
		RunE:  runDoctor,
	}
}

type healthCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Summary string `json:"summary"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}
	exists, err := paths.DirExists(pp.Root)
	if err != nil {
		return fmt.Errorf("stat project dir: %w", err)
	}
	if !exists {
		return fmt.Errorf("project directory does not exist: %s", pp.Root)
	}

	var checks []healthCheck

	cfg, cfgErr := config.Load(pp.ConfigFile, pp.Root)
	checks = append(checks, checkConfig(cfg, cfgErr))
	if cfgErr != nil {
		// Probe with the defaults so the rest of the report is still useful.
		cfg = config.Default()
	}

	client := rustup.New(rustup.Options{
		Binary:     cfg.Rustup.Binary,
		Channel:    cfg.Rustup.Channel,
		Components: cfg.Rustup.Components,
	})

	rustupCheck := checkRustup(ctx, client)
	checks = append(checks, rustupCheck)
	if rustupCheck.Status == "error" {
		return writeDoctorResult(cmd, pp.Root, checks)
	}

	toolchainCheck := checkToolchain(ctx, client)
	checks = append(checks, toolchainCheck)
	if toolchainCheck.Status == "ok" {
		checks = append(checks, checkComponents(ctx, client))
	}

	return writeDoctorResult(cmd, pp.Root, checks)
}

func checkConfig(cfg config.Config, cfgErr error) healthCheck {
	if cfgErr != nil {
		return healthCheck{Name: "Config", Status: "error", Summary: cfgErr.Error()}
	}

	var warnings, errors int
	for _, v := range cfg.Validate() {
		switch v.Level {
		case "warning":
			warnings++
		case "error":
			errors++
		}
	}

	summary := fmt.Sprintf("channel %s, %d components", cfg.Rustup.Channel, len(cfg.Rustup.Components))
	if errors > 0 {
		return healthCheck{Name: "Config", Status: "error", Summary: fmt.Sprintf("%s; %d errors", summary, errors)}
	}
	if warnings > 0 {
		return healthCheck{Name: "Config", Status: "warning", Summary: fmt.Sprintf("%s; %d warnings", summary, warnings)}
	}
	return healthCheck{Name: "Config", Status: "ok", Summary: summary}
}

func checkRustup(ctx context.Context, client *rustup.Client) healthCheck {
	version, err := client.Version(ctx)
	if err != nil {
		hints := rustup.InstallHints()
		return healthCheck{
			Name:    "Rustup",
			Status:  "error",
			Summary: fmt.Sprintf("%s not runnable; install with: %s", client.Binary(), hints[0]),
		}
	}
	if v := rustup.ParseVersion(version); !rustup.MeetsMinimum(v, rustup.MinimumVersion) {
		return healthCheck{
			Name:    "Rustup",
			Status:  "warning",
			Summary: fmt.Sprintf("%s; %s or newer recommended (rustup self update)", version, rustup.MinimumVersion),
		}
	}
	return healthCheck{Name: "Rustup", Status: "ok", Summary: version}
}

func checkToolchain(ctx context.Context, client *rustup.Client) healthCheck {
	status, err := client.ProbeToolchain(ctx)
	if err != nil {
		return healthCheck{Name: "Toolchain", Status: "error", Summary: err.Error()}
	}
	if status != rustup.StatusPresent {
		return healthCheck{
			Name:    "Toolchain",
			Status:  "warning",
			Summary: fmt.Sprintf("%s not installed; run `rlsboot ensure`", client.Channel()),
		}
	}
	return healthCheck{Name: "Toolchain", Status: "ok", Summary: client.Channel() + " installed"}
}

func checkComponents(ctx context.Context, client *rustup.Client) healthCheck {
	states, err := client.ComponentStates(ctx)
	if err != nil {
		return healthCheck{Name: "Components", Status: "error", Summary: err.Error()}
	}
	missing := rustup.Missing(states)
	if len(missing) > 0 {
		return healthCheck{
			Name:    "Components",
			Status:  "warning",
			Summary: fmt.Sprintf("%d of %d missing: %s", len(missing), len(states), joinComma(missing)),
		}
	}
	return healthCheck{Name: "Components", Status: "ok", Summary: joinComma(client.Components())}
}

func writeDoctorResult(cmd *cobra.Command, projectRoot string, checks []healthCheck) error {
	if outputJSON {
		data, err := json.MarshalIndent(checks, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	bold := lipgloss.NewStyle().Bold(true).Inline(true)
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Inline(true)
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Inline(true)
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Inline(true)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, bold.Render("TOOLCHAIN HEALTH:")+" "+projectRoot)

	for _, c := range checks {
		var statusStr string
		switch c.Status {
		case "ok":
			statusStr = green.Render("OK")
		case "warning":
			statusStr = yellow.Render("WARN")
		case "error":
			statusStr = red.Render("ERROR")
		}
		fmt.Fprintf(out, "  %-12s %s    %s\n", c.Name+":", statusStr, c.Summary)
	}

	return nil
}

func joinComma(items []string) string {
	if len(items) == 0 {
		return ""
	}
	result := items[0]
	for _, item := range items[1:] {
		result += ", " + item
	}
	return result
}
