package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"rlsboot/internal/bootstrap"
)

func newEnsureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ensure",
		Short: "Verify and install the toolchain without starting the server",
		RunE:  runEnsure,
	}
}

type ensureReport struct {
	Channel    string           `json:"channel"`
	Components []string         `json:"components"`
	Result     bootstrap.Result `json:"result"`
	Error      string           `json:"error,omitempty"`
}

func runEnsure(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sess, err := newSession(cmd, sessionOptions{in: cmd.InOrStdin(), out: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	defer sess.Close()

	res, runErr := sess.bootstrapper(nil).Ensure(ctx)
	report := ensureReport{
		Channel:    sess.client.Channel(),
		Components: sess.client.Components(),
		Result:     res,
	}
	if runErr != nil {
		report.Error = runErr.Error()
	}

	if outputJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		writeEnsureResult(cmd, report)
	}

	if runErr != nil {
		return runErr
	}
	if !res.Ready() {
		return fmt.Errorf("bootstrap ended in %s", res.State)
	}
	return nil
}

func writeEnsureResult(cmd *cobra.Command, report ensureReport) {
	bold := lipgloss.NewStyle().Bold(true).Inline(true)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s (%s)\n", bold.Render("TOOLCHAIN:"), report.Channel, joinComma(report.Components))
	state := report.Result.State.String()
	fmt.Fprintf(out, "  %-10s %s\n", "State:", statusLabel(state))
	fmt.Fprintf(out, "  %-10s %d probes, %d prompts, %d installs\n", "Steps:",
		report.Result.Probes, report.Result.Prompts, report.Result.Installs)
}
