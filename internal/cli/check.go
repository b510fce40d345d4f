package cli

import (
	"context"
	"encoding/json"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"rlsboot/internal/rustup"
	"rlsboot/internal/tui"
)

var checkStrict bool

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Probe the toolchain and components without installing anything",
		RunE:  runCheck,
	}
	cmd.Flags().BoolVar(&checkStrict, "strict", false, "Exit non-zero unless everything is installed")
	return cmd
}

const toolchainKey = "toolchain"

type componentReport struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

type checkReport struct {
	Channel    string            `json:"channel"`
	Toolchain  string            `json:"toolchain"`
	Components []componentReport `json:"components"`
	Ready      bool              `json:"ready"`
	Error      string            `json:"error,omitempty"`
}

func runCheck(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sess, err := newSession(cmd, sessionOptions{in: cmd.InOrStdin(), out: cmd.OutOrStdout(), quiet: true})
	if err != nil {
		return err
	}
	defer sess.Close()

	var report checkReport
	if sess.mode == tui.ModeTUI {
		model := newCheckModel(sess.client)
		err = tui.RunWithWork(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), model, func(ctx context.Context, send func(tea.Msg)) {
			report = collectCheck(ctx, sess.client, func(key, status string) {
				send(tui.SubjectUpdateMsg{Key: key, Status: status})
			})
		})
		if err != nil {
			return err
		}
	} else {
		report = collectCheck(ctx, sess.client, nil)
		if outputJSON {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("encode json: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		} else {
			printCheckTable(cmd, report)
		}
	}

	if report.Error != "" && !outputJSON {
		fmt.Fprintln(cmd.ErrOrStderr(), report.Error)
	}
	if checkStrict && !report.Ready {
		return fmt.Errorf("%s toolchain is not ready", report.Channel)
	}
	return nil
}

func newCheckModel(client *rustup.Client) tui.CheckModel {
	model := tui.NewCheckModel("Checking " + client.Channel() + " toolchain")
	model.AddSubject(toolchainKey, "toolchain "+client.Channel())
	for _, name := range client.Components() {
		model.AddSubject(name, name)
	}
	return model
}

// collectCheck probes the toolchain and, when it is present, each component.
// update, when non-nil, is called as each subject changes status.
func collectCheck(ctx context.Context, client *rustup.Client, update func(key, status string)) checkReport {
	if update == nil {
		update = func(string, string) {}
	}
	report := checkReport{Channel: client.Channel()}
	components := client.Components()
	setAll := func(status string) {
		report.Components = report.Components[:0]
		for _, name := range components {
			report.Components = append(report.Components, componentReport{Name: name, Status: status})
			update(name, status)
		}
	}

	update(toolchainKey, "checking")
	status, err := client.ProbeToolchain(ctx)
	switch {
	case err != nil:
		report.Toolchain = "error"
		report.Error = "Rustup not available. Install from " + rustup.InstallURL
		update(toolchainKey, report.Toolchain)
		setAll("skipped")
		return report
	case status == rustup.StatusAbsent:
		report.Toolchain = "absent"
		update(toolchainKey, report.Toolchain)
		setAll("skipped")
		return report
	}
	report.Toolchain = "present"
	update(toolchainKey, report.Toolchain)

	for _, name := range components {
		update(name, "checking")
	}
	states, err := client.ComponentStates(ctx)
	if err != nil {
		report.Error = fmt.Sprintf("Can't detect RLS components: %v", err)
		setAll("error")
		return report
	}
	ready := true
	for _, st := range states {
		s := "installed"
		if !st.Installed {
			s = "missing"
			ready = false
		}
		report.Components = append(report.Components, componentReport{Name: st.Name, Status: s})
		update(st.Name, s)
	}
	report.Ready = ready
	return report
}

func printCheckTable(cmd *cobra.Command, report checkReport) {
	bold := lipgloss.NewStyle().Bold(true).Inline(true)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, bold.Render("TOOLCHAIN:")+" "+report.Channel)
	fmt.Fprintf(out, "  %-24s %s\n", "toolchain "+report.Channel, statusLabel(report.Toolchain))
	for _, c := range report.Components {
		fmt.Fprintf(out, "  %-24s %s\n", c.Name, statusLabel(c.Status))
	}
}

func statusLabel(status string) string {
	return tui.StatusStyle(status).Inline(true).Render(status)
}
