package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"rlsboot/internal/rustup"
)

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Update the toolchain channel with rustup",
		RunE:  runUpdate,
	}
}

type updateReport struct {
	Channel string `json:"channel"`
	Message string `json:"message"`
	Updated bool   `json:"updated"`
	Failed  bool   `json:"failed"`
}

func runUpdate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sess, err := newSession(cmd, sessionOptions{in: cmd.InOrStdin(), out: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	defer sess.Close()

	msg := sess.client.Update(ctx)
	if !outputJSON {
		// The reporter already printed msg on stderr.
		return nil
	}

	report := updateReport{
		Channel: sess.client.Channel(),
		Message: msg,
		Updated: msg == rustup.UpdateChanged,
		Failed:  msg == rustup.UpdateFailed,
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
