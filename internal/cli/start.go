package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"rlsboot/internal/server"
)

func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start [-- server args]",
		Short: "Verify the toolchain, then run the language server over stdio",
		Long: "start verifies the toolchain and the RLS components, offers to install\n" +
			"what is missing and then runs the language server with stdin and stdout\n" +
			"passed through. Status and prompts are written to stderr.",
		RunE: runStart,
	}
}

func runStart(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := newSession(cmd, sessionOptions{
		in:            cmd.InOrStdin(),
		out:           cmd.ErrOrStderr(),
		stdinReserved: true,
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	serverArgs := append(append([]string{}, sess.cfg.Server.Args...), args...)
	launcher := &server.Launcher{
		Binary:  sess.client.Binary(),
		Channel: sess.client.Channel(),
		Server:  sess.cfg.Server.Binary,
		Options: server.LaunchOptions{
			Dir:    sess.paths.Root,
			Args:   serverArgs,
			Stdin:  cmd.InOrStdin(),
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
		},
	}

	proc, err := sess.bootstrapper(launcher).RunWithReadyToolchain(ctx, serverEnv(sess.cfg))
	if err != nil {
		return err
	}

	waitErr := proc.Wait()
	sess.logger.Printf("language server exited code=%d", proc.ExitCode())
	if waitErr != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(waitErr, &exitErr) && exitErr.ExitCode() > 0 {
			return &exitError{code: exitErr.ExitCode()}
		}
		return waitErr
	}
	return nil
}
