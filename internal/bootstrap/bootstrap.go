package bootstrap

import (
	"context"
	"fmt"

	"rlsboot/internal/logx"
	"rlsboot/internal/rustup"
	"rlsboot/internal/server"
)

// Toolchain is the rustup surface the bootstrap drives. *rustup.Client
// satisfies it.
type Toolchain interface {
	Channel() string
	ProbeToolchain(ctx context.Context) (rustup.Status, error)
	InstallToolchain(ctx context.Context) error
	ProbeComponents(ctx context.Context) (rustup.Status, error)
	InstallComponents(ctx context.Context) error
}

// Launcher spawns the dependent language server.
type Launcher interface {
	Start(ctx context.Context, env map[string]string) (*server.Process, error)
}

// Steps returns the toolchain and component stages for tc.
func Steps(tc Toolchain) (Step, Step) {
	toolchain := Step{
		Name:    "toolchain",
		Probe:   tc.ProbeToolchain,
		Prompt:  fmt.Sprintf("%s toolchain not installed. Install?", rustup.DisplayChannel(tc.Channel())),
		Install: tc.InstallToolchain,
	}
	components := Step{
		Name:    "components",
		Probe:   tc.ProbeComponents,
		Prompt:  "RLS not installed. Install?",
		Install: tc.InstallComponents,
	}
	return toolchain, components
}

// Bootstrapper verifies the toolchain before launching the language server.
type Bootstrapper struct {
	Toolchain Toolchain
	Prompter  Prompter
	Notifier  rustup.Notifier
	Launcher  Launcher
	Logger    Logger
}

func (b *Bootstrapper) logger() Logger {
	if b.Logger == nil {
		return noopLogger{}
	}
	return b.Logger
}

// Ensure runs a fresh bootstrap attempt without launching anything.
func (b *Bootstrapper) Ensure(ctx context.Context) (Result, error) {
	logger, _ := logx.Attempt(b.logger())
	logger.Printf("bootstrap start channel=%s", b.Toolchain.Channel())

	toolchain, components := Steps(b.Toolchain)
	m := NewMachine(toolchain, components, b.Prompter, b.Notifier, logger)
	return m.Run(ctx)
}

// RunWithReadyToolchain launches the server with env unchanged, but only after
// a bootstrap attempt reached Ready.
func (b *Bootstrapper) RunWithReadyToolchain(ctx context.Context, env map[string]string) (*server.Process, error) {
	res, err := b.Ensure(ctx)
	if err != nil {
		return nil, err
	}
	if !res.Ready() {
		return nil, fmt.Errorf("bootstrap ended in %s", res.State)
	}
	if b.Launcher == nil {
		return nil, fmt.Errorf("bootstrap: no launcher configured")
	}
	proc, err := b.Launcher.Start(ctx, env)
	if err != nil {
		b.logger().Printf("language server failed to start: %v", err)
		if b.Notifier != nil {
			b.Notifier.ShowError(fmt.Sprintf("RLS could not be started: %v", err))
		}
		return nil, err
	}
	b.logger().Printf("language server started pid=%d", proc.Pid())
	return proc, nil
}
