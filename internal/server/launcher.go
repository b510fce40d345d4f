package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"

	"rlsboot/internal/rustup"
)

// LaunchOptions wires the spawned server's stdio and working directory.
type LaunchOptions struct {
	Dir    string
	Args   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Launcher spawns the language server through `rustup run <channel> <server>`.
type Launcher struct {
	Binary  string
	Channel string
	Server  string
	Options LaunchOptions
}

// Process is a handle to a spawned language server.
type Process struct {
	cmd *exec.Cmd
}

// Command builds the exec.Cmd for the server. A nil env inherits the current
// process environment; any non-nil env is passed through as-is.
func (l *Launcher) Command(ctx context.Context, env map[string]string) *exec.Cmd {
	binary := l.Binary
	if binary == "" {
		binary = rustup.DefaultBinary
	}
	channel := l.Channel
	if channel == "" {
		channel = rustup.DefaultChannel
	}
	srv := l.Server
	if srv == "" {
		srv = rustup.DefaultServer
	}

	args := append([]string{"run", channel, srv}, l.Options.Args...)
	cmd := exec.CommandContext(ctx, binary, args...)
	if env != nil {
		cmd.Env = EnvList(env)
	}
	cmd.Dir = l.Options.Dir
	cmd.Stdin = l.Options.Stdin
	cmd.Stdout = l.Options.Stdout
	cmd.Stderr = l.Options.Stderr
	return cmd
}

// Start spawns the server and returns without waiting for it.
func (l *Launcher) Start(ctx context.Context, env map[string]string) (*Process, error) {
	cmd := l.Command(ctx, env)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", cmd.Path, err)
	}
	return &Process{cmd: cmd}, nil
}

func (p *Process) Pid() int {
	if p == nil || p.cmd == nil || p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

// Wait blocks until the server exits.
func (p *Process) Wait() error {
	if p == nil || p.cmd == nil {
		return errors.New("process not started")
	}
	return p.cmd.Wait()
}

func (p *Process) Signal(sig os.Signal) error {
	if p == nil || p.cmd == nil || p.cmd.Process == nil {
		return errors.New("process not started")
	}
	return p.cmd.Process.Signal(sig)
}

// ExitCode returns the exit code after Wait, or -1 while still running.
func (p *Process) ExitCode() int {
	if p == nil || p.cmd == nil || p.cmd.ProcessState == nil {
		return -1
	}
	return p.cmd.ProcessState.ExitCode()
}

// EnvList flattens env into sorted KEY=VALUE pairs.
func EnvList(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}

// EnvMap parses KEY=VALUE pairs such as os.Environ(). Later duplicates win.
func EnvMap(pairs []string) map[string]string {
	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		for i := 0; i < len(pair); i++ {
			if pair[i] == '=' && i > 0 {
				env[pair[:i]] = pair[i+1:]
				break
			}
		}
	}
	return env
}
