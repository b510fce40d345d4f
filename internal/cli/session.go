package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"rlsboot/internal/bootstrap"
	"rlsboot/internal/config"
	"rlsboot/internal/logx"
	"rlsboot/internal/paths"
	"rlsboot/internal/prompt"
	"rlsboot/internal/runner"
	"rlsboot/internal/rustup"
	"rlsboot/internal/server"
	"rlsboot/internal/tui"
)

type sessionOptions struct {
	// in answers consent questions; out receives status and diagnostics.
	in  io.Reader
	out io.Writer
	// quiet drops the spinner and diagnostics; the caller renders results.
	quiet bool
	// stdinReserved means in belongs to the language server, so it may only
	// be read for consent when it is a terminal.
	stdinReserved bool
	runner        runner.Runner
}

// session bundles what every command resolves before talking to rustup.
type session struct {
	paths    paths.ProjectPaths
	cfg      config.Config
	mode     tui.OutputMode
	logger   *log.Logger
	closer   io.Closer
	prompter prompt.Prompter
	client   *rustup.Client
}

func newSession(cmd *cobra.Command, opts sessionOptions) (*session, error) {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return nil, err
	}
	exists, err := paths.DirExists(pp.Root)
	if err != nil {
		return nil, fmt.Errorf("stat project dir: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("project directory does not exist: %s", pp.Root)
	}

	cfg, err := config.Load(pp.ConfigFile, pp.Root)
	if err != nil {
		return nil, err
	}
	if errs := config.Errors(cfg.Validate()); len(errs) > 0 {
		return nil, fmt.Errorf("invalid %s: %s", config.FileName, strings.Join(errs, "; "))
	}

	policy, err := resolvePolicy(cfg.Consent.Policy, assumeYes, noInstall)
	if err != nil {
		return nil, err
	}
	if opts.stdinReserved && policy == prompt.PolicyAsk && !tui.IsTerminal(opts.in) {
		policy = prompt.PolicyNo
	}

	logger, closer, err := logx.New(pp)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: logging disabled: %v\n", err)
		logger, closer = logx.Discard()
	}
	logger.Printf("rlsboot %s project=%s channel=%s policy=%s", cmd.Name(), pp.Root, cfg.Rustup.Channel, policy)

	mode := tui.DetectMode(opts.out, noProgress, outputJSON)
	prompter := prompt.New(policy, mode, opts.in, opts.out)

	clientOpts := rustup.Options{
		Binary:     cfg.Rustup.Binary,
		Channel:    cfg.Rustup.Channel,
		Components: cfg.Rustup.Components,
		Runner:     opts.runner,
		Logger:     logger,
	}
	if !opts.quiet {
		clientOpts.Reporter = newReporter(mode, opts.out)
		clientOpts.Notifier = prompter
	}

	return &session{
		paths:    pp,
		cfg:      cfg,
		mode:     mode,
		logger:   logger,
		closer:   closer,
		prompter: prompter,
		client:   rustup.New(clientOpts),
	}, nil
}

func (s *session) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func (s *session) bootstrapper(launcher bootstrap.Launcher) *bootstrap.Bootstrapper {
	return &bootstrap.Bootstrapper{
		Toolchain: s.client,
		Prompter:  s.prompter,
		Notifier:  s.prompter,
		Launcher:  launcher,
		Logger:    s.logger,
	}
}

func newReporter(mode tui.OutputMode, out io.Writer) rustup.Reporter {
	switch mode {
	case tui.ModeTUI:
		return tui.NewStatusWriter(out)
	case tui.ModePlain:
		return tui.NewPlainReporter(out)
	default:
		return nil
	}
}

// resolvePolicy lets --yes and --no-install override consent.policy.
func resolvePolicy(configured string, yes, no bool) (prompt.Policy, error) {
	switch {
	case yes && no:
		return "", fmt.Errorf("--yes and --no-install are mutually exclusive")
	case yes:
		return prompt.PolicyYes, nil
	case no:
		return prompt.PolicyNo, nil
	}
	return prompt.ParsePolicy(configured)
}

// serverEnv returns nil when nothing is configured so the server inherits the
// environment untouched.
func serverEnv(cfg config.Config) map[string]string {
	if len(cfg.Server.Env) == 0 {
		return nil
	}
	return cfg.ServerEnv(server.EnvMap(os.Environ()))
}
