package rustup

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"rlsboot/internal/runner"
)

// Status is the installation state of a probed subject. It is recomputed on
// every probe and never cached.
type Status int

const (
	StatusUnknown Status = iota
	StatusAbsent
	StatusPresent
)

func (s Status) String() string {
	switch s {
	case StatusPresent:
		return "present"
	case StatusAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// Reporter shows and hides a start/stop status indicator.
type Reporter interface {
	Start(message string)
	Stop(message string)
}

// progressUpdater is implemented by reporters that can change the message of
// a running status without stopping it.
type progressUpdater interface {
	Update(message string)
}

// Notifier surfaces an error diagnostic to the human driving the host.
type Notifier interface {
	ShowError(message string)
}

type Logger interface {
	Printf(format string, v ...any)
}

type noopLogger struct{}

func (noopLogger) Printf(string, ...any) {}

type noopReporter struct{}

func (noopReporter) Start(string) {}
func (noopReporter) Stop(string)  {}

type noopNotifier struct{}

func (noopNotifier) ShowError(string) {}

const (
	DefaultBinary  = "rustup"
	DefaultChannel = "nightly"
	DefaultServer  = "rls"
	InstallURL     = "https://www.rustup.rs/"
)

// DefaultComponents lists the components the language server needs, in the
// order they are installed.
func DefaultComponents() []string {
	return []string{"rust-analysis", "rust-src", "rls"}
}

// Options configures a Client. Zero values fall back to the defaults above
// and to no-op collaborators.
type Options struct {
	Binary     string
	Channel    string
	Components []string
	Runner     runner.Runner
	Reporter   Reporter
	Notifier   Notifier
	Logger     Logger
}

// Client drives the rustup CLI for one toolchain channel.
type Client struct {
	binary     string
	channel    string
	components []string
	runner     runner.Runner
	reporter   Reporter
	notifier   Notifier
	logger     Logger
}

func New(opts Options) *Client {
	c := &Client{
		binary:     strings.TrimSpace(opts.Binary),
		channel:    strings.TrimSpace(opts.Channel),
		components: append([]string(nil), opts.Components...),
		runner:     opts.Runner,
		reporter:   opts.Reporter,
		notifier:   opts.Notifier,
		logger:     opts.Logger,
	}
	if c.binary == "" {
		c.binary = DefaultBinary
	}
	if c.channel == "" {
		c.channel = DefaultChannel
	}
	if len(c.components) == 0 {
		c.components = DefaultComponents()
	}
	if c.runner == nil {
		c.runner = runner.CmdRunner{}
	}
	if c.reporter == nil {
		c.reporter = noopReporter{}
	}
	if c.notifier == nil {
		c.notifier = noopNotifier{}
	}
	if c.logger == nil {
		c.logger = noopLogger{}
	}
	return c
}

func (c *Client) Binary() string  { return c.binary }
func (c *Client) Channel() string { return c.channel }

// Components returns the required components in install order.
func (c *Client) Components() []string {
	return append([]string(nil), c.components...)
}

func (c *Client) progress(msg string) {
	if u, ok := c.reporter.(progressUpdater); ok {
		u.Update(msg)
	}
}

func (c *Client) run(ctx context.Context, args ...string) (runner.RunResult, error) {
	c.logger.Printf("exec %s", runner.CommandLine(c.binary, args))
	res, err := c.runner.Run(ctx, c.binary, args, runner.RunOptions{})
	if err != nil {
		c.logger.Printf("exec %s failed: %v", runner.CommandLine(c.binary, args), err)
	}
	return res, err
}

// DisplayChannel capitalises the channel name for human-facing messages.
func DisplayChannel(channel string) string {
	r, size := utf8.DecodeRuneInString(channel)
	if r == utf8.RuneError {
		return channel
	}
	return string(unicode.ToUpper(r)) + channel[size:]
}
