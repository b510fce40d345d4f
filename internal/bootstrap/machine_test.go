package bootstrap

import (
	"context"
	"errors"
	"strings"
	"testing"

	"rlsboot/internal/runner"
	"rlsboot/internal/rustup"
	"rlsboot/internal/server"
)

const (
	cmdToolchainList  = "rustup toolchain list"
	cmdComponentList  = "rustup component list --toolchain nightly"
	cmdToolchainAdd   = "rustup toolchain install nightly"
	componentsPresent = "rls-x86_64 (installed)\nrust-analysis-x86_64 (installed)\nrust-src (installed)\n"
)

type fakeRunner struct {
	outputs map[string][]string
	fail    map[string]bool
	calls   []string
}

func (f *fakeRunner) Run(_ context.Context, command string, args []string, _ runner.RunOptions) (runner.RunResult, error) {
	line := runner.CommandLine(command, args)
	f.calls = append(f.calls, line)
	if f.fail[line] {
		return runner.RunResult{}, &runner.ExecError{Command: line, Err: errors.New("exit status 1")}
	}
	// Successive calls to the same command consume queued outputs; the last
	// one repeats.
	queue := f.outputs[line]
	if len(queue) == 0 {
		return runner.RunResult{}, nil
	}
	out := queue[0]
	if len(queue) > 1 {
		f.outputs[line] = queue[1:]
	}
	return runner.RunResult{Stdout: []byte(out)}, nil
}

func (f *fakeRunner) count(prefix string) int {
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

type scriptedPrompter struct {
	answers  []string
	messages []string
}

func (p *scriptedPrompter) Ask(_ context.Context, message, _ string) (string, error) {
	p.messages = append(p.messages, message)
	if len(p.answers) == 0 {
		return "", nil
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

type recordingNotifier struct {
	errors []string
}

func (n *recordingNotifier) ShowError(msg string) { n.errors = append(n.errors, msg) }

type fakeLauncher struct {
	starts int
	env    map[string]string
	err    error
}

func (l *fakeLauncher) Start(_ context.Context, env map[string]string) (*server.Process, error) {
	l.starts++
	l.env = env
	if l.err != nil {
		return nil, l.err
	}
	return &server.Process{}, nil
}

func newBootstrapper(fr *fakeRunner, p *scriptedPrompter) (*Bootstrapper, *recordingNotifier, *fakeLauncher) {
	note := &recordingNotifier{}
	launcher := &fakeLauncher{}
	client := rustup.New(rustup.Options{Runner: fr, Notifier: note})
	return &Bootstrapper{Toolchain: client, Prompter: p, Notifier: note, Launcher: launcher}, note, launcher
}

func traceString(states []State) string {
	parts := make([]string, len(states))
	for i, s := range states {
		parts[i] = s.String()
	}
	return strings.Join(parts, ",")
}

func TestEnsureAlreadyReady(t *testing.T) {
	fr := &fakeRunner{outputs: map[string][]string{
		cmdToolchainList: {"stable-x86_64\nnightly-x86_64 (default)\n"},
		cmdComponentList: {componentsPresent},
	}}
	p := &scriptedPrompter{}
	b, _, _ := newBootstrapper(fr, p)

	res, err := b.Ensure(context.Background())
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if res.State != StateReady {
		t.Fatalf("state = %s", res.State)
	}
	want := "init,check-toolchain,check-components,ready"
	if got := traceString(res.Trace); got != want {
		t.Fatalf("trace = %s, want %s", got, want)
	}
	if len(p.messages) != 0 {
		t.Fatalf("unexpected prompts %v", p.messages)
	}
}

func TestEnsureIdempotentSecondRun(t *testing.T) {
	fr := &fakeRunner{outputs: map[string][]string{
		cmdToolchainList: {"nightly-x86_64 (default)\n"},
		cmdComponentList: {componentsPresent},
	}}
	p := &scriptedPrompter{}
	b, _, _ := newBootstrapper(fr, p)

	if _, err := b.Ensure(context.Background()); err != nil {
		t.Fatalf("first Ensure: %v", err)
	}
	before := len(fr.calls)
	res, err := b.Ensure(context.Background())
	if err != nil {
		t.Fatalf("second Ensure: %v", err)
	}
	second := fr.calls[before:]
	if strings.Join(second, "|") != cmdToolchainList+"|"+cmdComponentList {
		t.Fatalf("second run calls = %v", second)
	}
	if res.Probes != 2 || res.Prompts != 0 || res.Installs != 0 {
		t.Fatalf("result = %+v", res)
	}
	if len(p.messages) != 0 {
		t.Fatalf("unexpected prompts %v", p.messages)
	}
}

func TestEnsureInstallsEverything(t *testing.T) {
	fr := &fakeRunner{outputs: map[string][]string{
		cmdToolchainList: {"stable-x86_64 (default)\n"},
		cmdComponentList: {"rls-x86_64\nrust-analysis-x86_64\nrust-src\n"},
	}}
	p := &scriptedPrompter{answers: []string{"Yes", "Yes"}}
	b, _, _ := newBootstrapper(fr, p)

	res, err := b.Ensure(context.Background())
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	want := "init,check-toolchain,offer-toolchain-install,installing-toolchain," +
		"check-components,offer-component-install,installing-components,ready"
	if got := traceString(res.Trace); got != want {
		t.Fatalf("trace = %s", got)
	}
	wantCalls := []string{
		cmdToolchainList,
		cmdToolchainAdd,
		cmdComponentList,
		"rustup component add rust-analysis --toolchain nightly",
		"rustup component add rust-src --toolchain nightly",
		"rustup component add rls --toolchain nightly",
	}
	if strings.Join(fr.calls, "|") != strings.Join(wantCalls, "|") {
		t.Fatalf("calls = %v", fr.calls)
	}
	if p.messages[0] != "Nightly toolchain not installed. Install?" {
		t.Fatalf("prompt = %q", p.messages[0])
	}
	if p.messages[1] != "RLS not installed. Install?" {
		t.Fatalf("prompt = %q", p.messages[1])
	}
}

func TestEnsureToolchainAbsentPrompts(t *testing.T) {
	fr := &fakeRunner{outputs: map[string][]string{
		cmdToolchainList: {"stable-x86_64 (default)\n"},
	}}
	p := &scriptedPrompter{answers: []string{"No"}}
	b, note, _ := newBootstrapper(fr, p)

	_, _ = b.Ensure(context.Background())
	if len(p.messages) != 1 || !strings.Contains(p.messages[0], "Nightly toolchain not installed.") {
		t.Fatalf("prompts = %v", p.messages)
	}
	if len(note.errors) != 1 {
		t.Fatalf("diagnostics = %v", note.errors)
	}
}

func TestEnsureDeclinedToolchainStopsEarly(t *testing.T) {
	for _, answer := range []string{"", "No", "yes"} {
		t.Run("answer="+answer, func(t *testing.T) {
			fr := &fakeRunner{outputs: map[string][]string{
				cmdToolchainList: {"stable-x86_64 (default)\n"},
				cmdComponentList: {componentsPresent},
			}}
			p := &scriptedPrompter{answers: []string{answer}}
			b, _, launcher := newBootstrapper(fr, p)

			res, err := b.Ensure(context.Background())
			if !errors.Is(err, ErrDeclined) {
				t.Fatalf("err = %v, want ErrDeclined", err)
			}
			if res.State != StateAborted {
				t.Fatalf("state = %s", res.State)
			}
			if len(fr.calls) != 1 || fr.calls[0] != cmdToolchainList {
				t.Fatalf("calls = %v", fr.calls)
			}
			if res.Installs != 0 || launcher.starts != 0 {
				t.Fatalf("result = %+v starts=%d", res, launcher.starts)
			}
		})
	}
}

func TestEnsureDeclinedComponents(t *testing.T) {
	fr := &fakeRunner{outputs: map[string][]string{
		cmdToolchainList: {"nightly-x86_64 (default)\n"},
		cmdComponentList: {"rls-x86_64 (installed)\nrust-analysis-x86_64 (installed)\n"},
	}}
	p := &scriptedPrompter{answers: []string{"No"}}
	b, _, _ := newBootstrapper(fr, p)

	res, err := b.Ensure(context.Background())
	if !errors.Is(err, ErrDeclined) || res.State != StateAborted {
		t.Fatalf("state=%s err=%v", res.State, err)
	}
	if fr.count("rustup component add") != 0 {
		t.Fatalf("calls = %v", fr.calls)
	}
}

func TestEnsureProbeBroken(t *testing.T) {
	fr := &fakeRunner{fail: map[string]bool{cmdToolchainList: true}}
	p := &scriptedPrompter{}
	b, note, _ := newBootstrapper(fr, p)

	res, err := b.Ensure(context.Background())
	if res.State != StateProbeBroken {
		t.Fatalf("state = %s", res.State)
	}
	if !errors.Is(err, rustup.ErrProbeFailed) {
		t.Fatalf("err = %v", err)
	}
	if len(p.messages) != 0 {
		t.Fatalf("probe failure must not prompt, got %v", p.messages)
	}
	if len(note.errors) != 1 {
		t.Fatalf("diagnostics = %v", note.errors)
	}
	if fr.count("rustup component") != 0 {
		t.Fatalf("components probed against a broken manager: %v", fr.calls)
	}
}

func TestEnsureComponentProbeBroken(t *testing.T) {
	fr := &fakeRunner{
		outputs: map[string][]string{cmdToolchainList: {"nightly-x86_64 (default)\n"}},
		fail:    map[string]bool{cmdComponentList: true},
	}
	b, _, _ := newBootstrapper(fr, &scriptedPrompter{})

	res, err := b.Ensure(context.Background())
	if res.State != StateProbeBroken || !errors.Is(err, rustup.ErrProbeFailed) {
		t.Fatalf("state=%s err=%v", res.State, err)
	}
}

func TestEnsureToolchainInstallFails(t *testing.T) {
	fr := &fakeRunner{
		outputs: map[string][]string{cmdToolchainList: {"stable\n"}},
		fail:    map[string]bool{cmdToolchainAdd: true},
	}
	b, _, _ := newBootstrapper(fr, &scriptedPrompter{answers: []string{"Yes"}})

	res, err := b.Ensure(context.Background())
	if res.State != StateAborted {
		t.Fatalf("state = %s", res.State)
	}
	var installErr *rustup.InstallError
	if !errors.As(err, &installErr) || installErr.Subject != rustup.SubjectToolchain {
		t.Fatalf("err = %v", err)
	}
	if fr.count(cmdComponentList) != 0 {
		t.Fatalf("calls = %v", fr.calls)
	}
}

func TestEnsureComponentInstallFailsNamesComponent(t *testing.T) {
	fr := &fakeRunner{
		outputs: map[string][]string{
			cmdToolchainList: {"nightly\n"},
			cmdComponentList: {""},
		},
		fail: map[string]bool{"rustup component add rust-src --toolchain nightly": true},
	}
	b, _, _ := newBootstrapper(fr, &scriptedPrompter{answers: []string{"Yes"}})

	res, err := b.Ensure(context.Background())
	if res.State != StateAborted {
		t.Fatalf("state = %s", res.State)
	}
	var installErr *rustup.InstallError
	if !errors.As(err, &installErr) || installErr.Component != "rust-src" {
		t.Fatalf("err = %v", err)
	}
	if fr.count("rustup component add rls") != 0 {
		t.Fatalf("rls attempted after failure: %v", fr.calls)
	}
}

func TestRunWithReadyToolchainLaunchesWithEnv(t *testing.T) {
	fr := &fakeRunner{outputs: map[string][]string{
		cmdToolchainList: {"nightly\n"},
		cmdComponentList: {componentsPresent},
	}}
	b, _, launcher := newBootstrapper(fr, &scriptedPrompter{})

	env := map[string]string{"RUST_LOG": "rls=debug", "PATH": "/usr/bin"}
	proc, err := b.RunWithReadyToolchain(context.Background(), env)
	if err != nil {
		t.Fatalf("RunWithReadyToolchain: %v", err)
	}
	if proc == nil || launcher.starts != 1 {
		t.Fatalf("proc=%v starts=%d", proc, launcher.starts)
	}
	if len(launcher.env) != 2 || launcher.env["RUST_LOG"] != "rls=debug" {
		t.Fatalf("env = %v", launcher.env)
	}
}

func TestRunWithReadyToolchainNeverLaunchesWhenNotReady(t *testing.T) {
	fr := &fakeRunner{outputs: map[string][]string{cmdToolchainList: {"stable\n"}}}
	b, _, launcher := newBootstrapper(fr, &scriptedPrompter{answers: []string{"No"}})

	proc, err := b.RunWithReadyToolchain(context.Background(), nil)
	if err == nil || proc != nil {
		t.Fatalf("proc=%v err=%v", proc, err)
	}
	if launcher.starts != 0 {
		t.Fatalf("launcher started %d times", launcher.starts)
	}
}

type errPrompter struct{ err error }

func (p errPrompter) Ask(context.Context, string, string) (string, error) { return "", p.err }

func TestPromptErrorAborts(t *testing.T) {
	fr := &fakeRunner{outputs: map[string][]string{cmdToolchainList: {"stable\n"}}}
	note := &recordingNotifier{}
	b := &Bootstrapper{
		Toolchain: rustup.New(rustup.Options{Runner: fr, Notifier: note}),
		Prompter:  errPrompter{err: context.Canceled},
		Notifier:  note,
	}
	res, err := b.Ensure(context.Background())
	if res.State != StateAborted || !errors.Is(err, context.Canceled) {
		t.Fatalf("state=%s err=%v", res.State, err)
	}
	want := "RLS was not started: toolchain installation prompt failed: context canceled"
	if len(note.errors) != 1 || note.errors[0] != want {
		t.Fatalf("diagnostics = %v", note.errors)
	}
	if fr.count("rustup toolchain install") != 0 {
		t.Fatalf("install attempted after prompt failure: %v", fr.calls)
	}
}

func TestRunWithReadyToolchainReportsLaunchFailure(t *testing.T) {
	fr := &fakeRunner{outputs: map[string][]string{
		cmdToolchainList: {"nightly\n"},
		cmdComponentList: {componentsPresent},
	}}
	b, note, launcher := newBootstrapper(fr, &scriptedPrompter{})
	launcher.err = errors.New("start rustup: exec: not found")

	proc, err := b.RunWithReadyToolchain(context.Background(), nil)
	if proc != nil || !errors.Is(err, launcher.err) {
		t.Fatalf("proc=%v err=%v", proc, err)
	}
	want := "RLS could not be started: start rustup: exec: not found"
	if len(note.errors) != 1 || note.errors[0] != want {
		t.Fatalf("diagnostics = %v", note.errors)
	}
}

func TestEnsureLogsCarryAttemptID(t *testing.T) {
	fr := &fakeRunner{outputs: map[string][]string{
		cmdToolchainList: {"nightly\n"},
		cmdComponentList: {componentsPresent},
	}}
	b, _, _ := newBootstrapper(fr, &scriptedPrompter{})
	logger := &recordingLogger{}
	b.Logger = logger

	if _, err := b.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if len(logger.lines) == 0 {
		t.Fatal("expected log lines")
	}
	for _, line := range logger.lines {
		if !strings.HasPrefix(line, "[%s] ") {
			t.Fatalf("line without attempt prefix: %q", line)
		}
	}
}

type recordingLogger struct{ lines []string }

func (l *recordingLogger) Printf(format string, v ...any) {
	l.lines = append(l.lines, format)
	_ = v
}

func TestStateTerminal(t *testing.T) {
	for _, s := range []State{StateReady, StateAborted, StateProbeBroken} {
		if !s.Terminal() {
			t.Fatalf("%s should be terminal", s)
		}
	}
	if StateCheckComponents.Terminal() || StateInit.Terminal() {
		t.Fatal("non-terminal state reported terminal")
	}
	if State(99).String() != "unknown" {
		t.Fatal("unexpected name for unknown state")
	}
}

func TestMachineWithCustomSteps(t *testing.T) {
	var order []string
	step := func(name string, status rustup.Status) Step {
		return Step{
			Name: name,
			Probe: func(context.Context) (rustup.Status, error) {
				order = append(order, "probe:"+name)
				return status, nil
			},
			Prompt: name + "?",
			Install: func(context.Context) error {
				order = append(order, "install:"+name)
				return nil
			},
		}
	}
	logger := &recordingLogger{}
	m := NewMachine(step("a", rustup.StatusAbsent), step("b", rustup.StatusPresent), &scriptedPrompter{answers: []string{"Yes"}}, nil, logger)
	res, err := m.Run(context.Background())
	if err != nil || !res.Ready() {
		t.Fatalf("res=%+v err=%v", res, err)
	}
	if strings.Join(order, ",") != "probe:a,install:a,probe:b" {
		t.Fatalf("order = %v", order)
	}
	if len(logger.lines) == 0 {
		t.Fatal("expected log lines")
	}
}
