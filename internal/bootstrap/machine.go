package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"rlsboot/internal/rustup"
)

// Affirmative is the consent label that grants an install.
const Affirmative = "Yes"

// ErrDeclined is returned when the human does not grant an install.
var ErrDeclined = errors.New("installation declined")

// Prompter asks a yes/no question. Any answer other than the affirmative label,
// including the empty string, declines.
type Prompter interface {
	Ask(ctx context.Context, message, affirmative string) (string, error)
}

type Logger interface {
	Printf(format string, v ...any)
}

type noopLogger struct{}

func (noopLogger) Printf(string, ...any) {}

// Step is one probe, offer, install stage. The toolchain and the component
// stages are both expressed as a Step so they share one control flow.
type Step struct {
	Name    string
	Probe   func(ctx context.Context) (rustup.Status, error)
	Prompt  string
	Install func(ctx context.Context) error
}

type stage struct {
	step       Step
	check      State
	offer      State
	installing State
	next       State
}

// Result describes how a bootstrap attempt ended.
type Result struct {
	State    State   `json:"state"`
	Trace    []State `json:"trace"`
	Probes   int     `json:"probes"`
	Prompts  int     `json:"prompts"`
	Installs int     `json:"installs"`
}

// Ready reports whether the dependent process may be launched.
func (r Result) Ready() bool { return r.State == StateReady }

// Machine runs the toolchain stage followed by the component stage.
type Machine struct {
	stages   []stage
	prompter Prompter
	notifier rustup.Notifier
	logger   Logger
}

// NewMachine wires toolchain and components into the fixed state layout.
func NewMachine(toolchain, components Step, prompter Prompter, notifier rustup.Notifier, logger Logger) *Machine {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Machine{
		stages: []stage{
			{
				step:       toolchain,
				check:      StateCheckToolchain,
				offer:      StateOfferToolchainInstall,
				installing: StateInstallingToolchain,
				next:       StateCheckComponents,
			},
			{
				step:       components,
				check:      StateCheckComponents,
				offer:      StateOfferComponentInstall,
				installing: StateInstallingComponents,
				next:       StateReady,
			},
		},
		prompter: prompter,
		notifier: notifier,
		logger:   logger,
	}
}

// Run drives the machine from Init to a terminal state. Nothing carries over
// between calls.
func (m *Machine) Run(ctx context.Context) (Result, error) {
	res := Result{State: StateInit, Trace: []State{StateInit}}
	state := StateInit
	var err error
	for !state.Terminal() {
		state, err = m.transition(ctx, state, &res)
		res.State = state
		res.Trace = append(res.Trace, state)
	}
	m.logger.Printf("bootstrap finished in %s (probes=%d prompts=%d installs=%d)", state, res.Probes, res.Prompts, res.Installs)
	return res, err
}

func (m *Machine) transition(ctx context.Context, s State, res *Result) (State, error) {
	if s == StateInit {
		return m.stages[0].check, nil
	}
	for _, st := range m.stages {
		switch s {
		case st.check:
			return m.check(ctx, st, res)
		case st.offer:
			return m.offer(ctx, st, res)
		case st.installing:
			return m.install(ctx, st, res)
		}
	}
	return StateAborted, fmt.Errorf("bootstrap: no transition from %s", s)
}

func (m *Machine) check(ctx context.Context, st stage, res *Result) (State, error) {
	res.Probes++
	status, err := st.step.Probe(ctx)
	if err != nil {
		m.logger.Printf("%s probe failed: %v", st.step.Name, err)
		return StateProbeBroken, err
	}
	m.logger.Printf("%s: %s", st.step.Name, status)
	if status == rustup.StatusPresent {
		return st.next, nil
	}
	return st.offer, nil
}

func (m *Machine) offer(ctx context.Context, st stage, res *Result) (State, error) {
	res.Prompts++
	if m.prompter == nil {
		return StateAborted, fmt.Errorf("%s: %w", st.step.Name, ErrDeclined)
	}
	answer, err := m.prompter.Ask(ctx, st.step.Prompt, Affirmative)
	if err != nil {
		m.logger.Printf("%s consent failed: %v", st.step.Name, err)
		m.showError(fmt.Sprintf("RLS was not started: %s installation prompt failed: %v", st.step.Name, err))
		return StateAborted, fmt.Errorf("%s consent: %w", st.step.Name, err)
	}
	if answer != Affirmative {
		m.logger.Printf("%s install declined", st.step.Name)
		m.showError(fmt.Sprintf("RLS was not started: %s installation declined", st.step.Name))
		return StateAborted, fmt.Errorf("%s: %w", st.step.Name, ErrDeclined)
	}
	return st.installing, nil
}

func (m *Machine) install(ctx context.Context, st stage, res *Result) (State, error) {
	res.Installs++
	if err := st.step.Install(ctx); err != nil {
		m.logger.Printf("%s install failed: %v", st.step.Name, err)
		return StateAborted, err
	}
	return st.next, nil
}

func (m *Machine) showError(message string) {
	if m.notifier != nil {
		m.notifier.ShowError(message)
	}
}
