package bootstrap

// State is a node of the bootstrap state machine.
type State int

const (
	StateInit State = iota
	StateCheckToolchain
	StateOfferToolchainInstall
	StateInstallingToolchain
	StateCheckComponents
	StateOfferComponentInstall
	StateInstallingComponents
	StateReady
	StateAborted
	StateProbeBroken
)

var stateNames = map[State]string{
	StateInit:                  "init",
	StateCheckToolchain:        "check-toolchain",
	StateOfferToolchainInstall: "offer-toolchain-install",
	StateInstallingToolchain:   "installing-toolchain",
	StateCheckComponents:       "check-components",
	StateOfferComponentInstall: "offer-component-install",
	StateInstallingComponents:  "installing-components",
	StateReady:                 "ready",
	StateAborted:               "aborted",
	StateProbeBroken:           "probe-broken",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether the machine stops in s.
func (s State) Terminal() bool {
	return s == StateReady || s == StateAborted || s == StateProbeBroken
}

// MarshalText renders the state by name so JSON output stays readable.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
