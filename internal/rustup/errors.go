package rustup

import (
	"errors"
	"fmt"
)

var (
	// ErrProbeFailed marks a verification command that could not run. It means
	// rustup itself is missing or broken and is never downgraded to "absent".
	ErrProbeFailed = errors.New("probe failed")
	// ErrInstallFailed marks an install command that exited abnormally.
	ErrInstallFailed = errors.New("install failed")
)

// Subject names what a probe or install was about.
type Subject string

const (
	SubjectToolchain  Subject = "toolchain"
	SubjectComponents Subject = "components"
	SubjectComponent  Subject = "component"
)

type ProbeError struct {
	Subject Subject
	Channel string
	Err     error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s for %s: %v", e.Subject, e.Channel, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

func (e *ProbeError) Is(target error) bool { return target == ErrProbeFailed }

// InstallError identifies the toolchain or the specific component whose
// install step failed.
type InstallError struct {
	Subject   Subject
	Channel   string
	Component string
	Err       error
}

func (e *InstallError) Error() string {
	if e.Subject == SubjectComponent {
		return fmt.Sprintf("installing %s failed: %v", e.Component, e.Err)
	}
	return fmt.Sprintf("installing %s toolchain failed: %v", e.Channel, e.Err)
}

func (e *InstallError) Unwrap() error { return e.Err }

func (e *InstallError) Is(target error) bool { return target == ErrInstallFailed }
