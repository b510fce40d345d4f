package config

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

var (
	channelPattern   = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
	componentPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
	envNamePattern   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Validate checks the loaded config and returns structured findings.
func (c Config) Validate() []ValidationResult {
	var results []ValidationResult
	results = append(results, c.validateRustup()...)
	results = append(results, c.validateServer()...)
	results = append(results, c.validateConsent()...)
	return results
}

func (c Config) validateRustup() []ValidationResult {
	var results []ValidationResult
	if !channelPattern.MatchString(c.Rustup.Channel) {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("rustup.channel %q is not a valid toolchain name", c.Rustup.Channel),
		})
	}
	if strings.ContainsAny(c.Rustup.Binary, "\n\t") {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: "rustup.binary contains control characters",
		})
	}
	seen := map[string]bool{}
	for _, name := range c.Rustup.Components {
		if !componentPattern.MatchString(name) {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("rustup.components entry %q is not a valid component name", name),
			})
			continue
		}
		if seen[name] {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("rustup.components lists %q more than once", name),
			})
		}
		seen[name] = true
	}
	if len(c.Rustup.Components) > 0 && !seen[c.Server.Binary] {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("server binary %q is not among rustup.components", c.Server.Binary),
		})
	}
	return results
}

func (c Config) validateServer() []ValidationResult {
	var results []ValidationResult
	names := make([]string, 0, len(c.Server.Env))
	for name := range c.Server.Env {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !envNamePattern.MatchString(name) {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("server.env name %q is not a valid variable name", name),
			})
		}
	}
	return results
}

func (c Config) validateConsent() []ValidationResult {
	switch strings.ToLower(strings.TrimSpace(c.Consent.Policy)) {
	case "ask", "yes", "no":
		return nil
	}
	return []ValidationResult{{
		Level:   "error",
		Message: fmt.Sprintf("consent.policy %q must be ask, yes or no", c.Consent.Policy),
	}}
}

// Errors returns the messages of error-level findings.
func Errors(results []ValidationResult) []string {
	var errs []string
	for _, r := range results {
		if r.Level == "error" {
			errs = append(errs, r.Message)
		}
	}
	return errs
}
