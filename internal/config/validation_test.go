package config

import (
	"strings"
	"testing"
)

func TestValidateDefaultsClean(t *testing.T) {
	if results := Default().Validate(); len(results) != 0 {
		t.Fatalf("unexpected findings: %+v", results)
	}
}

func TestValidateFindings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		level  string
		substr string
	}{
		{"bad channel", func(c *Config) { c.Rustup.Channel = "night ly" }, "error", "rustup.channel"},
		{"bad component", func(c *Config) { c.Rustup.Components = []string{"rls", "Rust Src"} }, "error", "Rust Src"},
		{"duplicate component", func(c *Config) { c.Rustup.Components = []string{"rls", "rls"} }, "warning", "more than once"},
		{"server not a component", func(c *Config) { c.Server.Binary = "rust-analyzer" }, "warning", "rust-analyzer"},
		{"bad env name", func(c *Config) { c.Server.Env = map[string]string{"1BAD": "x"} }, "error", "1BAD"},
		{"bad policy", func(c *Config) { c.Consent.Policy = "always" }, "error", "consent.policy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			results := cfg.Validate()
			found := false
			for _, r := range results {
				if r.Level == tt.level && strings.Contains(r.Message, tt.substr) {
					found = true
				}
			}
			if !found {
				t.Fatalf("no %s finding containing %q in %+v", tt.level, tt.substr, results)
			}
		})
	}
}

func TestErrorsFiltersLevel(t *testing.T) {
	results := []ValidationResult{
		{Level: "warning", Message: "w"},
		{Level: "error", Message: "e1"},
		{Level: "error", Message: "e2"},
	}
	if got := strings.Join(Errors(results), ","); got != "e1,e2" {
		t.Fatalf("Errors = %q", got)
	}
}
