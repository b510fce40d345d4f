package rustup

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// ComponentState records whether one required component is installed.
type ComponentState struct {
	Name      string `json:"name"`
	Installed bool   `json:"installed"`
}

// ComponentStates lists the required components against
// `rustup component list --toolchain <channel>`.
func (c *Client) ComponentStates(ctx context.Context) ([]ComponentState, error) {
	res, err := c.run(ctx, "component", "list", "--toolchain", c.channel)
	if err != nil {
		return nil, &ProbeError{Subject: SubjectComponents, Channel: c.channel, Err: err}
	}
	return matchComponents(string(res.Stdout), c.components), nil
}

// ProbeComponents is present only when every required component is installed.
func (c *Client) ProbeComponents(ctx context.Context) (Status, error) {
	states, err := c.ComponentStates(ctx)
	if err != nil {
		c.notifier.ShowError(fmt.Sprintf("Can't detect RLS components: %v", err))
		c.reporter.Stop("RLS could not be started")
		return StatusUnknown, err
	}
	missing := Missing(states)
	if len(missing) > 0 {
		c.logger.Printf("components for %s: absent (missing %s)", c.channel, strings.Join(missing, ", "))
		return StatusAbsent, nil
	}
	c.logger.Printf("components for %s: present", c.channel)
	return StatusPresent, nil
}

// Missing returns the names of components that are not installed.
func Missing(states []ComponentState) []string {
	var missing []string
	for _, st := range states {
		if !st.Installed {
			missing = append(missing, st.Name)
		}
	}
	return missing
}

func matchComponents(output string, names []string) []ComponentState {
	output = strings.ReplaceAll(output, "\r\n", "\n")
	states := make([]ComponentState, 0, len(names))
	for _, name := range names {
		states = append(states, ComponentState{
			Name:      name,
			Installed: componentPattern(name).MatchString(output),
		})
	}
	return states
}

func componentPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(name) + `.*\((default|installed)\)$`)
}
