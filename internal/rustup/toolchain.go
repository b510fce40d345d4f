package rustup

import (
	"context"
	"strings"
)

// ProbeToolchain reports whether the channel shows up in `rustup toolchain list`.
func (c *Client) ProbeToolchain(ctx context.Context) (Status, error) {
	res, err := c.run(ctx, "toolchain", "list")
	if err != nil {
		c.notifier.ShowError("Rustup not available. Install from " + InstallURL)
		return StatusUnknown, &ProbeError{Subject: SubjectToolchain, Channel: c.channel, Err: err}
	}
	status := toolchainStatus(string(res.Stdout), c.channel)
	c.logger.Printf("toolchain %s: %s", c.channel, status)
	return status, nil
}

func toolchainStatus(output, channel string) Status {
	if strings.Contains(output, channel) {
		return StatusPresent
	}
	return StatusAbsent
}
