package rustup

import (
	"context"
	"strings"
)

const (
	UpdateUnchanged = "Up to date."
	UpdateChanged   = "Up to date. Restart the language server for changes to take effect."
	UpdateFailed    = "An error occurred whilst trying to update."
)

// Update runs `rustup update <channel>`. It is a maintenance action outside the
// bootstrap path: failures are folded into the returned status message.
func (c *Client) Update(ctx context.Context) string {
	c.reporter.Start("Updating RLS...")

	res, err := c.run(ctx, "update", c.channel)
	if err != nil {
		c.logger.Printf("update %s: %v", c.channel, err)
		c.reporter.Stop(UpdateFailed)
		return UpdateFailed
	}

	msg := updateMessage(string(res.Stdout))
	c.reporter.Stop(msg)
	return msg
}

func updateMessage(stdout string) string {
	if strings.Contains(stdout, "unchanged") {
		return UpdateUnchanged
	}
	return UpdateChanged
}
