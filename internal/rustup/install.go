package rustup

import (
	"context"
	"fmt"
)

// InstallToolchain runs `rustup toolchain install <channel>`.
func (c *Client) InstallToolchain(ctx context.Context) error {
	display := DisplayChannel(c.channel)
	c.reporter.Start(fmt.Sprintf("Installing %s toolchain...", c.channel))

	res, err := c.run(ctx, "toolchain", "install", c.channel)
	if err != nil {
		c.notifier.ShowError(fmt.Sprintf("Could not install %s toolchain", c.channel))
		c.reporter.Stop(fmt.Sprintf("Could not install %s toolchain", c.channel))
		return &InstallError{Subject: SubjectToolchain, Channel: c.channel, Err: err}
	}
	c.logOutput(res.Stdout, res.Stderr)
	c.reporter.Stop(display + " toolchain installed successfully")
	return nil
}

// InstallComponents adds each required component in declared order. The first
// failure stops the batch; components added before it stay installed.
func (c *Client) InstallComponents(ctx context.Context) error {
	c.reporter.Start("Installing RLS components")

	for i, component := range c.components {
		if err := ctx.Err(); err != nil {
			c.reporter.Stop("Could not install RLS")
			return &InstallError{Subject: SubjectComponent, Channel: c.channel, Component: component, Err: err}
		}
		c.progress(fmt.Sprintf("Installing RLS components: %s (%d/%d)", component, i+1, len(c.components)))
		res, err := c.run(ctx, "component", "add", component, "--toolchain", c.channel)
		if err != nil {
			c.notifier.ShowError(fmt.Sprintf("Could not install RLS component (%s)", component))
			c.reporter.Stop("Could not install RLS")
			return &InstallError{Subject: SubjectComponent, Channel: c.channel, Component: component, Err: err}
		}
		c.logOutput(res.Stdout, res.Stderr)
	}

	c.reporter.Stop("RLS components installed successfully")
	return nil
}

func (c *Client) logOutput(stdout, stderr []byte) {
	if len(stdout) > 0 {
		c.logger.Printf("stdout: %s", stdout)
	}
	if len(stderr) > 0 {
		c.logger.Printf("stderr: %s", stderr)
	}
}
