package rustup

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MinimumVersion is the oldest rustup whose `component list --toolchain`
// output marks installed components the way the probe expects.
const MinimumVersion = "1.21.0"

// Version returns the first line of `rustup --version`, e.g.
// "rustup 1.27.1 (54dd3d00f 2024-04-24)".
func (c *Client) Version(ctx context.Context) (string, error) {
	res, err := c.run(ctx, "--version")
	if err != nil {
		return "", fmt.Errorf("rustup version: %w", err)
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(res.Stdout)), "\n")
	return strings.TrimSpace(line), nil
}

var versionRegex = regexp.MustCompile(`([0-9]+)\.([0-9]+)(?:\.([0-9]+))?`)

// ParseVersion extracts the dotted version number from a --version line.
func ParseVersion(line string) string {
	return versionRegex.FindString(line)
}

// MeetsMinimum compares dotted versions numerically. An empty minimum always
// passes; an empty version never does.
func MeetsMinimum(version, minimum string) bool {
	if minimum == "" {
		return true
	}
	if version == "" {
		return false
	}

	vParts := numericParts(version)
	mParts := numericParts(minimum)
	for len(vParts) < len(mParts) {
		vParts = append(vParts, 0)
	}
	for len(mParts) < len(vParts) {
		mParts = append(mParts, 0)
	}
	for i := range vParts {
		if vParts[i] > mParts[i] {
			return true
		}
		if vParts[i] < mParts[i] {
			return false
		}
	}
	return true
}

func numericParts(version string) []int {
	var parts []int
	for _, field := range strings.Split(version, ".") {
		val, err := strconv.Atoi(field)
		if err != nil {
			break
		}
		parts = append(parts, val)
	}
	return parts
}
