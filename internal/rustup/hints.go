package rustup

import "runtime"

// InstallHints suggests how to install rustup itself on the current platform.
func InstallHints() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			"Download and run rustup-init.exe from " + InstallURL,
			"or via winget: winget install Rustlang.Rustup",
		}
	case "darwin":
		return []string{
			"curl --proto '=https' --tlsv1.2 -sSf https://sh.rustup.rs | sh",
			"or via Homebrew: brew install rustup",
		}
	default:
		return []string{
			"curl --proto '=https' --tlsv1.2 -sSf https://sh.rustup.rs | sh",
		}
	}
}
