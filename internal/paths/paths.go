package paths

import (
	"fmt"
	"os"
	"path/filepath"

	"rlsboot/internal/config"
)

// ProjectPaths captures canonical locations for a Rust workspace managed by
// rlsboot.
type ProjectPaths struct {
	Root       string
	ConfigFile string
	MetaDir    string
	LogsDir    string
}

// Resolve determines the project root using the optional --project flag or the
// current working directory when the flag is empty.
func Resolve(projectFlag string) (ProjectPaths, error) {
	var (
		root string
		err  error
	)

	if projectFlag != "" {
		root, err = filepath.Abs(projectFlag)
	} else {
		root, err = os.Getwd()
	}
	if err != nil {
		return ProjectPaths{}, fmt.Errorf("resolve project root: %w", err)
	}

	return newProjectPaths(root), nil
}

func newProjectPaths(root string) ProjectPaths {
	metaDir := filepath.Join(root, ".rlsboot")
	return ProjectPaths{
		Root:       root,
		ConfigFile: filepath.Join(root, config.FileName),
		MetaDir:    metaDir,
		LogsDir:    filepath.Join(metaDir, "logs"),
	}
}

// EnsureMetaDirs creates the hidden .rlsboot directory and its logs dir.
func (p ProjectPaths) EnsureMetaDirs() error {
	for _, dir := range []string{p.MetaDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
