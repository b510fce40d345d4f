package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// resolveExternalPath returns path as-is if absolute, otherwise joins it with projectRoot.
func resolveExternalPath(projectRoot, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(projectRoot, path)
}

// loadEnvFiles reads each YAML map in Server.EnvFiles and merges it into
// Server.Env. A variable defined in two places is an error.
func (c *Config) loadEnvFiles(projectRoot string) error {
	if len(c.Server.EnvFiles) == 0 {
		return nil
	}

	if c.Server.Env == nil {
		c.Server.Env = map[string]string{}
	}

	sources := make(map[string]string, len(c.Server.Env))
	for name := range c.Server.Env {
		sources[name] = "inline config"
	}

	for _, relPath := range c.Server.EnvFiles {
		data, err := os.ReadFile(resolveExternalPath(projectRoot, relPath))
		if err != nil {
			return fmt.Errorf("load env file %q: %w", relPath, err)
		}

		var vars map[string]string
		if err := yaml.Unmarshal(data, &vars); err != nil {
			return fmt.Errorf("parse env file %q: %w", relPath, err)
		}

		for name, value := range vars {
			if existing, ok := sources[name]; ok {
				return fmt.Errorf("env %q defined in both %s and %q", name, existing, relPath)
			}
			sources[name] = fmt.Sprintf("%q", relPath)
			c.Server.Env[name] = value
		}
	}
	return nil
}
