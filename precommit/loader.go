package precommit

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/branchtools/sweep/errors"
)

// Load reads and decodes the hook configuration at the given path.
// Unknown keys are rejected so typos surface instead of being dropped.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.HookConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeHookInvalid, "read hook configuration").
			WithDetail("path", path)
	}

	cfg, err := Parse(data)
	if err != nil {
		if sweepErr, ok := err.(*errors.SweepError); ok {
			return nil, sweepErr.WithDetail("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes hook configuration from raw YAML.
func Parse(data []byte) (*Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New(errors.ErrCodeHookInvalid, "hook configuration is empty")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, errors.ErrCodeHookInvalid, "parse hook configuration")
	}

	return &cfg, nil
}

// LoadDir locates and loads the hook configuration for the project
// containing dir, walking up to the filesystem root.
func LoadDir(dir string) (*Config, string, error) {
	path, err := FindConfigFile(dir)
	if err != nil {
		return nil, "", err
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// FindConfigFile walks up from startDir looking for ConfigFileName.
func FindConfigFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.HookConfigNotFound(filepath.Join(startDir, ConfigFileName))
		}
		dir = parent
	}
}
