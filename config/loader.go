package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/branchtools/sweep/errors"
)

// Load reads and decodes the sweeper configuration at the given path.
// YAML and TOML are both supported, selected by file extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "read configuration").
			WithDetail("path", path)
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "parse TOML configuration").
				WithDetail("path", path)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "parse YAML configuration").
				WithDetail("path", path)
		}
	}

	cfg.applyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadDir locates and loads the configuration for the project containing
// dir, walking up to the filesystem root.
func LoadDir(dir string) (*Config, string, error) {
	path, err := FindConfigFile(dir)
	if err != nil {
		return nil, "", err
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// FindConfigFile walks up from startDir looking for a sweep config file.
func FindConfigFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.ConfigNotFound(filepath.Join(startDir, ConfigFileNames[0]))
		}
		dir = parent
	}
}

// applyDefaults fills in the stock retention thresholds when the file
// leaves them unset.
func (c *Config) applyDefaults() {
	if c.Thresholds == nil {
		c.Thresholds = map[string]int{}
	}
	if _, ok := c.Thresholds["default"]; !ok {
		c.Thresholds["default"] = 45
	}
	if _, ok := c.Thresholds["release"]; !ok {
		c.Thresholds["release"] = 30
	}
	if _, ok := c.Thresholds["hotfix"]; !ok {
		c.Thresholds["hotfix"] = 30
	}
}

// applyEnvOverrides layers credentials from the environment over the file.
func applyEnvOverrides(c *Config) {
	if v := os.Getenv("SWEEP_USERNAME"); v != "" {
		c.Server.Username = v
	}
	if v := os.Getenv("SWEEP_PASSWORD"); v != "" {
		c.Server.Password = v
	}
}

// UnmarshalExtension decodes the named extension section into out.
// Missing sections are not an error; out is left untouched.
func (c *Config) UnmarshalExtension(name string, out interface{}) error {
	raw, ok := c.Extensions[name]
	if !ok {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "yaml",
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "build extension decoder")
	}

	if err := decoder.Decode(raw); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "decode extension '"+name+"'").
			WithDetail("extension", name)
	}

	return nil
}
