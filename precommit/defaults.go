package precommit

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/branchtools/sweep/errors"
)

// Default returns the starter hook configuration: formatting, import
// sorting, linting, and commit-message conventions.
func Default() *Config {
	return &Config{
		Repos: []Repo{
			{
				Repo: "https://github.com/pre-commit/pre-commit-hooks",
				Rev:  "v4.4.0",
				Hooks: []Hook{
					{ID: "trailing-whitespace"},
					{ID: "end-of-file-fixer"},
					{ID: "check-yaml"},
					{ID: "check-added-large-files"},
				},
			},
			{
				Repo:  "https://github.com/psf/black",
				Rev:   "23.3.0",
				Hooks: []Hook{{ID: "black"}},
			},
			{
				Repo: "https://github.com/pycqa/isort",
				Rev:  "5.12.0",
				Hooks: []Hook{
					{ID: "isort", Args: []string{"--profile", "black"}},
				},
			},
			{
				Repo: "https://github.com/charliermarsh/ruff-pre-commit",
				Rev:  "v0.0.270",
				Hooks: []Hook{
					{ID: "ruff", Args: []string{"--fix"}},
				},
			},
			{
				Repo: "https://github.com/commitizen-tools/commitizen",
				Rev:  "3.2.2",
				Hooks: []Hook{
					{ID: "commitizen", Stages: []string{StageCommitMsg}},
					{ID: "commitizen-branch", Stages: []string{StagePrePush}},
				},
			},
		},
	}
}

// Init writes the starter configuration into dir. An existing file is
// never clobbered.
func Init(dir string) (string, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return path, errors.New(errors.ErrCodeInvalidInput, "hook configuration already exists").
			WithDetail("path", path)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "marshal hook configuration")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "write hook configuration").
			WithDetail("path", path)
	}

	return path, nil
}
