package precommit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/branchtools/sweep/errors"
)

const sampleConfig = `repos:
- repo: https://github.com/psf/black
  rev: 23.3.0
  hooks:
  - id: black
- repo: https://github.com/pycqa/isort
  rev: 5.12.0
  hooks:
  - id: isort
    args: ["--profile", "black"]
- repo: https://github.com/commitizen-tools/commitizen
  rev: 3.2.2
  hooks:
  - id: commitizen
    stages: [commit-msg]
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)
	require.Len(t, cfg.Repos, 3)

	assert.Equal(t, "https://github.com/psf/black", cfg.Repos[0].Repo)
	assert.Equal(t, "23.3.0", cfg.Repos[0].Rev)
	assert.Equal(t, "black", cfg.Repos[0].Hooks[0].ID)
	assert.Equal(t, []string{"--profile", "black"}, cfg.Repos[1].Hooks[0].Args)
	assert.Equal(t, []string{"commit-msg"}, cfg.Repos[2].Hooks[0].Stages)

	assert.NoError(t, cfg.Validate())
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("repos:\n- repo: x\n  revision: 1.0\n  hooks: []\n"))
	assert.Error(t, err)
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse([]byte("  \n"))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeHookInvalid))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), ConfigFileName))
	assert.True(t, errors.Is(err, errors.ErrCodeHookConfigNotFound))
}

func TestFindConfigFileWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte(sampleConfig), 0644))

	found, err := FindConfigFile(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ConfigFileName), found)

	cfg, path, err := LoadDir(nested)
	require.NoError(t, err)
	assert.Equal(t, found, path)
	assert.Len(t, cfg.Repos, 3)
}

func TestInitAndDefault(t *testing.T) {
	dir := t.TempDir()
	path, err := Init(dir)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())

	// Starter config carries the commit-msg convention hook
	var found bool
	for _, repo := range cfg.Repos {
		for _, hook := range repo.Hooks {
			if hook.ID == "commitizen" {
				found = true
				assert.Equal(t, []string{StageCommitMsg}, hook.Stages)
			}
		}
	}
	assert.True(t, found)

	// Second init must not clobber
	_, err = Init(dir)
	assert.Error(t, err)
}

func TestRunsAtStage(t *testing.T) {
	h := &Hook{ID: "black"}
	assert.True(t, h.RunsAtStage(StagePreCommit, nil))
	assert.True(t, h.RunsAtStage(StageCommitMsg, nil))

	h.Stages = []string{StageCommitMsg}
	assert.False(t, h.RunsAtStage(StagePreCommit, nil))
	assert.True(t, h.RunsAtStage(StageCommitMsg, nil))

	// Legacy alias in the config matches the current stage name
	h.Stages = []string{"push"}
	assert.True(t, h.RunsAtStage(StagePrePush, nil))

	// Default stages apply only when the hook has none
	h.Stages = nil
	assert.False(t, h.RunsAtStage(StagePreCommit, []string{StagePrePush}))
	assert.True(t, h.RunsAtStage(StagePrePush, []string{StagePrePush}))
}

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"repos"`)
	assert.Contains(t, string(data), `"rev"`)
	assert.Contains(t, string(data), `"stages"`)
}
