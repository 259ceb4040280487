package runner

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/branchtools/sweep/command"
	"github.com/branchtools/sweep/errors"
	"github.com/branchtools/sweep/precommit"
)

// fakeExecutor records invocations and substitutes a deterministic process
type fakeExecutor struct {
	calls [][]string
	fail  map[string]bool
}

func (e *fakeExecutor) Command(name string, args ...string) *exec.Cmd {
	return e.CommandContext(context.Background(), name, args...)
}

func (e *fakeExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	e.calls = append(e.calls, append([]string{name}, args...))
	if e.fail[name] {
		return exec.CommandContext(ctx, "false")
	}
	return exec.CommandContext(ctx, "true")
}

// fakeRepo supplies a fixed staged file list
type fakeRepo struct {
	staged []string
}

func (r *fakeRepo) GetRepoInfo(dir string) (string, string, error) { return "repo", "main", nil }
func (r *fakeRepo) IsGitRepo(dir string) bool                      { return true }
func (r *fakeRepo) GetGitRoot(dir string) (string, error)          { return dir, nil }
func (r *fakeRepo) StagedFiles(dir string) ([]string, error)       { return r.staged, nil }

func newTestRunner(cfg *precommit.Config, exec *fakeExecutor, staged []string) *Runner {
	return New(cfg, ".",
		WithBuilder(command.NewSafeBuilderWithExecutor(exec)),
		WithRepository(&fakeRepo{staged: staged}),
	)
}

func TestRun_SelectsHooksForStage(t *testing.T) {
	cfg := &precommit.Config{
		Repos: []precommit.Repo{
			{
				Repo: "https://github.com/psf/black",
				Rev:  "23.3.0",
				Hooks: []precommit.Hook{
					{ID: "black"},
					{ID: "commitizen-branch", Stages: []string{"pre-push"}},
				},
			},
		},
	}

	exec := &fakeExecutor{}
	r := newTestRunner(cfg, exec, []string{"main.py"})

	results, err := r.Run(context.Background(), "pre-commit", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "black", results[0].HookID)
	assert.True(t, results[0].Passed)

	require.Len(t, exec.calls, 1)
	assert.Equal(t, []string{"black", "main.py"}, exec.calls[0])
}

func TestRun_AppendsArgsAndStagedFiles(t *testing.T) {
	cfg := &precommit.Config{
		Repos: []precommit.Repo{
			{
				Repo: "https://github.com/pycqa/isort",
				Rev:  "5.12.0",
				Hooks: []precommit.Hook{
					{ID: "isort", Args: []string{"--profile", "black"}},
				},
			},
		},
	}

	exec := &fakeExecutor{}
	r := newTestRunner(cfg, exec, []string{"a.py", "b.py"})

	_, err := r.Run(context.Background(), "pre-commit", nil)
	require.NoError(t, err)
	require.Len(t, exec.calls, 1)
	assert.Equal(t, []string{"isort", "--profile", "black", "a.py", "b.py"}, exec.calls[0])
}

func TestRun_LocalHookEntry(t *testing.T) {
	cfg := &precommit.Config{
		Repos: []precommit.Repo{
			{
				Repo: "local",
				Hooks: []precommit.Hook{
					{ID: "lint", Entry: "make lint", Stages: []string{"pre-push"}},
				},
			},
		},
	}

	exec := &fakeExecutor{}
	r := newTestRunner(cfg, exec, nil)

	results, err := r.Run(context.Background(), "pre-push", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Passed)

	require.Len(t, exec.calls, 1)
	assert.Equal(t, []string{"make", "lint"}, exec.calls[0])
}

func TestRun_StopsOnFirstFailure(t *testing.T) {
	cfg := &precommit.Config{
		Repos: []precommit.Repo{
			{
				Repo: "https://github.com/psf/black",
				Rev:  "23.3.0",
				Hooks: []precommit.Hook{
					{ID: "black"},
					{ID: "ruff"},
				},
			},
		},
	}

	exec := &fakeExecutor{fail: map[string]bool{"black": true}}
	r := newTestRunner(cfg, exec, []string{"main.py"})

	results, err := r.Run(context.Background(), "pre-commit", nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeHookFailed, errors.GetCode(err))

	// ruff never ran
	require.Len(t, results, 1)
	assert.Equal(t, "black", results[0].HookID)
	assert.False(t, results[0].Passed)
}

func TestRun_SkipsWhenNoFilesMatch(t *testing.T) {
	cfg := &precommit.Config{
		Repos: []precommit.Repo{
			{
				Repo: "https://github.com/psf/black",
				Rev:  "23.3.0",
				Hooks: []precommit.Hook{
					{ID: "black", Files: `\.py$`},
				},
			},
		},
	}

	exec := &fakeExecutor{}
	r := newTestRunner(cfg, exec, []string{"README.md"})

	results, err := r.Run(context.Background(), "pre-commit", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Skipped)
	assert.Empty(t, exec.calls)
}

func TestRun_InvalidFilesPatternFailsHook(t *testing.T) {
	cfg := &precommit.Config{
		Repos: []precommit.Repo{
			{
				Repo: "https://github.com/psf/black",
				Rev:  "23.3.0",
				Hooks: []precommit.Hook{
					{ID: "black", Files: "[py$"},
				},
			},
		},
	}

	exec := &fakeExecutor{}
	r := newTestRunner(cfg, exec, []string{"main.py"})

	results, err := r.Run(context.Background(), "pre-commit", nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeHookFailed, errors.GetCode(err))

	// A broken pattern must not pass off as a skip
	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
	assert.False(t, results[0].Skipped)
	assert.Contains(t, results[0].Err.Error(), "files pattern")
	assert.Empty(t, exec.calls)
}

func TestRun_CommitMsgConventionHook(t *testing.T) {
	cfg := &precommit.Config{
		Repos: []precommit.Repo{
			{
				Repo: "https://github.com/commitizen-tools/commitizen",
				Rev:  "3.2.2",
				Hooks: []precommit.Hook{
					{ID: "commitizen", Stages: []string{"commit-msg"}},
				},
			},
		},
	}

	msgFile := filepath.Join(t.TempDir(), "COMMIT_EDITMSG")
	require.NoError(t, os.WriteFile(msgFile, []byte("feat(api): add endpoint\n"), 0644))

	exec := &fakeExecutor{}
	r := newTestRunner(cfg, exec, nil)

	results, err := r.Run(context.Background(), "commit-msg", []string{msgFile})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Passed)
	assert.Empty(t, exec.calls, "convention hooks run in-process")
}

func TestRun_CommitMsgRejectsBadMessage(t *testing.T) {
	cfg := &precommit.Config{
		Repos: []precommit.Repo{
			{
				Repo: "https://github.com/commitizen-tools/commitizen",
				Rev:  "3.2.2",
				Hooks: []precommit.Hook{
					{ID: "commitizen", Stages: []string{"commit-msg"}},
				},
			},
		},
	}

	msgFile := filepath.Join(t.TempDir(), "COMMIT_EDITMSG")
	require.NoError(t, os.WriteFile(msgFile, []byte("fixed stuff\n"), 0644))

	r := newTestRunner(cfg, &fakeExecutor{}, nil)

	_, err := r.Run(context.Background(), "commit-msg", []string{msgFile})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeHookFailed, errors.GetCode(err))
}

func TestRun_LegacyStageAlias(t *testing.T) {
	cfg := &precommit.Config{
		Repos: []precommit.Repo{
			{
				Repo: "local",
				Hooks: []precommit.Hook{
					{ID: "check", Entry: "ci-check", Stages: []string{"push"}},
				},
			},
		},
	}

	exec := &fakeExecutor{}
	r := newTestRunner(cfg, exec, nil)

	results, err := r.Run(context.Background(), "pre-push", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "check", results[0].HookID)
}

func TestRun_UnknownStage(t *testing.T) {
	r := newTestRunner(&precommit.Config{}, &fakeExecutor{}, nil)

	_, err := r.Run(context.Background(), "mid-commit", nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeHookUnknownStage, errors.GetCode(err))
}

func TestRun_DefaultStages(t *testing.T) {
	cfg := &precommit.Config{
		DefaultStages: []string{"pre-push"},
		Repos: []precommit.Repo{
			{
				Repo: "https://github.com/psf/black",
				Rev:  "23.3.0",
				Hooks: []precommit.Hook{
					{ID: "black"},
				},
			},
		},
	}

	exec := &fakeExecutor{}
	r := newTestRunner(cfg, exec, nil)

	results, err := r.Run(context.Background(), "pre-commit", nil)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = r.Run(context.Background(), "pre-push", nil)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}
