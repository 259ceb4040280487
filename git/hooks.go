package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/branchtools/sweep/precommit"
)

const hookScriptTemplate = `#!/bin/sh
# sweep git hook - {{.HookName}}
# Auto-generated, do not edit directly

SWEEP_BIN="{{.SweepBinary}}"

# Check if sweep is installed
if ! command -v "$SWEEP_BIN" >/dev/null 2>&1; then
    echo "sweep not found. Skipping {{.HookName}} hook."
    exit 0
fi

cd "$(git rev-parse --show-toplevel)"
exec "$SWEEP_BIN" hooks run {{.Stage}} -- "$@"
`

// hookMarker identifies hook files written by this tool.
const hookMarker = "sweep git hook"

// stageHooks maps config stage names to the git hook files that trigger them.
// The manual stage has no git trigger.
var stageHooks = map[string]string{
	precommit.StagePreCommit:      "pre-commit",
	precommit.StagePreMergeCommit: "pre-merge-commit",
	precommit.StagePrePush:        "pre-push",
	precommit.StagePrepareCommit:  "prepare-commit-msg",
	precommit.StageCommitMsg:      "commit-msg",
	precommit.StagePostCheckout:   "post-checkout",
	precommit.StagePostCommit:     "post-commit",
	precommit.StagePostMerge:      "post-merge",
	precommit.StagePostRewrite:    "post-rewrite",
}

// HookManager manages git hooks
type HookManager struct {
	sweepBinary string
}

// Ensure it implements the interface
var _ HookProvider = (*HookManager)(nil)

// NewHookManager creates a new hook manager
func NewHookManager(sweepBinary string) *HookManager {
	if sweepBinary == "" {
		sweepBinary = "sweep"
	}
	return &HookManager{
		sweepBinary: sweepBinary,
	}
}

// InstallHooks writes a git hook script for every stage that at least one
// configured hook runs at. Existing hooks not written by sweep are backed up.
func (m *HookManager) InstallHooks(ctx context.Context, repoPath string, cfg *precommit.Config) error {
	hooksDir := filepath.Join(repoPath, ".git", "hooks")
	if err := os.MkdirAll(hooksDir, 0755); err != nil {
		return fmt.Errorf("create hooks directory: %w", err)
	}

	for _, stage := range activeStages(cfg) {
		hookName, ok := stageHooks[stage]
		if !ok {
			continue
		}
		if err := m.installHook(hooksDir, hookName, stage); err != nil {
			return fmt.Errorf("install %s hook: %w", hookName, err)
		}
	}

	return nil
}

// UninstallHooks removes sweep-managed git hooks and restores backups
func (m *HookManager) UninstallHooks(ctx context.Context, repoPath string) error {
	hooksDir := filepath.Join(repoPath, ".git", "hooks")

	for _, hookName := range stageHooks {
		hookPath := filepath.Join(hooksDir, hookName)

		// Only touch hooks we wrote
		if !m.isSweepHook(hookPath) {
			continue
		}
		if err := os.Remove(hookPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s hook: %w", hookName, err)
		}

		// Restore a backed-up hook if one exists
		backupPath := hookPath + ".pre-sweep"
		if _, err := os.Stat(backupPath); err == nil {
			if err := os.Rename(backupPath, hookPath); err != nil {
				return fmt.Errorf("restore %s hook: %w", hookName, err)
			}
		}
	}

	return nil
}

// installHook installs a single git hook
func (m *HookManager) installHook(hooksDir, hookName, stage string) error {
	hookPath := filepath.Join(hooksDir, hookName)

	// Check if hook already exists
	if _, err := os.Stat(hookPath); err == nil {
		if !m.isSweepHook(hookPath) {
			// Backup existing hook
			backupPath := hookPath + ".pre-sweep"
			if err := os.Rename(hookPath, backupPath); err != nil {
				return fmt.Errorf("backup existing hook: %w", err)
			}
		}
	}

	tmpl, err := template.New(hookName).Parse(hookScriptTemplate)
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	data := struct {
		HookName    string
		SweepBinary string
		Stage       string
	}{
		HookName:    hookName,
		SweepBinary: m.sweepBinary,
		Stage:       stage,
	}

	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}

	// Write hook file with executable permissions
	// #nosec G306 - Git hooks need to be executable
	if err := os.WriteFile(hookPath, buf.Bytes(), 0755); err != nil {
		return fmt.Errorf("write hook file: %w", err)
	}

	return nil
}

// isSweepHook checks if a hook file is managed by sweep
func (m *HookManager) isSweepHook(hookPath string) bool {
	content, err := os.ReadFile(hookPath)
	if err != nil {
		return false
	}
	return bytes.Contains(content, []byte(hookMarker))
}

// activeStages collects the distinct stages that any configured hook runs at,
// in a stable order.
func activeStages(cfg *precommit.Config) []string {
	seen := make(map[string]bool)
	var stages []string

	add := func(stage string) {
		stage = precommit.NormalizeStage(stage)
		if !seen[stage] {
			seen[stage] = true
			stages = append(stages, stage)
		}
	}

	for _, repo := range cfg.Repos {
		for _, hook := range repo.Hooks {
			if len(hook.Stages) > 0 {
				for _, s := range hook.Stages {
					add(s)
				}
				continue
			}
			if len(cfg.DefaultStages) > 0 {
				for _, s := range cfg.DefaultStages {
					add(s)
				}
				continue
			}
			add(precommit.StagePreCommit)
		}
	}

	return stages
}
