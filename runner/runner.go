// Package runner executes the hooks configured for a git lifecycle stage.
package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/branchtools/sweep/command"
	"github.com/branchtools/sweep/conventional"
	"github.com/branchtools/sweep/errors"
	"github.com/branchtools/sweep/git"
	"github.com/branchtools/sweep/logging"
	"github.com/branchtools/sweep/precommit"
)

// Result records the outcome of a single hook invocation
type Result struct {
	HookID   string
	Repo     string
	Skipped  bool
	Passed   bool
	Output   string
	Duration time.Duration
	Err      error
}

// Runner selects and executes hooks from a loaded configuration
type Runner struct {
	cfg     *precommit.Config
	dir     string
	builder *command.SafeBuilder
	repo    git.RepositoryProvider
	log     *logrus.Entry
}

// Option configures a Runner
type Option func(*Runner)

// WithBuilder replaces the command builder, used by tests to inject a
// fake executor
func WithBuilder(b *command.SafeBuilder) Option {
	return func(r *Runner) { r.builder = b }
}

// WithRepository replaces the git repository provider
func WithRepository(repo git.RepositoryProvider) Option {
	return func(r *Runner) { r.repo = repo }
}

// New creates a Runner for the given configuration rooted at dir
func New(cfg *precommit.Config, dir string, opts ...Option) *Runner {
	r := &Runner{
		cfg:     cfg,
		dir:     dir,
		builder: command.NewSafeBuilder(),
		repo:    git.NewCLIRepository(),
		log:     logging.NewLogger("runner"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes every hook configured for the given stage, in config order.
// extraArgs carries the arguments git passed to the hook script, e.g. the
// message file path for commit-msg. The first failing hook stops the run.
func (r *Runner) Run(ctx context.Context, stage string, extraArgs []string) ([]Result, error) {
	stage = precommit.NormalizeStage(stage)
	if !precommit.KnownStages[stage] {
		return nil, errors.New(errors.ErrCodeHookUnknownStage,
			fmt.Sprintf("unrecognized stage '%s'", stage))
	}

	var stagedFiles []string
	if stage == precommit.StagePreCommit {
		files, err := r.repo.StagedFiles(r.dir)
		if err != nil {
			r.log.WithError(err).Warn("Could not list staged files")
		} else {
			stagedFiles = files
		}
	}

	var results []Result
	for _, repo := range r.cfg.Repos {
		for _, hook := range repo.Hooks {
			if !hook.RunsAtStage(stage, r.cfg.DefaultStages) {
				continue
			}

			res := r.runHook(ctx, repo, hook, stage, stagedFiles, extraArgs)
			results = append(results, res)

			if res.Err != nil {
				return results, errors.HookFailed(hook.ID, res.Err)
			}
		}
	}

	return results, nil
}

func (r *Runner) runHook(ctx context.Context, repo precommit.Repo, hook precommit.Hook, stage string, stagedFiles, extraArgs []string) Result {
	res := Result{HookID: hook.ID, Repo: repo.Repo}
	start := time.Now()
	defer func() { res.Duration = time.Since(start) }()

	log := r.log.WithFields(logrus.Fields{"hook": hook.ID, "stage": stage})

	// Message-convention hooks are handled in-process
	if stage == precommit.StageCommitMsg && isConventionHook(hook.ID) {
		if len(extraArgs) == 0 {
			res.Err = fmt.Errorf("no commit message file supplied")
			return res
		}
		if _, err := conventional.ValidateMessageFile(extraArgs[0]); err != nil {
			log.WithError(err).Error("Commit message rejected")
			res.Err = err
			return res
		}
		log.Debug("Commit message accepted")
		res.Passed = true
		return res
	}

	files, err := filterFiles(stagedFiles, hook.Files)
	if err != nil {
		log.WithError(err).Error("Invalid files pattern")
		res.Err = fmt.Errorf("invalid files pattern %q: %w", hook.Files, err)
		return res
	}
	if stage == precommit.StagePreCommit && hook.Files != "" && len(files) == 0 {
		log.Debug("No staged files match, skipping")
		res.Skipped = true
		res.Passed = true
		return res
	}

	name, args, err := r.resolveEntry(repo, hook)
	if err != nil {
		res.Err = err
		return res
	}
	args = append(args, hook.Args...)
	args = append(args, files...)
	if stage != precommit.StagePreCommit {
		args = append(args, extraArgs...)
	}

	cmd, err := r.builder.Build(ctx, name, args...)
	if err != nil {
		res.Err = err
		return res
	}
	defer cmd.Release()

	execCmd := cmd.Exec()
	execCmd.Dir = r.dir
	output, err := execCmd.CombinedOutput()
	res.Output = string(output)
	if err != nil {
		log.WithError(err).Error("Hook failed")
		res.Err = err
		return res
	}

	log.Debug("Hook passed")
	res.Passed = true
	return res
}

// resolveEntry determines the executable and leading arguments for a hook.
// Local hooks must declare an entry; remote hooks run their id as an
// executable expected on PATH.
func (r *Runner) resolveEntry(repo precommit.Repo, hook precommit.Hook) (string, []string, error) {
	if repo.IsLocal() {
		fields := strings.Fields(hook.Entry)
		if len(fields) == 0 {
			return "", nil, errors.HookFailed(hook.ID, fmt.Errorf("local hook has no entry"))
		}
		return fields[0], fields[1:], nil
	}

	if err := r.builder.Validate("hookID", hook.ID); err != nil {
		return "", nil, err
	}
	return hook.ID, nil, nil
}

// isConventionHook reports whether the hook id names a commit-message
// convention checker we validate in-process
func isConventionHook(id string) bool {
	switch id {
	case "commitizen", "conventional-pre-commit", "conventional-commit":
		return true
	}
	return false
}

// filterFiles returns the files matching the hook's files regexp. An empty
// pattern matches everything.
func filterFiles(files []string, pattern string) ([]string, error) {
	if pattern == "" {
		return files, nil
	}
	re, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}
	var matched []string
	for _, f := range files {
		if re.MatchString(f) {
			matched = append(matched, f)
		}
	}
	return matched, nil
}
