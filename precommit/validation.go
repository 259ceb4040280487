package precommit

import (
	"fmt"
	"regexp"

	"github.com/branchtools/sweep/errors"
)

var hookIDRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// Validate checks the structural rules of the hook configuration:
// every entry has a non-empty repo and (for remote entries) a non-empty rev,
// every hook has a non-empty id, duplicate repo URLs do not pin conflicting
// revs, and stage restrictions only name recognized lifecycle stages.
func (c *Config) Validate() error {
	if len(c.Repos) == 0 {
		return errors.New(errors.ErrCodeHookInvalid, "configuration declares no repos")
	}

	for _, stage := range c.DefaultStages {
		if !KnownStages[NormalizeStage(stage)] {
			return errors.New(errors.ErrCodeHookUnknownStage,
				fmt.Sprintf("unrecognized stage '%s' in default_stages", stage)).
				WithDetail("stage", stage)
		}
	}

	revByRepo := make(map[string]string)
	for i, repo := range c.Repos {
		if err := validateRepo(i, &repo); err != nil {
			return err
		}

		if repo.IsLocal() {
			continue
		}
		if prev, seen := revByRepo[repo.Repo]; seen && prev != repo.Rev {
			return errors.New(errors.ErrCodeHookInvalid,
				fmt.Sprintf("repo '%s' is pinned to conflicting revs '%s' and '%s'", repo.Repo, prev, repo.Rev)).
				WithDetail("repo", repo.Repo)
		}
		revByRepo[repo.Repo] = repo.Rev
	}

	return nil
}

func validateRepo(index int, repo *Repo) error {
	if repo.Repo == "" {
		return errors.New(errors.ErrCodeHookInvalid,
			fmt.Sprintf("repos[%d] has an empty repo", index)).
			WithDetail("index", index)
	}

	if !repo.IsLocal() && repo.Rev == "" {
		return errors.New(errors.ErrCodeHookInvalid,
			fmt.Sprintf("repo '%s' has no rev", repo.Repo)).
			WithDetail("repo", repo.Repo)
	}

	if len(repo.Hooks) == 0 {
		return errors.New(errors.ErrCodeHookInvalid,
			fmt.Sprintf("repo '%s' declares no hooks", repo.Repo)).
			WithDetail("repo", repo.Repo)
	}

	for _, hook := range repo.Hooks {
		h := hook
		if err := validateHook(repo, &h); err != nil {
			return err
		}
	}

	return nil
}

func validateHook(repo *Repo, hook *Hook) error {
	if hook.ID == "" {
		return errors.New(errors.ErrCodeHookInvalid,
			fmt.Sprintf("repo '%s' has a hook with an empty id", repo.Repo)).
			WithDetail("repo", repo.Repo)
	}

	if !hookIDRegex.MatchString(hook.ID) {
		return errors.New(errors.ErrCodeHookInvalid,
			fmt.Sprintf("invalid hook id '%s' (must contain only letters, numbers, dots, underscores, and hyphens)", hook.ID)).
			WithDetail("hook", hook.ID)
	}

	if repo.IsLocal() && hook.Entry == "" {
		return errors.New(errors.ErrCodeHookInvalid,
			fmt.Sprintf("local hook '%s' has no entry", hook.ID)).
			WithDetail("hook", hook.ID)
	}

	if hook.Files != "" {
		if _, err := regexp.Compile(hook.Files); err != nil {
			return errors.New(errors.ErrCodeHookInvalid,
				fmt.Sprintf("hook '%s' has an invalid files pattern: %v", hook.ID, err)).
				WithDetail("hook", hook.ID)
		}
	}

	for _, stage := range hook.Stages {
		if !KnownStages[NormalizeStage(stage)] {
			return errors.UnknownStage(stage, hook.ID)
		}
	}

	return nil
}
