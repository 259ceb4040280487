package git

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/branchtools/sweep/command"
)

// GetRepoInfo returns the repository name and current branch
func GetRepoInfo(dir string) (repo string, branch string, err error) {
	cmdBuilder := command.NewSafeBuilder()

	gitRoot, err := GetGitRoot(dir)
	if err != nil {
		return "", "", fmt.Errorf("could not find git root: %w", err)
	}

	cmd, err := cmdBuilder.Build(context.Background(), "git", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", "", fmt.Errorf("failed to build command: %w", err)
	}
	defer cmd.Release()
	execCmd := cmd.Exec()
	execCmd.Dir = dir
	output, err := execCmd.Output()
	if err != nil {
		return "", "", fmt.Errorf("get current branch: %w", err)
	}
	branch = strings.TrimSpace(string(output))

	cmd, err = cmdBuilder.Build(context.Background(), "git", "config", "--get", "remote.origin.url")
	if err != nil {
		return "", "", fmt.Errorf("failed to build command: %w", err)
	}
	defer cmd.Release()
	execCmd = cmd.Exec()
	execCmd.Dir = gitRoot
	output, err = execCmd.Output()
	if err != nil {
		// Fallback to the basename of the git root directory
		repo = filepath.Base(gitRoot)
		return repo, branch, nil
	}

	remoteURL := strings.TrimSpace(string(output))
	repo = extractRepoName(remoteURL)

	return repo, branch, nil
}

// extractRepoName extracts repository name from git URL
func extractRepoName(url string) string {
	url = strings.TrimSuffix(url, ".git")

	// Handle SSH URLs (git@host:user/repo)
	if strings.HasPrefix(url, "git@") {
		parts := strings.Split(url, ":")
		if len(parts) >= 2 {
			url = parts[1]
		}
	}

	parts := strings.Split(url, "/")
	if len(parts) > 0 && parts[len(parts)-1] != "" {
		return parts[len(parts)-1]
	}

	return "unknown"
}

// IsGitRepo checks if the given directory is inside a git repository
func IsGitRepo(dir string) bool {
	cmdBuilder := command.NewSafeBuilder()
	cmd, err := cmdBuilder.Build(context.Background(), "git", "rev-parse", "--git-dir")
	if err != nil {
		return false
	}
	defer cmd.Release()
	execCmd := cmd.Exec()
	execCmd.Dir = dir
	err = execCmd.Run()
	return err == nil
}

// GetGitRoot returns the root directory of the git repository
func GetGitRoot(dir string) (string, error) {
	cmdBuilder := command.NewSafeBuilder()
	cmd, err := cmdBuilder.Build(context.Background(), "git", "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("failed to build command: %w", err)
	}
	defer cmd.Release()
	execCmd := cmd.Exec()
	execCmd.Dir = dir
	output, err := execCmd.Output()
	if err != nil {
		return "", fmt.Errorf("get git root: %w", err)
	}

	return strings.TrimSpace(string(output)), nil
}

// StagedFiles returns the paths of files staged for the next commit,
// relative to the repository root. Deleted files are filtered out since
// hooks cannot operate on them.
func StagedFiles(dir string) ([]string, error) {
	cmdBuilder := command.NewSafeBuilder()
	cmd, err := cmdBuilder.Build(context.Background(), "git",
		"diff", "--cached", "--name-only", "--diff-filter=d")
	if err != nil {
		return nil, fmt.Errorf("failed to build command: %w", err)
	}
	defer cmd.Release()
	execCmd := cmd.Exec()
	execCmd.Dir = dir
	output, err := execCmd.Output()
	if err != nil {
		return nil, fmt.Errorf("list staged files: %w", err)
	}

	var files []string
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}
