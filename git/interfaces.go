package git

import (
	"context"

	"github.com/branchtools/sweep/precommit"
)

// HookProvider defines the interface for git hook operations
type HookProvider interface {
	// Hook management
	InstallHooks(ctx context.Context, repoPath string, cfg *precommit.Config) error
	UninstallHooks(ctx context.Context, repoPath string) error
}

// RepositoryProvider defines the interface for general git repository operations
type RepositoryProvider interface {
	// Repository information
	GetRepoInfo(dir string) (repo string, branch string, err error)
	IsGitRepo(dir string) bool
	GetGitRoot(dir string) (string, error)
	StagedFiles(dir string) ([]string, error)
}
