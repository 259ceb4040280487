package git

// CLIRepository implements RepositoryProvider using the git CLI
type CLIRepository struct{}

// Ensure it implements the interface
var _ RepositoryProvider = (*CLIRepository)(nil)

// NewCLIRepository creates a new CLI-based repository provider
func NewCLIRepository() *CLIRepository {
	return &CLIRepository{}
}

// GetRepoInfo returns the repository name and current branch
func (r *CLIRepository) GetRepoInfo(dir string) (string, string, error) {
	return GetRepoInfo(dir)
}

// IsGitRepo checks if the directory is inside a git repository
func (r *CLIRepository) IsGitRepo(dir string) bool {
	return IsGitRepo(dir)
}

// GetGitRoot returns the root directory of the git repository
func (r *CLIRepository) GetGitRoot(dir string) (string, error) {
	return GetGitRoot(dir)
}

// StagedFiles returns the files staged for the next commit
func (r *CLIRepository) StagedFiles(dir string) ([]string, error) {
	return StagedFiles(dir)
}
