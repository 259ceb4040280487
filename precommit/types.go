package precommit

// ConfigFileName is the file name the external pre-commit framework reads.
const ConfigFileName = ".pre-commit-config.yaml"

// LocalRepo is the sentinel repo URL for hooks defined inline in the
// configuration rather than fetched from a remote tool repository.
const LocalRepo = "local"

// Lifecycle stages a hook may be restricted to.
const (
	StagePreCommit      = "pre-commit"
	StagePreMergeCommit = "pre-merge-commit"
	StagePrePush        = "pre-push"
	StagePrepareCommit  = "prepare-commit-msg"
	StageCommitMsg      = "commit-msg"
	StagePostCheckout   = "post-checkout"
	StagePostCommit     = "post-commit"
	StagePostMerge      = "post-merge"
	StagePostRewrite    = "post-rewrite"
	StageManual         = "manual"
)

// legacyStages maps deprecated stage names still found in older
// configurations to their current equivalents.
var legacyStages = map[string]string{
	"commit":       StagePreCommit,
	"merge-commit": StagePreMergeCommit,
	"push":         StagePrePush,
}

// NormalizeStage resolves legacy stage aliases to their current names.
// Unknown names are returned unchanged.
func NormalizeStage(stage string) string {
	if current, ok := legacyStages[stage]; ok {
		return current
	}
	return stage
}

// KnownStages is the set of recognized lifecycle-stage names. A hook whose
// stages list names anything outside this set (after legacy alias
// normalization) fails validation.
var KnownStages = map[string]bool{
	StagePreCommit:      true,
	StagePreMergeCommit: true,
	StagePrePush:        true,
	StagePrepareCommit:  true,
	StageCommitMsg:      true,
	StagePostCheckout:   true,
	StagePostCommit:     true,
	StagePostMerge:      true,
	StagePostRewrite:    true,
	StageManual:         true,
}

// Config is the root of a .pre-commit-config.yaml file.
type Config struct {
	Repos []Repo `yaml:"repos" json:"repos" jsonschema:"required,description=Tool repositories providing hooks"`

	// DefaultStages restricts hooks without an explicit stages list.
	DefaultStages []string `yaml:"default_stages,omitempty" json:"default_stages,omitempty" jsonschema:"description=Default lifecycle stages for hooks that do not declare their own"`
}

// Repo is one tool repository entry. Rev pins the tool version; it is
// required for remote entries and meaningless for the 'local' sentinel.
type Repo struct {
	Repo  string `yaml:"repo" json:"repo" jsonschema:"required,description=Tool repository URL or the 'local' sentinel"`
	Rev   string `yaml:"rev,omitempty" json:"rev,omitempty" jsonschema:"description=Pinned version identifier for the tool repository"`
	Hooks []Hook `yaml:"hooks" json:"hooks" jsonschema:"required,description=Hooks to activate from this repository"`
}

// Hook activates one named check from its repository, optionally carrying
// arguments and lifecycle stage restrictions.
type Hook struct {
	ID     string   `yaml:"id" json:"id" jsonschema:"required,description=Hook identifier known to the referenced tool"`
	Name   string   `yaml:"name,omitempty" json:"name,omitempty" jsonschema:"description=Display name overriding the hook id"`
	Args   []string `yaml:"args,omitempty" json:"args,omitempty" jsonschema:"description=Additional arguments passed to the hook"`
	Stages []string `yaml:"stages,omitempty" json:"stages,omitempty" jsonschema:"description=Lifecycle stages the hook is restricted to"`

	// Entry and Language are only meaningful for hooks of the 'local' repo.
	Entry    string `yaml:"entry,omitempty" json:"entry,omitempty" jsonschema:"description=Command to run (local hooks only)"`
	Language string `yaml:"language,omitempty" json:"language,omitempty" jsonschema:"description=Hook implementation language (local hooks only)"`
	Files    string `yaml:"files,omitempty" json:"files,omitempty" jsonschema:"description=File pattern restricting which files the hook sees"`
}

// IsLocal reports whether the entry defines inline hooks.
func (r *Repo) IsLocal() bool {
	return r.Repo == LocalRepo
}

// RunsAtStage reports whether the hook is eligible at the given stage,
// falling back to defaultStages when the hook has no stages of its own.
// A hook with no stage restriction anywhere runs at every stage.
func (h *Hook) RunsAtStage(stage string, defaultStages []string) bool {
	stages := h.Stages
	if len(stages) == 0 {
		stages = defaultStages
	}
	if len(stages) == 0 {
		return true
	}
	stage = NormalizeStage(stage)
	for _, s := range stages {
		if NormalizeStage(s) == stage {
			return true
		}
	}
	return false
}

// DisplayName returns the hook's name, falling back to its id.
func (h *Hook) DisplayName() string {
	if h.Name != "" {
		return h.Name
	}
	return h.ID
}
