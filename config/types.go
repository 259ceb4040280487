package config

import (
	"github.com/branchtools/sweep/logging"
)

// ConfigFileNames are the file names searched for, in order of preference.
var ConfigFileNames = []string{"sweep.yml", "sweep.yaml", "sweep.toml"}

// Config is the root configuration for the branch sweeper.
type Config struct {
	// Server holds the Bitbucket Server connection settings.
	Server ServerConfig `yaml:"server" toml:"server" jsonschema:"required,description=Bitbucket Server connection settings"`

	// Project is the Bitbucket project key whose repositories are swept.
	Project string `yaml:"project" toml:"project" jsonschema:"required,description=Bitbucket project key"`

	// Repositories restricts the sweep to the named repositories.
	// When empty, every repository of the project is swept.
	Repositories []string `yaml:"repositories,omitempty" toml:"repositories,omitempty" jsonschema:"description=Repositories to sweep; all project repositories when empty"`

	// BranchesToExclude lists branch name patterns that are never touched.
	// master and develop are always excluded regardless of this list.
	BranchesToExclude []string `yaml:"branches_to_exclude,omitempty" toml:"branches_to_exclude,omitempty" jsonschema:"description=Branch name patterns never considered for deletion"`

	// Thresholds maps a branch name prefix (the part before the first
	// slash) to its retention period in days. The 'default' key is
	// required and applies to unmatched prefixes.
	Thresholds map[string]int `yaml:"thresholds" toml:"thresholds" jsonschema:"required,description=Retention days per branch prefix; 'default' is required"`

	// Report configures where summaries and state land.
	Report ReportConfig `yaml:"report,omitempty" toml:"report,omitempty" jsonschema:"description=Report and state output settings"`

	// Logging configures log output.
	Logging logging.Config `yaml:"logging,omitempty" toml:"logging,omitempty" jsonschema:"description=Logging settings"`

	// Extensions holds tool-specific configuration sections decoded on
	// demand via UnmarshalExtension.
	Extensions map[string]interface{} `yaml:"extensions,omitempty" toml:"extensions,omitempty" jsonschema:"-"`
}

// ServerConfig holds Bitbucket Server connection settings. The password is
// usually supplied via the SWEEP_PASSWORD environment variable rather than
// the file.
type ServerConfig struct {
	URL      string `yaml:"url" toml:"url" jsonschema:"required,description=Base URL of the Bitbucket Server instance"`
	Username string `yaml:"username,omitempty" toml:"username,omitempty" jsonschema:"description=Account used for API calls"`
	Password string `yaml:"password,omitempty" toml:"password,omitempty" jsonschema:"description=Password or token; prefer the SWEEP_PASSWORD environment variable"`
}

// ReportConfig configures report and state output locations.
type ReportConfig struct {
	// Dir is where the HTML summary, per-repo logs, and the scan state
	// file are written.
	Dir string `yaml:"dir,omitempty" toml:"dir,omitempty" jsonschema:"description=Output directory (default 'results')"`
}

// Branches that are never candidates for deletion, independent of config.
var alwaysExcluded = []string{"master", "develop"}

// ExcludedPatterns returns the effective exclusion pattern list.
func (c *Config) ExcludedPatterns() []string {
	patterns := make([]string, 0, len(alwaysExcluded)+len(c.BranchesToExclude))
	patterns = append(patterns, alwaysExcluded...)
	patterns = append(patterns, c.BranchesToExclude...)
	return patterns
}

// ReportDir returns the configured output directory or its default.
func (c *Config) ReportDir() string {
	if c.Report.Dir != "" {
		return c.Report.Dir
	}
	return "results"
}

// StatePath returns the path of the scan state file.
func (c *Config) StatePath() string {
	return c.ReportDir() + "/state.json"
}
