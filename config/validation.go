package config

import (
	"fmt"
	"net/url"
	"regexp"

	"github.com/branchtools/sweep/errors"
)

var projectKeyRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return errors.New(errors.ErrCodeConfigValidation, "server.url cannot be empty")
	}
	parsed, err := url.Parse(c.Server.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return errors.New(errors.ErrCodeConfigValidation, fmt.Sprintf("server.url is not a valid URL: %s", c.Server.URL)).
			WithDetail("url", c.Server.URL)
	}

	if c.Project == "" {
		return errors.New(errors.ErrCodeConfigValidation, "project cannot be empty")
	}
	if !projectKeyRegex.MatchString(c.Project) {
		return errors.New(errors.ErrCodeConfigValidation, "project key must start with a letter and contain only letters, numbers, underscores, and hyphens").
			WithDetail("project", c.Project)
	}

	if err := validateThresholds(c.Thresholds); err != nil {
		return err
	}

	for _, pattern := range c.BranchesToExclude {
		if pattern == "" {
			return errors.New(errors.ErrCodeConfigValidation, "branches_to_exclude cannot contain empty patterns")
		}
	}

	return nil
}

func validateThresholds(thresholds map[string]int) error {
	if len(thresholds) == 0 {
		return errors.New(errors.ErrCodeConfigValidation, "thresholds cannot be empty")
	}
	if _, ok := thresholds["default"]; !ok {
		return errors.New(errors.ErrCodeConfigValidation, "thresholds must define a 'default' entry")
	}
	for prefix, days := range thresholds {
		if days <= 0 {
			return errors.New(errors.ErrCodeConfigValidation, fmt.Sprintf("threshold for '%s' must be positive", prefix)).
				WithDetail("prefix", prefix).
				WithDetail("days", days)
		}
	}
	return nil
}
