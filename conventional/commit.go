package conventional

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Commit represents a parsed conventional commit message.
type Commit struct {
	Type       string
	Scope      string
	Subject    string
	Body       string
	IsBreaking bool
}

// AllowedTypes are the commit types the convention accepts.
var AllowedTypes = map[string]bool{
	"feat":     true,
	"fix":      true,
	"perf":     true,
	"refactor": true,
	"docs":     true,
	"style":    true,
	"test":     true,
	"build":    true,
	"ci":       true,
	"chore":    true,
	"revert":   true,
}

// Regex to parse a conventional commit message.
// It captures: 1: type, 2: scope (optional), 3: breaking change indicator (!), 4: subject
var commitRegex = regexp.MustCompile(`^(\w+)(?:\(([^)]+)\))?(!?):\s(.*)$`)

// Parse parses a raw git commit message string into a Commit struct.
func Parse(message string) (*Commit, error) {
	lines := strings.SplitN(strings.TrimSpace(message), "\n", 2)
	header := lines[0]

	matches := commitRegex.FindStringSubmatch(header)
	if len(matches) < 5 {
		return nil, fmt.Errorf("invalid commit message format: %s", header)
	}

	commit := &Commit{
		Type:       strings.ToLower(matches[1]),
		Scope:      matches[2],
		IsBreaking: matches[3] == "!",
		Subject:    matches[4],
	}

	if len(lines) > 1 {
		bodyAndFooter := strings.TrimSpace(lines[1])
		if strings.Contains(bodyAndFooter, "BREAKING CHANGE:") || strings.Contains(bodyAndFooter, "BREAKING-CHANGE:") {
			commit.IsBreaking = true
		}
		commit.Body = bodyAndFooter
	}

	return commit, nil
}

// Validate checks a parsed commit against the convention: a recognized
// type and a non-empty subject that does not end with a period.
func (c *Commit) Validate() error {
	if !AllowedTypes[c.Type] {
		return fmt.Errorf("unknown commit type '%s'", c.Type)
	}
	if strings.TrimSpace(c.Subject) == "" {
		return fmt.Errorf("commit subject cannot be empty")
	}
	if strings.HasSuffix(c.Subject, ".") {
		return fmt.Errorf("commit subject must not end with a period")
	}
	return nil
}

// ValidateMessage parses and validates a raw commit message.
func ValidateMessage(message string) (*Commit, error) {
	commit, err := Parse(message)
	if err != nil {
		return nil, err
	}
	if err := commit.Validate(); err != nil {
		return nil, err
	}
	return commit, nil
}

// ValidateMessageFile validates the commit message stored in the file git
// hands to commit-msg hooks. Comment lines are stripped first.
func ValidateMessageFile(path string) (*Commit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read commit message file: %w", err)
	}

	var kept []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "#") {
			continue
		}
		kept = append(kept, line)
	}

	message := strings.TrimSpace(strings.Join(kept, "\n"))
	if message == "" {
		return nil, fmt.Errorf("commit message is empty")
	}

	return ValidateMessage(message)
}
