package errors

import (
	"fmt"
	"os/exec"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *SweepError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *SweepError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// HookConfigNotFound creates a hook configuration not found error
func HookConfigNotFound(path string) *SweepError {
	return New(ErrCodeHookConfigNotFound, fmt.Sprintf("hook configuration not found: %s", path)).
		WithDetail("path", path)
}

// UnknownStage creates an unrecognized lifecycle stage error
func UnknownStage(stage string, hookID string) *SweepError {
	return New(ErrCodeHookUnknownStage, fmt.Sprintf("unrecognized stage '%s' for hook '%s'", stage, hookID)).
		WithDetail("stage", stage).
		WithDetail("hook", hookID)
}

// HookFailed creates a hook execution failure error
func HookFailed(hookID string, err error) *SweepError {
	sweepErr := Wrap(err, ErrCodeHookFailed, fmt.Sprintf("hook '%s' failed", hookID)).
		WithDetail("hook", hookID)

	if exitErr, ok := err.(*exec.ExitError); ok {
		sweepErr = sweepErr.WithDetail("exitCode", exitErr.ExitCode())
	}

	return sweepErr
}

// APIRequest creates a Bitbucket API request error
func APIRequest(method, url string, status int) *SweepError {
	return New(ErrCodeAPIRequest, fmt.Sprintf("%s %s returned status %d", method, url, status)).
		WithDetail("method", method).
		WithDetail("url", url).
		WithDetail("status", status)
}

// RepoNotFound creates a repository not found error
func RepoNotFound(repository string) *SweepError {
	return New(ErrCodeRepoNotFound, fmt.Sprintf("repository '%s' not found", repository)).
		WithDetail("repository", repository)
}

// BranchDelete creates a branch deletion failure error
func BranchDelete(branch string, status int) *SweepError {
	return New(ErrCodeBranchDelete, fmt.Sprintf("error deleting branch '%s', code: %d", branch, status)).
		WithDetail("branch", branch).
		WithDetail("status", status)
}

// CommandFailed creates a command execution failure error
func CommandFailed(cmd string, err error) *SweepError {
	sweepErr := Wrap(err, ErrCodeCommandFailed, fmt.Sprintf("command failed: %s", cmd)).
		WithDetail("command", cmd)

	// Extract exit code if available
	if exitErr, ok := err.(*exec.ExitError); ok {
		sweepErr = sweepErr.WithDetail("exitCode", exitErr.ExitCode())
	}

	return sweepErr
}
