package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeConfigNotFound, "missing file")
	assert.Equal(t, "CONFIG_NOT_FOUND: missing file", err.Error())

	wrapped := Wrap(fmt.Errorf("read failed"), ErrCodeConfigInvalid, "bad config")
	assert.Contains(t, wrapped.Error(), "CONFIG_INVALID: bad config")
	assert.Contains(t, wrapped.Error(), "read failed")
}

func TestIsAndGetCode(t *testing.T) {
	err := New(ErrCodeHookUnknownStage, "bad stage")
	assert.True(t, Is(err, ErrCodeHookUnknownStage))
	assert.False(t, Is(err, ErrCodeConfigNotFound))
	assert.Equal(t, ErrCodeHookUnknownStage, GetCode(err))

	// Wrapped in a plain fmt error, Is should follow Unwrap
	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, Is(wrapped, ErrCodeHookUnknownStage))
	assert.Equal(t, ErrCodeHookUnknownStage, GetCode(wrapped))

	assert.False(t, Is(nil, ErrCodeInternal))
	assert.Equal(t, ErrorCode(""), GetCode(nil))
}

func TestWithDetail(t *testing.T) {
	err := UnknownStage("pre-receive", "black")
	assert.Equal(t, "pre-receive", err.Details["stage"])
	assert.Equal(t, "black", err.Details["hook"])

	js := err.ToJSON()
	assert.Contains(t, js, "HOOK_UNKNOWN_STAGE")
	assert.Contains(t, js, "pre-receive")
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, ErrCodeConfigNotFound, ConfigNotFound("/tmp/x.yaml").Code)
	assert.Equal(t, ErrCodeAPIRequest, APIRequest("GET", "http://x", 500).Code)
	assert.Equal(t, ErrCodeBranchDelete, BranchDelete("feature/x", 409).Code)
	assert.Equal(t, ErrCodeRepoNotFound, RepoNotFound("svc").Code)
}
