package command

import (
	"context"
	"testing"
	"time"
)

func TestValidateHookID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid name", "black", false},
		{"valid with hyphen", "end-of-file-fixer", false},
		{"valid with dot", "check.yaml", false},
		{"valid with underscore", "my_hook", false},
		{"empty id", "", true},
		{"special characters", "hook@bad", true},
		{"shell metacharacter", "hook;rm", true},
		{"starts with hyphen", "-hook", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateHookID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateHookID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFileName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid path", "/path/to/file.txt", false},
		{"relative path", "relative/path.txt", false},
		{"directory traversal", "../etc/passwd", true},
		{"command injection semicolon", "file.txt; rm -rf /", true},
		{"command injection pipe", "file.txt | cat", true},
		{"command injection dollar", "$(whoami)", true},
		{"command injection backtick", "`whoami`", true},
		{"empty path", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFileName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateFileName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateGitRef(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"branch", "feature/login", false},
		{"tag", "v1.2.3", false},
		{"empty ref", "", true},
		{"injection", "main; rm -rf /", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateGitRef(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateGitRef(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestBuildRejectsEmptyName(t *testing.T) {
	sb := NewSafeBuilder()
	if _, err := sb.Build(context.Background(), ""); err == nil {
		t.Error("expected error for empty command name")
	}
}

func TestWithTimeoutCapped(t *testing.T) {
	sb := NewSafeBuilder()
	cmd, err := sb.Build(context.Background(), "echo", "ok")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	cmd = cmd.WithTimeout(time.Hour)
	if cmd.timeout != MaxTimeout {
		t.Errorf("timeout = %v, want capped at %v", cmd.timeout, MaxTimeout)
	}
}

func TestReleaseCancelsContext(t *testing.T) {
	sb := NewSafeBuilder()
	cmd, err := sb.Build(context.Background(), "echo", "ok")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	cmd.Release()
	if cmd.ctx.Err() == nil {
		t.Error("context still live after Release")
	}
	if runErr := cmd.Exec().Run(); runErr == nil {
		t.Error("expected execution to fail after Release")
	}
}

func TestWithTimeoutReplacesTimer(t *testing.T) {
	sb := NewSafeBuilder()
	cmd, err := sb.Build(context.Background(), "echo", "ok")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer cmd.Release()

	old := cmd.ctx
	cmd = cmd.WithTimeout(time.Minute)
	if old.Err() == nil {
		t.Error("previous context should be cancelled when the timeout is replaced")
	}
	if cmd.ctx.Err() != nil {
		t.Errorf("new context unexpectedly done: %v", cmd.ctx.Err())
	}
}

func TestValidateUnknownType(t *testing.T) {
	sb := NewSafeBuilder()
	if err := sb.Validate("nope", "x"); err == nil {
		t.Error("expected error for unknown validator type")
	}
}
