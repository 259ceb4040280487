package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// ProgressReporter reports concurrent repository scan progress
type ProgressReporter struct {
	mu       sync.Mutex
	out      io.Writer
	statuses map[string]string
	order    []string
	start    time.Time
}

// NewProgressReporter creates a new progress reporter
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{
		out:      os.Stdout,
		statuses: make(map[string]string),
		start:    time.Now(),
	}
}

// Update updates the status of a repository
func (p *ProgressReporter) Update(repository, status string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, seen := p.statuses[repository]; !seen {
		p.order = append(p.order, repository)
	}
	p.statuses[repository] = status

	symbol := "[.]"
	switch status {
	case "done":
		symbol = "[*]"
	case "failed":
		symbol = "[x]"
	case "scanning":
		symbol = "[~]"
	}

	fmt.Fprintf(p.out, "%s %s: %s\n", symbol, repository, status)
}

// Done prints the elapsed time for the whole operation
func (p *ProgressReporter) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.start).Round(time.Millisecond)
	fmt.Fprintf(p.out, "\nCompleted %d repositories in %s\n", len(p.order), elapsed)
}
