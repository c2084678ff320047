package training

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes one training session, feeding each stdout line to onLine.
type Runner interface {
	Run(ctx context.Context, files []string, onLine func(string)) error
}

// ProcessRunner runs the training script as a subprocess. The day log paths
// are passed as arguments; the script reports progress over stdout using the
// PROGRESS:/RESULT: line protocol.
type ProcessRunner struct {
	python string
	script string
}

// NewProcessRunner creates a runner around the given interpreter and script.
func NewProcessRunner(python, script string) *ProcessRunner {
	return &ProcessRunner{python: python, script: script}
}

// Run executes the training process to completion.
func (r *ProcessRunner) Run(ctx context.Context, files []string, onLine func(string)) error {
	args := append([]string{r.script}, files...)
	cmd := exec.CommandContext(ctx, r.python, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to attach to training process: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start training process: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		onLine(strings.TrimSpace(scanner.Text()))
	}

	if err := cmd.Wait(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("training process failed: %w", err)
		}
		return fmt.Errorf("training process failed: %s", msg)
	}
	return nil
}
