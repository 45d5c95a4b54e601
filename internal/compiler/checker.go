// Package compiler validates Rust snippets. The canonical implementation
// shells out to rustc in library mode; a lexical heuristic variant exists
// for environments without a toolchain.
package compiler

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/Devik-code/rust-ai-auditor/internal/apperr"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckResult is the verdict of one compile attempt. Diagnostic is the
// compiler's full stderr when Valid is false; truncation for display is
// the stats layer's concern, not this one's.
type CheckResult struct {
	Valid      bool
	Diagnostic string
}

// Checker validates one source snippet. Implementations must be safe for
// concurrent use: nothing one check touches may be visible to another.
type Checker interface {
	Check(ctx context.Context, source string) (CheckResult, error)
	// Probe asks the toolchain for its version. Advisory: used once at
	// startup; a failure is logged, not fatal.
	Probe(ctx context.Context) (string, error)
}

// RunResult is the observable outcome of a finished process.
type RunResult struct {
	ExitOK bool
	Stdout string
	Stderr string
}

// RunFunc launches a process and waits for it. A non-zero exit is a
// normal RunResult, not an error; the error return means the process
// could not be run at all.
type RunFunc func(ctx context.Context, name string, args ...string) (RunResult, error)

func runCommand(ctx context.Context, name string, args ...string) (RunResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil && ctx.Err() != nil {
		// Killed by the deadline: the snippet's validity was never
		// determined, so this is not a compile verdict.
		return RunResult{}, ctx.Err()
	}
	res := RunResult{
		ExitOK: err == nil,
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		// Launch failure (binary missing, ctx done before start, ...).
		return RunResult{}, err
	}
	return res, nil
}

// RustcChecker compiles snippets with the external rustc binary.
type RustcChecker struct {
	bin        string
	scratchDir string
	timeout    time.Duration
	run        RunFunc
	log        *zap.Logger
}

func NewRustcChecker(bin, scratchDir string, timeout time.Duration, log *zap.Logger) *RustcChecker {
	if bin == "" {
		bin = "rustc"
	}
	if scratchDir == "" {
		scratchDir = os.TempDir()
	}
	return &RustcChecker{
		bin:        bin,
		scratchDir: scratchDir,
		timeout:    timeout,
		run:        runCommand,
		log:        log,
	}
}

// WithRunFunc substitutes the process capability; tests use this to avoid
// needing a real toolchain.
func (c *RustcChecker) WithRunFunc(run RunFunc) *RustcChecker {
	c.run = run
	return c
}

// Check writes the source into a scratch directory unique to this
// invocation, compiles it with --crate-type lib (no fn main required),
// and removes the directory on every exit path. Concurrent checks never
// share a path.
func (c *RustcChecker) Check(ctx context.Context, source string) (CheckResult, error) {
	dir := filepath.Join(c.scratchDir, "audit-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return CheckResult{}, apperr.Toolchain(err, "create scratch dir")
	}
	defer os.RemoveAll(dir) // best-effort, artifacts included

	srcPath := filepath.Join(dir, "snippet.rs")
	if err := os.WriteFile(srcPath, []byte(source), 0o600); err != nil {
		return CheckResult{}, apperr.Toolchain(err, "write snippet")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	res, err := c.run(ctx, c.bin, "--crate-type", "lib", "--out-dir", dir, srcPath)
	if err != nil {
		return CheckResult{}, apperr.Toolchain(err, "invoke "+c.bin)
	}

	if res.ExitOK {
		c.log.Debug("snippet compiled", zap.String("scratch", dir))
		return CheckResult{Valid: true}, nil
	}

	c.log.Debug("snippet rejected", zap.String("scratch", dir), zap.Int("stderr_bytes", len(res.Stderr)))
	return CheckResult{Valid: false, Diagnostic: res.Stderr}, nil
}

func (c *RustcChecker) Probe(ctx context.Context) (string, error) {
	res, err := c.run(ctx, c.bin, "--version")
	if err != nil {
		return "", apperr.Toolchain(err, "invoke "+c.bin)
	}
	if !res.ExitOK {
		return "", apperr.Toolchain(errors.New(strings.TrimSpace(res.Stderr)), c.bin+" --version failed")
	}
	return strings.TrimSpace(res.Stdout), nil
}
