package fuzzyhash

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"dupescan/internal/logging"
	"dupescan/internal/services"
)

// DefaultBinary is the executable invoked when no binary is configured.
const DefaultBinary = "ssdeep"

const stage = "fuzzy_hash"

// waitDelay bounds how long a killed subprocess may hold its output pipes.
const waitDelay = 2 * time.Second

// CLI runs the ssdeep executable for each call.
type CLI struct {
	binary  string
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a CLI hasher.
type Option func(*CLI)

// WithTimeout bounds every subprocess call. Zero disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(c *CLI) {
		if timeout >= 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *CLI) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCLI constructs a CLI hasher for binary.
func NewCLI(binary string, opts ...Option) *CLI {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = DefaultBinary
	}
	c := &CLI{
		binary:  binary,
		timeout: 30 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "fuzzyhash")
	return c
}

// Binary returns the configured executable.
func (c *CLI) Binary() string {
	return c.binary
}

// Compute runs `ssdeep -b <path>` and returns the parsed hash.
func (c *CLI) Compute(ctx context.Context, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", services.Wrap(services.ErrFuzzyHash, stage, "compute", "empty path", nil)
	}
	output, err := c.run(ctx, "compute", "-b", path)
	if err != nil {
		return "", err
	}
	hash, ok := ParseComputeOutput(output)
	if !ok {
		return "", services.Wrap(services.ErrFuzzyHash, stage, "compute",
			fmt.Sprintf("no hash in output for %s", path), nil)
	}
	c.logger.Debug("fuzzy hash computed", logging.String(logging.FieldPath, path))
	return hash, nil
}

// Compare runs `ssdeep -v <a> <b>` and returns the parsed score.
func (c *CLI) Compare(ctx context.Context, a, b string) (int, error) {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return 0, services.Wrap(services.ErrFuzzyHash, stage, "compare", "empty hash", nil)
	}
	output, err := c.run(ctx, "compare", "-v", a, b)
	if err != nil {
		return 0, err
	}
	score, ok := ParseCompareOutput(output)
	if !ok {
		return 0, services.Wrap(services.ErrFuzzyHash, stage, "compare", "malformed compare output", nil)
	}
	return score, nil
}

func (c *CLI) run(ctx context.Context, operation string, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(callCtx, c.binary, args...)
	cmd.WaitDelay = waitDelay
	output, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return "", services.Wrap(services.ErrFuzzyHash, stage, operation,
				fmt.Sprintf("%s timed out after %s", c.binary, c.timeout),
				fmt.Errorf("%w: %w", services.ErrTimeout, callCtx.Err()))
		}
		return "", services.Wrap(services.ErrFuzzyHash, stage, operation,
			strings.TrimSpace(string(output)), err)
	}
	return string(output), nil
}
