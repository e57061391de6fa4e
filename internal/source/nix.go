package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/nao1215/nixlicense/internal/model"
)

const (
	// DefaultCommand is the evaluator executable.
	DefaultCommand = "nix"

	// DefaultNamespace is the flake reference package identifiers are resolved in.
	DefaultNamespace = "nixpkgs"

	// licenseAttribute is appended to every identifier to select its license.
	licenseAttribute = ".meta.license"

	// waitDelay bounds how long a cancelled evaluator may keep its output
	// pipes open after being killed.
	waitDelay = time.Second
)

// Nix fetches license metadata by running `nix eval --json`.
//
// Only standard output is used to build the result. Standard error is kept
// for debug logging, and a non-zero exit status is ignored unless strict
// exit checking is enabled: an evaluator that fails but prints a valid
// object still produces a license.
type Nix struct {
	// command is the evaluator executable name or path.
	command string

	// namespace is the flake reference, e.g. "nixpkgs".
	namespace string

	// args are extra evaluator arguments placed after "eval".
	args []string

	// timeout bounds a single evaluation. Zero means no timeout.
	timeout time.Duration

	// strictExitStatus turns a non-zero exit status into an error.
	strictExitStatus bool

	logger *slog.Logger
}

// NixOption configures a Nix source.
type NixOption func(*Nix)

// WithCommand sets the evaluator executable.
func WithCommand(command string) NixOption {
	return func(n *Nix) {
		if command != "" {
			n.command = command
		}
	}
}

// WithNamespace sets the flake reference identifiers are resolved in.
func WithNamespace(namespace string) NixOption {
	return func(n *Nix) {
		if namespace != "" {
			n.namespace = namespace
		}
	}
}

// WithArgs adds extra evaluator arguments, for example
// "--extra-experimental-features", "nix-command flakes".
func WithArgs(args ...string) NixOption {
	return func(n *Nix) {
		n.args = append(n.args, args...)
	}
}

// WithTimeout bounds every evaluation. Zero disables the timeout.
func WithTimeout(timeout time.Duration) NixOption {
	return func(n *Nix) {
		n.timeout = timeout
	}
}

// WithStrictExitStatus makes a non-zero evaluator exit status an error
// even when standard output parses as a license.
func WithStrictExitStatus(strict bool) NixOption {
	return func(n *Nix) {
		n.strictExitStatus = strict
	}
}

// WithLogger sets the logger used for evaluator diagnostics.
func WithLogger(logger *slog.Logger) NixOption {
	return func(n *Nix) {
		n.logger = logger
	}
}

// NewNix creates a Nix source with the given options.
func NewNix(opts ...NixOption) *Nix {
	n := &Nix{
		command:   DefaultCommand,
		namespace: DefaultNamespace,
	}

	for _, opt := range opts {
		opt(n)
	}

	if n.logger == nil {
		n.logger = slog.Default()
	}

	return n
}

// Expression returns the evaluator expression for an identifier,
// e.g. "nixpkgs#hello.meta.license".
func (n *Nix) Expression(identifier string) string {
	return n.namespace + "#" + identifier + licenseAttribute
}

// Args returns the full argument list passed to the evaluator.
func (n *Nix) Args(identifier string) []string {
	args := make([]string, 0, len(n.args)+3)
	args = append(args, "eval")
	args = append(args, n.args...)
	return append(args, "--json", n.Expression(identifier))
}

// Fetch evaluates the license of identifier.
func (n *Nix) Fetch(ctx context.Context, identifier string) (model.License, error) {
	execCtx := ctx
	if n.timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	//nolint:gosec // G204: the evaluator command is operator configuration
	cmd := exec.CommandContext(execCtx, n.command, n.Args(identifier)...)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if ctx.Err() != nil {
		return model.License{}, ctx.Err()
	}
	if err != nil && execCtx.Err() != nil {
		return model.License{}, fmt.Errorf("evaluation of %q timed out after %v", identifier, n.timeout)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return model.License{}, fmt.Errorf("failed to run %s: %w", n.command, err)
		}

		n.logger.Debug("evaluator exited with non-zero status",
			"identifier", identifier,
			"exitCode", exitErr.ExitCode(),
			"stderr", stderr.String(),
		)

		if n.strictExitStatus {
			return model.License{}, fmt.Errorf("%w: %d", ErrNonZeroExit, exitErr.ExitCode())
		}
	}

	license, err := ParseOutput(stdout.Bytes())
	if err != nil {
		n.logger.Debug("unusable evaluator output",
			"identifier", identifier,
			"error", err,
			"stderr", stderr.String(),
		)
		return model.License{}, err
	}

	return license, nil
}
