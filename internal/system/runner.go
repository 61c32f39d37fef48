package system

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Runner executes external commands. Provisioning logic depends on this
// interface so it can be exercised against a recording fake instead of a
// live host.
type Runner interface {
	// Run executes a command, streaming its output to the runner's writers.
	Run(ctx context.Context, name string, args ...string) error
	// RunEnv is Run with extra KEY=VALUE entries appended to the environment.
	RunEnv(ctx context.Context, env []string, name string, args ...string) error
	// Output executes a command and captures combined stdout/stderr. The
	// captured output is returned even when the command fails, so callers
	// can inspect status words from tools that exit non-zero by design.
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands on the local host via os/exec.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	return r.RunEnv(ctx, nil, name, args...)
}

func (r *ExecRunner) RunEnv(ctx context.Context, env []string, name string, args ...string) error {
	c := exec.CommandContext(ctx, name, args...)
	if len(env) > 0 {
		c.Env = append(c.Environ(), env...)
	}
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("%s: %w", commandLine(name, args), err)
	}
	return nil
}

func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	c := exec.CommandContext(ctx, name, args...)
	out, err := c.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("%s: %w\n%s", commandLine(name, args), err, out)
	}
	return string(out), nil
}

func commandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

// RequireTool fails when the named binary is not on PATH.
func RequireTool(name string) error {
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("missing required tool %q in PATH", name)
	}
	return nil
}

// LookupTool resolves the absolute path of a binary on PATH.
func LookupTool(name string) (string, error) {
	p, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("missing required tool %q in PATH", name)
	}
	return p, nil
}
