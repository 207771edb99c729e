package atlas

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
)

// CommandSpec describes a single invocation of the wrapped binary.
type CommandSpec struct {
	Path string
	Args []string
	// Dir is the subprocess working directory; empty means inherit.
	Dir string
	// Env is overlaid onto the parent environment.
	Env map[string]string
}

// Result is the captured outcome of one invocation.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Runner executes the wrapped binary. The default implementation uses
// os/exec; tests substitute a fake via WithRunner.
type Runner interface {
	Run(ctx context.Context, spec CommandSpec) (Result, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, spec CommandSpec) (Result, error) {
	cmd := exec.CommandContext(ctx, spec.Path, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = applyEnvOverlay(os.Environ(), spec.Env)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Result{}, err
		}
		return Result{
			ExitCode: exitErr.ExitCode(),
			Stdout:   stdout.Bytes(),
			Stderr:   stderr.Bytes(),
		}, nil
	}
	return Result{ExitCode: 0, Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, nil
}

func applyEnvOverlay(base []string, overlay map[string]string) []string {
	if len(overlay) == 0 {
		return append([]string(nil), base...)
	}
	out := make([]string, 0, len(base)+len(overlay))
	for _, kv := range base {
		i := strings.IndexByte(kv, '=')
		if i <= 0 {
			continue
		}
		if _, ok := overlay[kv[:i]]; ok {
			continue
		}
		out = append(out, kv)
	}
	for k, v := range overlay {
		out = append(out, k+"="+v)
	}
	return out
}
