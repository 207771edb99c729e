// Package atlas is a client for the Atlas schema-migration CLI. It
// translates typed parameters into one subprocess invocation per
// operation and decodes the tool's JSON output into typed results.
//
// The client is synchronous and stateless apart from its working
// directory, which is not safe for concurrent mutation; callers that
// need concurrent runs should use one Client per working directory.
package atlas

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

const noUpdateNotifierEnv = "ATLAS_NO_UPDATE_NOTIFIER"

// Client invokes the atlas binary. The executable path is resolved once
// at construction; the working directory may be swapped per call scope
// via WithWorkDir.
type Client struct {
	execPath   string
	workingDir string
	env        map[string]string
	runner     Runner
	log        zerolog.Logger
}

// Option configures a Client at construction.
type Option func(*Client)

// WithRunner substitutes the process runner; used to test argument
// building and decoding without the atlas binary installed.
func WithRunner(r Runner) Option {
	return func(c *Client) { c.runner = r }
}

// WithLogger enables debug logging of built argument vectors and exits.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient resolves execName on the PATH and returns a client bound to
// workingDir. An empty workingDir means the subprocess inherits the
// parent's directory; a non-empty one must exist at construction time.
func NewClient(workingDir, execName string, opts ...Option) (*Client, error) {
	if execName == "" {
		return nil, &ConfigError{Reason: "exec name cannot be empty"}
	}
	path, err := exec.LookPath(execName)
	if err != nil {
		return nil, &ExecNotFoundError{Name: execName, Err: err}
	}
	if workingDir != "" {
		if _, err := os.Stat(workingDir); err != nil {
			return nil, &WorkingDirError{Dir: workingDir, Err: err}
		}
	}

	c := &Client{
		execPath:   path,
		workingDir: workingDir,
		runner:     execRunner{},
		log:        zerolog.Nop(),
	}
	// Suppress the tool's update check unless the caller's environment
	// already decides it.
	if _, ok := os.LookupEnv(noUpdateNotifierEnv); !ok {
		c.env = map[string]string{noUpdateNotifierEnv: "1"}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WithWorkDir runs fn with the working directory swapped to dir and
// restores the previous directory on every exit path.
func (c *Client) WithWorkDir(dir string, fn func(*Client) error) error {
	prev := c.workingDir
	c.workingDir = dir
	defer func() { c.workingDir = prev }()
	return fn(c)
}

// Login authenticates the atlas binary against its backend.
func (c *Client) Login(ctx context.Context, params LoginParams) error {
	if params.Token == "" {
		return &ValidationError{Field: "token", Reason: "cannot be empty"}
	}
	_, err := c.run(ctx, []string{"login", "--token", params.Token})
	return err
}

// Logout clears the atlas binary's stored credentials.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.run(ctx, []string{"logout"})
	return err
}

// MigratePush pushes a migration directory to the registry and returns
// the tool's textual output (the directory's registry URL).
func (c *Client) MigratePush(ctx context.Context, params MigratePushParams) (string, error) {
	if params.Name == "" {
		return "", &ValidationError{Field: "name", Reason: "cannot be empty"}
	}

	args := []string{"migrate", "push"}
	args = appendFlag(args, "--dev-url", params.DevURL)
	args = appendFlag(args, "--dir", params.DirURL)
	args = appendFlag(args, "--dir-format", params.DirFormat)
	args = appendFlag(args, "--lock-timeout", params.LockTimeout)
	if params.Context != nil {
		ctxJSON, err := json.Marshal(params.Context)
		if err != nil {
			return "", fmt.Errorf("encoding run context: %w", err)
		}
		args = append(args, "--config", string(ctxJSON))
	}
	args = appendFlag(args, "--config", params.ConfigURL)
	args = appendFlag(args, "--env", params.Env)
	if params.Tag.IsSet() {
		args = append(args, params.Name+":"+params.Tag.String())
	} else {
		args = append(args, params.Name)
	}

	return c.run(ctx, args)
}

// MigrateApply applies pending migrations and requires exactly one
// result entry.
func (c *Client) MigrateApply(ctx context.Context, params MigrateApplyParams) (MigrateApply, error) {
	return firstResult(c.MigrateApplySlice(ctx, params))
}

// MigrateApplySlice applies pending migrations and returns every result
// entry the tool reported.
func (c *Client) MigrateApplySlice(ctx context.Context, params MigrateApplyParams) ([]MigrateApply, error) {
	args := []string{"migrate", "apply", "--format", "{{ json . }}"}
	args = appendFlag(args, "--env", params.Env)
	args = appendFlag(args, "--config", params.ConfigURL)
	if params.Context != nil {
		ctxJSON, err := json.Marshal(params.Context)
		if err != nil {
			return nil, fmt.Errorf("encoding deploy run context: %w", err)
		}
		args = append(args, "--context", string(ctxJSON))
	}
	args = appendFlag(args, "--url", params.URL)
	args = appendFlag(args, "--dir", params.DirURL)
	if params.AllowDirty {
		args = append(args, "--allow-dirty")
	}
	if params.DryRun {
		args = append(args, "--dry-run")
	}
	args = appendFlag(args, "--revisions-schema", params.RevisionsSchema)
	args = appendFlag(args, "baseline", params.BaselineVersion)
	args = appendFlag(args, "--tx-mode", params.TxMode)
	if params.ExecOrder != "" {
		args = append(args, "--exec-order", string(params.ExecOrder))
	}
	if params.Amount > 0 {
		args = append(args, strconv.FormatUint(params.Amount, 10))
	}
	args = append(args, params.Vars.AsArgs()...)

	out, err := c.run(ctx, args)
	if err != nil {
		return nil, err
	}
	return decodeSlice[MigrateApply](out)
}

// MigrateDown reverts applied migrations and requires exactly one
// result entry.
func (c *Client) MigrateDown(ctx context.Context, params MigrateDownParams) (MigrateDown, error) {
	return firstResult(c.MigrateDownSlice(ctx, params))
}

// MigrateDownSlice reverts applied migrations and returns every result
// entry the tool reported.
func (c *Client) MigrateDownSlice(ctx context.Context, params MigrateDownParams) ([]MigrateDown, error) {
	args := []string{"migrate", "down", "--format", "{{ json .}}"}
	args = appendFlag(args, "--env", params.Env)
	args = appendFlag(args, "--config", params.ConfigURL)
	args = appendFlag(args, "--dev-url", params.DevURL)
	if params.Context != nil {
		ctxJSON, err := json.Marshal(params.Context)
		if err != nil {
			return nil, fmt.Errorf("encoding deploy run context: %w", err)
		}
		args = append(args, "--context", string(ctxJSON))
	}
	args = appendFlag(args, "--url", params.URL)
	args = appendFlag(args, "--dir", params.DirURL)
	args = appendFlag(args, "--revisions-schema", params.RevisionsSchema)
	args = appendFlag(args, "--to-version", params.ToVersion)
	args = appendFlag(args, "--to-tag", params.ToTag)
	if params.Amount > 0 {
		args = append(args, strconv.FormatUint(params.Amount, 10))
	}
	args = append(args, params.Vars.AsArgs()...)

	// TODO: capture fixtures from the real binary for the failure mode
	// where the error rides on stderr instead of the JSON body.
	out, err := c.run(ctx, args)
	if err != nil {
		return nil, err
	}
	return decodeSlice[MigrateDown](out)
}

// MigrateStatus reports the migration state of the target database.
func (c *Client) MigrateStatus(ctx context.Context, params MigrateStatusParams) (MigrateStatus, error) {
	args := []string{"migrate", "status", "--format", "{{ json . }}"}
	args = appendFlag(args, "--env", params.Env)
	args = appendFlag(args, "--config", params.ConfigURL)
	args = appendFlag(args, "--dir", params.DirURL)
	args = appendFlag(args, "--url", params.URL)
	args = appendFlag(args, "--revisions-schema", params.RevisionsSchema)
	args = append(args, params.Vars.AsArgs()...)

	out, err := c.run(ctx, args)
	if err != nil {
		return MigrateStatus{}, err
	}
	return decodeObject[MigrateStatus](out)
}

// MigrateLint analyzes migration files and returns the report tree.
func (c *Client) MigrateLint(ctx context.Context, params MigrateLintParams) (SummaryReport, error) {
	args := []string{"migrate", "lint", "--format", "{{ json . }}"}
	args = appendFlag(args, "--env", params.Env)
	args = appendFlag(args, "--config", params.ConfigURL)
	args = appendFlag(args, "--dev-url", params.DevURL)
	args = appendFlag(args, "--dir", params.DirURL)
	args = appendFlag(args, "--base", params.Base)
	if params.Latest > 0 {
		args = append(args, "--latest", strconv.FormatUint(params.Latest, 10))
	}
	if params.Context != nil {
		ctxJSON, err := json.Marshal(params.Context)
		if err != nil {
			return SummaryReport{}, fmt.Errorf("encoding run context: %w", err)
		}
		args = append(args, "--context", string(ctxJSON))
	}
	if params.Web {
		args = append(args, "--web")
	}
	args = append(args, params.Vars.AsArgs()...)

	out, err := c.run(ctx, args)
	if err != nil {
		return SummaryReport{}, err
	}
	return decodeObject[SummaryReport](out)
}

// SchemaApply applies a declarative schema change and requires exactly
// one result entry.
func (c *Client) SchemaApply(ctx context.Context, params SchemaApplyParams) (SchemaApply, error) {
	return firstResult(c.SchemaApplySlice(ctx, params))
}

// SchemaApplySlice applies a declarative schema change and returns every
// result entry the tool reported.
func (c *Client) SchemaApplySlice(ctx context.Context, params SchemaApplyParams) ([]SchemaApply, error) {
	args := []string{"schema", "apply", "--format", "{{ json .}}"}
	args = appendFlag(args, "--env", params.Env)
	args = appendFlag(args, "--config", params.ConfigURL)
	args = appendFlag(args, "--url", params.URL)
	args = appendFlag(args, "--to", params.To)
	if params.DryRun {
		args = append(args, "--dry-run")
	} else {
		args = append(args, "--auto-approve")
	}
	args = appendFlag(args, "--tx-mode", params.TxMode)
	args = appendFlag(args, "--dev-url", params.DevURL)
	if len(params.Schema) > 0 {
		args = append(args, "--schema", joinCSV(params.Schema))
	}
	if len(params.Exclude) > 0 {
		args = append(args, "--exclude", joinCSV(params.Exclude))
	}
	args = append(args, params.Vars.AsArgs()...)

	out, err := c.run(ctx, args)
	if err != nil {
		return nil, err
	}
	return decodeSlice[SchemaApply](out)
}

// SchemaInspect inspects a schema and returns the tool's raw output in
// the requested format.
func (c *Client) SchemaInspect(ctx context.Context, params SchemaInspectParams) (string, error) {
	args := []string{"schema", "inspect"}
	args = appendFlag(args, "--env", params.Env)
	args = appendFlag(args, "--config", params.ConfigURL)
	args = appendFlag(args, "--url", params.URL)
	args = appendFlag(args, "--dev-url", params.DevURL)
	if params.Format.IsSet() {
		if params.Format.String() == "sql" {
			args = append(args, "format", "{{ sql .}}")
		} else {
			args = append(args, "--format", params.Format.String())
		}
	}
	if len(params.Schema) > 0 {
		args = append(args, "--schema", joinCSV(params.Schema))
	}
	if len(params.Exclude) > 0 {
		args = append(args, "--exclude", joinCSV(params.Exclude))
	}

	return c.run(ctx, args)
}

func (c *Client) run(ctx context.Context, args []string) (string, error) {
	spec := CommandSpec{Path: c.execPath, Args: args, Dir: c.workingDir, Env: c.env}
	c.log.Debug().Str("exec", c.execPath).Str("dir", c.workingDir).Strs("args", args).Msg("running atlas")

	res, err := c.runner.Run(ctx, spec)
	if err != nil {
		return "", &ProcessError{Err: err}
	}
	if res.ExitCode != 0 {
		stderr, err := decodeStream(res.Stderr, "stderr")
		if err != nil {
			return "", err
		}
		c.log.Debug().Int("exit", res.ExitCode).Str("stderr", stderr).Msg("atlas failed")
		return "", &CommandError{ExitCode: res.ExitCode, Stderr: stderr}
	}
	return decodeStream(res.Stdout, "stdout")
}

func appendFlag(args []string, flag string, value NonEmptyString) []string {
	if value.IsSet() {
		args = append(args, flag, value.String())
	}
	return args
}

func decodeStream(b []byte, stream string) (string, error) {
	if !utf8.Valid(b) {
		return "", &EncodingError{Stream: stream}
	}
	return strings.TrimSpace(string(b)), nil
}

func decodeSlice[T any](out string) ([]T, error) {
	var items []T
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		return nil, &DecodeError{Raw: out, Err: err}
	}
	return items, nil
}

func decodeObject[T any](out string) (T, error) {
	var item T
	if err := json.Unmarshal([]byte(out), &item); err != nil {
		var zero T
		return zero, &DecodeError{Raw: out, Err: err}
	}
	return item, nil
}

func firstResult[T any](items []T, err error) (T, error) {
	if err != nil {
		var zero T
		return zero, err
	}
	if len(items) != 1 {
		var zero T
		return zero, &AmbiguousResultError{Count: len(items)}
	}
	return items[0], nil
}
