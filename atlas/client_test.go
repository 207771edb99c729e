package atlas

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

type fakeRunner struct {
	specs []CommandSpec
	res   Result
	err   error
}

func (f *fakeRunner) Run(_ context.Context, spec CommandSpec) (Result, error) {
	f.specs = append(f.specs, spec)
	return f.res, f.err
}

func (f *fakeRunner) last(t *testing.T) CommandSpec {
	t.Helper()
	if len(f.specs) == 0 {
		t.Fatalf("runner was never invoked")
	}
	return f.specs[len(f.specs)-1]
}

// fakeBinary writes an executable file so that PATH-style lookup of a
// direct path succeeds without atlas installed.
func fakeBinary(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "atlas")
	if err := os.WriteFile(p, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}
	return p
}

func newTestClient(t *testing.T, r Runner) *Client {
	t.Helper()
	c, err := NewClient("", fakeBinary(t), WithRunner(r))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewClientEmptyExecName(t *testing.T) {
	_, err := NewClient("", "")
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestNewClientExecNotFound(t *testing.T) {
	_, err := NewClient("", "definitely-not-a-real-binary-20260830")
	var nfErr *ExecNotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("expected ExecNotFoundError, got %v", err)
	}
}

func TestNewClientMissingWorkingDir(t *testing.T) {
	bin := fakeBinary(t)
	_, err := NewClient(filepath.Join(t.TempDir(), "nope"), bin)
	var wdErr *WorkingDirError
	if !errors.As(err, &wdErr) {
		t.Fatalf("expected WorkingDirError, got %v", err)
	}
}

func TestUpdateNotifierSuppression(t *testing.T) {
	r := &fakeRunner{}
	c := newTestClient(t, r)
	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if got := r.last(t).Env[noUpdateNotifierEnv]; got != "1" {
		t.Fatalf("expected %s=1 in overlay, got %q", noUpdateNotifierEnv, got)
	}
}

func TestUpdateNotifierRespectsAmbientEnv(t *testing.T) {
	t.Setenv(noUpdateNotifierEnv, "0")
	r := &fakeRunner{}
	c := newTestClient(t, r)
	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok := r.last(t).Env[noUpdateNotifierEnv]; ok {
		t.Fatalf("overlay must not override ambient %s", noUpdateNotifierEnv)
	}
}

func TestLoginEmptyToken(t *testing.T) {
	r := &fakeRunner{}
	c := newTestClient(t, r)
	err := c.Login(context.Background(), LoginParams{})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(r.specs) != 0 {
		t.Fatalf("no process may be spawned on validation failure")
	}
}

func TestLoginArgs(t *testing.T) {
	r := &fakeRunner{}
	c := newTestClient(t, r)
	if err := c.Login(context.Background(), LoginParams{Token: "tok"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	want := []string{"login", "--token", "tok"}
	if got := r.last(t).Args; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected args\nwant: %v\n got: %v", want, got)
	}
}

func mustStr(t *testing.T, s string) NonEmptyString {
	t.Helper()
	v, err := NewNonEmptyString(s)
	if err != nil {
		t.Fatalf("non-empty string %q: %v", s, err)
	}
	return v
}

func TestMigrateApplyExampleArgs(t *testing.T) {
	r := &fakeRunner{res: Result{Stdout: []byte(`[{"Current":"v1","Target":"v2","Applied":[]}]`)}}
	c := newTestClient(t, r)

	got, err := c.MigrateApply(context.Background(), MigrateApplyParams{
		Env:    mustStr(t, "prod"),
		Amount: 5,
		DryRun: true,
	})
	if err != nil {
		t.Fatalf("migrate apply: %v", err)
	}
	want := []string{"migrate", "apply", "--format", "{{ json . }}", "--env", "prod", "--dry-run", "5"}
	if args := r.last(t).Args; !reflect.DeepEqual(args, want) {
		t.Fatalf("unexpected args\nwant: %v\n got: %v", want, args)
	}
	if got.Current != "v1" || got.Target != "v2" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestMigrateApplyFullArgOrder(t *testing.T) {
	r := &fakeRunner{res: Result{Stdout: []byte(`[{}]`)}}
	c := newTestClient(t, r)

	params := MigrateApplyParams{
		Env:             mustStr(t, "prod"),
		ConfigURL:       mustStr(t, "file://atlas.hcl"),
		Context:         &DeployRunContext{TriggerType: TriggerKubernetes, TriggerVersion: "v2.1"},
		URL:             mustStr(t, "postgres://db"),
		DirURL:          mustStr(t, "file://migrations"),
		AllowDirty:      true,
		DryRun:          true,
		RevisionsSchema: mustStr(t, "revs"),
		BaselineVersion: mustStr(t, "20230101"),
		TxMode:          mustStr(t, "all"),
		ExecOrder:       ExecOrderLinearSkip,
		Amount:          2,
		Vars:            Vars{"tenant": "acme"},
	}
	if _, err := c.MigrateApplySlice(context.Background(), params); err != nil {
		t.Fatalf("migrate apply: %v", err)
	}
	want := []string{
		"migrate", "apply", "--format", "{{ json . }}",
		"--env", "prod",
		"--config", "file://atlas.hcl",
		"--context", `{"trigger_type":"KUBERNETES","trigger_version":"v2.1"}`,
		"--url", "postgres://db",
		"--dir", "file://migrations",
		"--allow-dirty",
		"--dry-run",
		"--revisions-schema", "revs",
		"baseline", "20230101",
		"--tx-mode", "all",
		"--exec-order", "linear-skip",
		"2",
		"--var", "tenant=acme",
	}
	if got := r.last(t).Args; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected args\nwant: %v\n got: %v", want, got)
	}
}

func TestArgBuildingIsDeterministic(t *testing.T) {
	r := &fakeRunner{res: Result{Stdout: []byte(`[{}]`)}}
	c := newTestClient(t, r)
	params := MigrateApplyParams{Env: mustStr(t, "dev"), Amount: 1}
	for i := 0; i < 2; i++ {
		if _, err := c.MigrateApplySlice(context.Background(), params); err != nil {
			t.Fatalf("migrate apply: %v", err)
		}
	}
	if !reflect.DeepEqual(r.specs[0].Args, r.specs[1].Args) {
		t.Fatalf("identical params built different args: %v vs %v", r.specs[0].Args, r.specs[1].Args)
	}
}

func TestVarsEachAppearOnce(t *testing.T) {
	r := &fakeRunner{res: Result{Stdout: []byte(`[{}]`)}}
	c := newTestClient(t, r)
	params := MigrateApplyParams{Vars: Vars{"a": "1", "b": "2", "c": "3"}}
	if _, err := c.MigrateApplySlice(context.Background(), params); err != nil {
		t.Fatalf("migrate apply: %v", err)
	}
	args := r.last(t).Args
	for _, want := range []string{"a=1", "b=2", "c=3"} {
		n := 0
		for i, a := range args {
			if a == want {
				if i == 0 || args[i-1] != "--var" {
					t.Fatalf("%s not preceded by --var in %v", want, args)
				}
				n++
			}
		}
		if n != 1 {
			t.Fatalf("expected %s exactly once, found %d times in %v", want, n, args)
		}
	}
}

func TestMigrateApplyAmbiguousResult(t *testing.T) {
	for _, out := range []string{`[]`, `[{},{}]`} {
		r := &fakeRunner{res: Result{Stdout: []byte(out)}}
		c := newTestClient(t, r)
		_, err := c.MigrateApply(context.Background(), MigrateApplyParams{})
		var ambErr *AmbiguousResultError
		if !errors.As(err, &ambErr) {
			t.Fatalf("output %s: expected AmbiguousResultError, got %v", out, err)
		}
	}
}

func TestMigrateDownArgs(t *testing.T) {
	r := &fakeRunner{res: Result{Stdout: []byte(`[{"Current":"v3","Target":"v1","Total":2,"Status":"APPLIED"}]`)}}
	c := newTestClient(t, r)

	got, err := c.MigrateDown(context.Background(), MigrateDownParams{
		Env:       mustStr(t, "prod"),
		ToVersion: mustStr(t, "v1"),
		Amount:    2,
	})
	if err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	want := []string{"migrate", "down", "--format", "{{ json .}}", "--env", "prod", "--to-version", "v1", "2"}
	if args := r.last(t).Args; !reflect.DeepEqual(args, want) {
		t.Fatalf("unexpected args\nwant: %v\n got: %v", want, args)
	}
	if got.Total != 2 || got.Status != "APPLIED" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestMigratePushArgs(t *testing.T) {
	r := &fakeRunner{res: Result{Stdout: []byte("  registry://app/dir:v2  \n")}}
	c := newTestClient(t, r)

	out, err := c.MigratePush(context.Background(), MigratePushParams{
		Name:   "app",
		Tag:    mustStr(t, "v2"),
		DirURL: mustStr(t, "file://migrations"),
		Context: &RunContext{
			Repo:   "flarebyte/seshat",
			Branch: "main",
			Commit: "abc123",
		},
		Env: mustStr(t, "ci"),
	})
	if err != nil {
		t.Fatalf("migrate push: %v", err)
	}
	if out != "registry://app/dir:v2" {
		t.Fatalf("output not trimmed: %q", out)
	}
	args := r.last(t).Args
	want := []string{
		"migrate", "push",
		"--dir", "file://migrations",
		"--config", `{"repo":"flarebyte/seshat","path":"","branch":"main","commit":"abc123","url":"","username":"","userID":"","scmType":""}`,
		"--env", "ci",
		"app:v2",
	}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("unexpected args\nwant: %v\n got: %v", want, args)
	}
}

func TestMigratePushEmptyName(t *testing.T) {
	r := &fakeRunner{}
	c := newTestClient(t, r)
	_, err := c.MigratePush(context.Background(), MigratePushParams{})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSchemaApplyApproveFlag(t *testing.T) {
	r := &fakeRunner{res: Result{Stdout: []byte(`[{}]`)}}
	c := newTestClient(t, r)

	if _, err := c.SchemaApplySlice(context.Background(), SchemaApplyParams{DryRun: true}); err != nil {
		t.Fatalf("schema apply: %v", err)
	}
	want := []string{"schema", "apply", "--format", "{{ json .}}", "--dry-run"}
	if got := r.last(t).Args; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected dry-run args\nwant: %v\n got: %v", want, got)
	}

	if _, err := c.SchemaApplySlice(context.Background(), SchemaApplyParams{}); err != nil {
		t.Fatalf("schema apply: %v", err)
	}
	want = []string{"schema", "apply", "--format", "{{ json .}}", "--auto-approve"}
	if got := r.last(t).Args; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected auto-approve args\nwant: %v\n got: %v", want, got)
	}
}

func TestSchemaApplyCSVLists(t *testing.T) {
	r := &fakeRunner{res: Result{Stdout: []byte(`[{}]`)}}
	c := newTestClient(t, r)

	params := SchemaApplyParams{
		Schema:  []NonEmptyString{mustStr(t, "public"), mustStr(t, "audit")},
		Exclude: []NonEmptyString{mustStr(t, "tmp_*")},
	}
	if _, err := c.SchemaApplySlice(context.Background(), params); err != nil {
		t.Fatalf("schema apply: %v", err)
	}
	want := []string{
		"schema", "apply", "--format", "{{ json .}}",
		"--auto-approve",
		"--schema", "public,audit",
		"--exclude", "tmp_*",
	}
	if got := r.last(t).Args; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected args\nwant: %v\n got: %v", want, got)
	}
}

func TestSchemaInspectFormat(t *testing.T) {
	r := &fakeRunner{res: Result{Stdout: []byte("schema \"public\" {}\n")}}
	c := newTestClient(t, r)

	out, err := c.SchemaInspect(context.Background(), SchemaInspectParams{
		URL:    mustStr(t, "postgres://db"),
		Format: mustStr(t, "sql"),
	})
	if err != nil {
		t.Fatalf("schema inspect: %v", err)
	}
	if out != `schema "public" {}` {
		t.Fatalf("unexpected output: %q", out)
	}
	want := []string{"schema", "inspect", "--url", "postgres://db", "format", "{{ sql .}}"}
	if got := r.last(t).Args; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected sql args\nwant: %v\n got: %v", want, got)
	}

	if _, err := c.SchemaInspect(context.Background(), SchemaInspectParams{Format: mustStr(t, "json")}); err != nil {
		t.Fatalf("schema inspect: %v", err)
	}
	want = []string{"schema", "inspect", "--format", "json"}
	if got := r.last(t).Args; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected json args\nwant: %v\n got: %v", want, got)
	}
}

func TestMigrateStatusArgs(t *testing.T) {
	r := &fakeRunner{res: Result{Stdout: []byte(`{"Current":"v2","Next":"v3","Status":"PENDING"}`)}}
	c := newTestClient(t, r)

	got, err := c.MigrateStatus(context.Background(), MigrateStatusParams{
		Env:    mustStr(t, "prod"),
		DirURL: mustStr(t, "file://migrations"),
	})
	if err != nil {
		t.Fatalf("migrate status: %v", err)
	}
	want := []string{"migrate", "status", "--format", "{{ json . }}", "--env", "prod", "--dir", "file://migrations"}
	if args := r.last(t).Args; !reflect.DeepEqual(args, want) {
		t.Fatalf("unexpected args\nwant: %v\n got: %v", want, args)
	}
	if got.Status != "PENDING" || got.Next != "v3" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestMigrateLintArgs(t *testing.T) {
	r := &fakeRunner{res: Result{Stdout: []byte(`{"Env":{},"Schema":{}}`)}}
	c := newTestClient(t, r)

	_, err := c.MigrateLint(context.Background(), MigrateLintParams{
		DevURL: mustStr(t, "docker://postgres"),
		DirURL: mustStr(t, "file://migrations"),
		Latest: 3,
		Web:    true,
	})
	if err != nil {
		t.Fatalf("migrate lint: %v", err)
	}
	want := []string{
		"migrate", "lint", "--format", "{{ json . }}",
		"--dev-url", "docker://postgres",
		"--dir", "file://migrations",
		"--latest", "3",
		"--web",
	}
	if got := r.last(t).Args; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected args\nwant: %v\n got: %v", want, got)
	}
}

func TestCommandFailure(t *testing.T) {
	r := &fakeRunner{res: Result{ExitCode: 1, Stderr: []byte("  connection refused \n")}}
	c := newTestClient(t, r)
	_, err := c.MigrateApplySlice(context.Background(), MigrateApplyParams{})
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected CommandError, got %v", err)
	}
	if cmdErr.ExitCode != 1 || cmdErr.Stderr != "connection refused" {
		t.Fatalf("unexpected command error: %+v", cmdErr)
	}
}

func TestSpawnFailure(t *testing.T) {
	r := &fakeRunner{err: errors.New("fork failed")}
	c := newTestClient(t, r)
	err := c.Logout(context.Background())
	var pErr *ProcessError
	if !errors.As(err, &pErr) {
		t.Fatalf("expected ProcessError, got %v", err)
	}
}

func TestDecodeFailurePreservesRaw(t *testing.T) {
	r := &fakeRunner{res: Result{Stdout: []byte("not json at all")}}
	c := newTestClient(t, r)
	_, err := c.MigrateApplySlice(context.Background(), MigrateApplyParams{})
	var dErr *DecodeError
	if !errors.As(err, &dErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if dErr.Raw != "not json at all" {
		t.Fatalf("raw output not preserved: %q", dErr.Raw)
	}
}

func TestNonUTF8Stdout(t *testing.T) {
	r := &fakeRunner{res: Result{Stdout: []byte{0xff, 0xfe}}}
	c := newTestClient(t, r)
	_, err := c.SchemaInspect(context.Background(), SchemaInspectParams{})
	var eErr *EncodingError
	if !errors.As(err, &eErr) {
		t.Fatalf("expected EncodingError, got %v", err)
	}
	if eErr.Stream != "stdout" {
		t.Fatalf("unexpected stream: %q", eErr.Stream)
	}
}

func TestWithWorkDirRestoresOnError(t *testing.T) {
	r := &fakeRunner{}
	c := newTestClient(t, r)

	scoped := t.TempDir()
	failure := errors.New("boom")
	err := c.WithWorkDir(scoped, func(c *Client) error {
		if err := c.Logout(context.Background()); err != nil {
			return err
		}
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("expected wrapped failure, got %v", err)
	}
	if got := r.last(t).Dir; got != scoped {
		t.Fatalf("scoped call ran in %q, want %q", got, scoped)
	}

	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if got := r.last(t).Dir; got != "" {
		t.Fatalf("working dir not restored, got %q", got)
	}
}
