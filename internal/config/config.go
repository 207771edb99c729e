// Package config loads the seshat project file, a CUE document holding
// defaults for the CLI: the atlas binary name, working directory,
// default environment, migration directory URL and template vars.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DefaultFile is the project file looked up in the current directory
// when no --project flag is given.
const DefaultFile = "seshat.cue"

// Project holds the optional defaults a project file may define. Empty
// fields mean "not set".
type Project struct {
	Exec       string
	WorkingDir string
	Env        string
	DirURL     string
	Vars       map[string]string
}

// Load parses and validates a project file.
func Load(path string) (Project, error) {
	v, err := compileCUE(path)
	if err != nil {
		return Project{}, err
	}

	var p Project
	if err := decodeStringField(v, "exec", &p.Exec); err != nil {
		return Project{}, err
	}
	if err := decodeStringField(v, "workingDir", &p.WorkingDir); err != nil {
		return Project{}, err
	}
	if err := decodeStringField(v, "env", &p.Env); err != nil {
		return Project{}, err
	}
	if err := decodeStringField(v, "dir", &p.DirURL); err != nil {
		return Project{}, err
	}

	vv := v.LookupPath(cue.ParsePath("vars"))
	if vv.Exists() {
		if vv.Kind() != cue.StructKind {
			return Project{}, errors.New("invalid type for field: vars (expected struct)")
		}
		if err := vv.Decode(&p.Vars); err != nil {
			return Project{}, fmt.Errorf("invalid value for vars: %v", err)
		}
	}
	return p, nil
}

func compileCUE(path string) (cue.Value, error) {
	if filepath.Ext(path) != ".cue" {
		return cue.Value{}, errors.New("unsupported project format: expected .cue")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to read project file: %w", err)
	}
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data)
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("invalid project file: %v", err)
	}
	return v, nil
}

func decodeStringField(v cue.Value, name string, dst *string) error {
	fv := v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return nil
	}
	if fv.Kind() != cue.StringKind {
		return fmt.Errorf("invalid type for field: %s (expected string)", name)
	}
	if err := fv.Decode(dst); err != nil {
		return fmt.Errorf("invalid value for %s: %v", name, err)
	}
	return nil
}
