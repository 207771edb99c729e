// Package common holds the persistent flags and helpers shared by every
// seshat subcommand: project-file loading, client construction, var
// parsing and machine-readable output.
package common

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/flarebyte/seshat/atlas"
	"github.com/flarebyte/seshat/internal/config"
)

var (
	flagProject string
	flagExec    string
	flagWorkDir string
	flagVerbose bool
	flagOutput  string
)

// RegisterPersistentFlags attaches the shared flags to the root command.
func RegisterPersistentFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&flagProject, "project", "", "path to a seshat.cue project file")
	pf.StringVar(&flagExec, "exec", "", `name or path of the atlas binary (default "atlas")`)
	pf.StringVar(&flagWorkDir, "workdir", "", "working directory for atlas invocations")
	pf.BoolVar(&flagVerbose, "verbose", false, "enable debug logging to stderr")
	pf.StringVar(&flagOutput, "output", "", "machine output format: json or yaml")
}

// Logger returns the CLI logger; silent unless --verbose is set.
func Logger() zerolog.Logger {
	level := zerolog.Disabled
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// Project loads the project file named by --project, or seshat.cue in
// the current directory if present.
func Project() (config.Project, error) {
	if flagProject != "" {
		return config.Load(flagProject)
	}
	if _, err := os.Stat(config.DefaultFile); err == nil {
		return config.Load(config.DefaultFile)
	}
	return config.Project{}, nil
}

// NewClient builds the atlas client from flags and the project file.
// Flags win over project-file values.
func NewClient() (*atlas.Client, config.Project, error) {
	p, err := Project()
	if err != nil {
		return nil, config.Project{}, err
	}
	execName := firstNonEmpty(flagExec, p.Exec, "atlas")
	workDir := firstNonEmpty(flagWorkDir, p.WorkingDir)
	c, err := atlas.NewClient(workDir, execName, atlas.WithLogger(Logger()))
	if err != nil {
		return nil, config.Project{}, err
	}
	return c, p, nil
}

// Optional converts a flag value into an optional string; empty means
// absent.
func Optional(s string) atlas.NonEmptyString {
	if s == "" {
		return atlas.NonEmptyString{}
	}
	v, _ := atlas.NewNonEmptyString(s)
	return v
}

// OptionalList converts repeated flag values, skipping empties.
func OptionalList(items []string) []atlas.NonEmptyString {
	out := make([]atlas.NonEmptyString, 0, len(items))
	for _, it := range items {
		if it == "" {
			continue
		}
		v, _ := atlas.NewNonEmptyString(it)
		out = append(out, v)
	}
	return out
}

// ParseVars merges vars from the project file, a YAML var file and
// repeated --var k=v flags, in that precedence order (later wins).
func ParseVars(pairs []string, file string, defaults map[string]string) (atlas.Vars, error) {
	vars := atlas.Vars{}
	for k, v := range defaults {
		vars[k] = v
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading var file: %w", err)
		}
		fileVars := map[string]string{}
		if err := yaml.Unmarshal(data, &fileVars); err != nil {
			return nil, fmt.Errorf("parsing var file %s: %w", file, err)
		}
		for k, v := range fileVars {
			vars[k] = v
		}
	}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid var %q: expected key=value", p)
		}
		vars[k] = v
	}
	if len(vars) == 0 {
		return nil, nil
	}
	return vars, nil
}

// MachineOutput reports whether --output requested a machine format.
func MachineOutput() bool { return flagOutput != "" }

// Render writes v to stdout in the format selected by --output.
func Render(v any) error {
	switch flagOutput {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("unsupported output format: %q", flagOutput)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
