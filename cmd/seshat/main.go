package main

import (
	"errors"
	"os"
	"strings"

	"github.com/flarebyte/seshat/atlas"
	"github.com/flarebyte/seshat/cmd/seshat/root"
)

func main() {
	if err := root.Execute(os.Args[1:]); err != nil {
		// Print a short, single-line error to stderr on failures.
		// Do not print usage or stack traces.
		msg := strings.Join(strings.Fields(err.Error()), " ")
		if msg == "" {
			msg = "error"
		}
		_, _ = os.Stderr.WriteString(msg + "\n")
		code := 1
		var cmdErr *atlas.CommandError
		if errors.As(err, &cmdErr) && cmdErr.ExitCode != 0 {
			code = cmdErr.ExitCode
		}
		os.Exit(code)
	}
}
