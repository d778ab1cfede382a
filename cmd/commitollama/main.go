// Package main is the entry point for the commitollama CLI.
// commitollama drafts conventional commit messages for staged changes using
// a model served by a local Ollama instance.
package main

import (
	"fmt"
	"os"

	"github.com/commitollama/commitollama/internal/cmd"
	apperrors "github.com/commitollama/commitollama/internal/pkg/errors"
)

// Version information - set via ldflags during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := cmd.NewRootCmd(version, commit, date)
	if err := rootCmd.Execute(); err != nil {
		switch {
		case apperrors.IsReported(err):
		case apperrors.IsVerbose():
			fmt.Fprint(os.Stderr, apperrors.FormatErrorVerbose(err))
		default:
			fmt.Fprintln(os.Stderr, apperrors.FormatError(err))
		}
		os.Exit(apperrors.GetExitCode(err))
	}
}
