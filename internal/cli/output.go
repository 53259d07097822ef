// Package cli implements the JSON contract shared by the visionkit
// commands: exactly one JSON line on stdout, errors as {"error": ...}
// with exit code 1. Logs and progress go to stderr so orchestrators can
// always parse stdout.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type errorLine struct {
	Error string `json:"error"`
}

// Emit writes v as a single JSON line on stdout.
func Emit(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		Fail(fmt.Errorf("failed to serialize result: %w", err))
	}
	fmt.Println(string(data))
}

// Fail writes the error as a JSON line on stdout and exits with code 1.
func Fail(err error) {
	data, merr := json.Marshal(errorLine{Error: err.Error()})
	if merr != nil {
		fmt.Println(`{"error": "internal error"}`)
		os.Exit(1)
	}
	fmt.Println(string(data))
	os.Exit(1)
}

// Run executes the root command under the JSON contract. Commands must
// set SilenceErrors and SilenceUsage so cobra does not write competing
// output.
func Run(root *cobra.Command) {
	if err := root.Execute(); err != nil {
		Fail(err)
	}
}
