// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

// Package presenter writes command output. Results go to stdout, progress
// and diagnostics to stderr when a structured format is selected.
package presenter

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Print writes to stdout.
func Print(cmd *cobra.Command, args ...any) {
	_, _ = fmt.Fprint(cmd.OutOrStdout(), args...)
}

// Println writes to stdout with a newline.
func Println(cmd *cobra.Command, args ...any) {
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), args...)
}

// Printf writes formatted output to stdout.
func Printf(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

// PrintSmartf writes progress messages to stdout for human output and to
// stderr otherwise, so that json and jsonl output stays parseable.
func PrintSmartf(cmd *cobra.Command, format string, args ...any) {
	if GetOutputOptions(cmd).IsStructuredOutput() {
		Errorf(cmd, format, args...)

		return
	}

	Printf(cmd, format, args...)
}

// Error writes to stderr.
func Error(cmd *cobra.Command, args ...any) {
	_, _ = fmt.Fprint(cmd.ErrOrStderr(), args...)
}

// Errorf writes formatted output to stderr.
func Errorf(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), format, args...)
}
