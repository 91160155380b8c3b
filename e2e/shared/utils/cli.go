// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"bytes"
	"io"

	"github.com/onsi/gomega"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/sphereio/customer-import/cli/cmd"
)

// CLI runs customer-import commands in process.
type CLI struct {
	baseArgs []string
}

// NewCLI creates a CLI helper. baseArgs are appended to every command, e.g.
// the API URL and project key of the remote under test.
func NewCLI(baseArgs ...string) *CLI {
	return &CLI{baseArgs: baseArgs}
}

// Command starts building an invocation of the named command path.
func (c *CLI) Command(names ...string) *CommandBuilder {
	return &CommandBuilder{cli: c, args: names}
}

// CommandBuilder collects the arguments of a single invocation.
type CommandBuilder struct {
	cli   *CLI
	args  []string
	stdin io.Reader
}

// WithArgs appends args to the invocation.
func (b *CommandBuilder) WithArgs(args ...string) *CommandBuilder {
	b.args = append(b.args, args...)

	return b
}

// WithStdin feeds r to the command as standard input.
func (b *CommandBuilder) WithStdin(r io.Reader) *CommandBuilder {
	b.stdin = r

	return b
}

// Execute runs the command and returns its stdout.
func (b *CommandBuilder) Execute() (string, error) {
	ResetCLIState()

	var stdout, stderr bytes.Buffer

	cmd.RootCmd.SetOut(&stdout)
	cmd.RootCmd.SetErr(&stderr)
	cmd.RootCmd.SetIn(b.stdin)
	cmd.RootCmd.SetArgs(append(append([]string{}, b.args...), b.cli.baseArgs...))

	err := cmd.RootCmd.Execute()

	return stdout.String(), err
}

// ShouldSucceed runs the command and fails the test on error.
func (b *CommandBuilder) ShouldSucceed() string {
	output, err := b.Execute()
	gomega.ExpectWithOffset(1, err).NotTo(gomega.HaveOccurred(), "command failed with output: %s", output)

	return output
}

// ShouldFail runs the command, fails the test when it succeeds, and returns the error.
func (b *CommandBuilder) ShouldFail() error {
	output, err := b.Execute()
	gomega.ExpectWithOffset(1, err).To(gomega.HaveOccurred(), "command unexpectedly succeeded with output: %s", output)

	return err
}

// ResetCLIState restores every flag of the command tree to its default so
// invocations do not leak into each other.
func ResetCLIState() {
	resetFlags(cmd.RootCmd)
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if slice, ok := f.Value.(pflag.SliceValue); ok {
			_ = slice.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}

		f.Changed = false
	}

	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)

	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}
