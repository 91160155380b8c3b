// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sphereio/customer-import/cli/cmd/customers"
	"github.com/sphereio/customer-import/cli/cmd/groups"
	importcmd "github.com/sphereio/customer-import/cli/cmd/import"
	"github.com/sphereio/customer-import/cli/cmd/version"
	ctxUtils "github.com/sphereio/customer-import/cli/util/context"
	"github.com/sphereio/customer-import/client"
	"github.com/sphereio/customer-import/utils/logging"
)

// AnnotationSkipClient marks commands that run without a remote API client.
const AnnotationSkipClient = "customer-import/skip-client"

var RootCmd = &cobra.Command{
	Use:          "customer-import",
	Short:        "CLI tool to import customers into a commercetools project",
	Long:         ``,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if logLevel != "" {
			logging.SetLevel(logging.ParseLevel(logLevel))
		}

		if !needsClient(cmd) {
			return nil
		}

		// Set client via context for all requests
		c, err := client.New(cmd.Context(), client.WithConfig(clientConfig))
		if err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}

		closeClient()
		activeClient = c

		ctx := ctxUtils.SetClientForContext(cmd.Context(), c)
		cmd.SetContext(ctx)

		return nil
	},
}

// activeClient is the client of the running command, closed on finalize.
var activeClient *client.Client

func closeClient() {
	if activeClient == nil {
		return
	}

	// Errors during cleanup are not actionable.
	_ = activeClient.Close()
	activeClient = nil
}

// needsClient reports whether cmd talks to the remote API. Dry runs only
// validate the feed.
func needsClient(cmd *cobra.Command) bool {
	if _, skip := cmd.Annotations[AnnotationSkipClient]; skip {
		return false
	}

	if dryRun, err := cmd.Flags().GetBool("dry-run"); err == nil && dryRun {
		return false
	}

	return true
}

func init() {
	cobra.OnFinalize(closeClient)

	version.Command.Annotations = map[string]string{AnnotationSkipClient: "true"}

	RootCmd.AddCommand(
		// local commands
		version.Command,
		// import commands
		importcmd.Command,
		// lookup commands
		groups.Command,    // Contains: list
		customers.Command, // Contains: get
	)
}

func Run(ctx context.Context) error {
	if err := RootCmd.ExecuteContext(ctx); err != nil {
		return fmt.Errorf("failed to execute command: %w", err)
	}

	return nil
}
