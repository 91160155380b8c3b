// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package groups

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	v1 "github.com/sphereio/customer-import/api/v1"
	"github.com/sphereio/customer-import/cli/presenter"
	ctxUtils "github.com/sphereio/customer-import/cli/util/context"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all customer groups",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runListCommand(cmd)
	},
}

func init() {
	presenter.AddOutputFlags(listCmd)
}

func runListCommand(cmd *cobra.Command) error {
	c, ok := ctxUtils.GetClientFromContext(cmd.Context())
	if !ok {
		return errors.New("failed to get client from context")
	}

	var groups []v1.CustomerGroup

	err := c.ProcessCustomerGroups(cmd.Context(), func(page []v1.CustomerGroup) error {
		groups = append(groups, page...)

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to list customer groups: %w", err)
	}

	if presenter.GetOutputOptions(cmd).IsStructuredOutput() {
		return presenter.PrintMessage(cmd, "customer groups", "Customer groups", groups)
	}

	if len(groups) == 0 {
		presenter.Println(cmd, "No customer groups found")

		return nil
	}

	for _, group := range groups {
		presenter.Printf(cmd, "%s\t%s\n", group.ID, group.Name)
	}

	return nil
}
