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

var createOpts struct {
	Name string
	Key  string
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a customer group",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCreateCommand(cmd)
	},
}

func init() {
	createCmd.Flags().StringVar(&createOpts.Name, "name", "", "Name of the customer group, as referenced by customerGroup in feeds")
	createCmd.Flags().StringVar(&createOpts.Key, "key", "", "Optional user defined key of the customer group")
	presenter.AddOutputFlags(createCmd)

	createCmd.MarkFlagRequired("name") //nolint:errcheck
}

func runCreateCommand(cmd *cobra.Command) error {
	c, ok := ctxUtils.GetClientFromContext(cmd.Context())
	if !ok {
		return errors.New("failed to get client from context")
	}

	group, err := c.CreateCustomerGroup(cmd.Context(), v1.CustomerGroupDraft{
		GroupName: createOpts.Name,
		Key:       createOpts.Key,
	})
	if err != nil {
		return fmt.Errorf("failed to create customer group: %w", err)
	}

	return presenter.PrintMessage(cmd, "customer group", "Created customer group", group.ID)
}
