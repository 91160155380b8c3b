// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package customers

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sphereio/customer-import/cli/presenter"
	ctxUtils "github.com/sphereio/customer-import/cli/util/context"
)

var getOpts struct {
	Email string
}

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Look up customers by email",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runGetCommand(cmd)
	},
}

func init() {
	getCmd.Flags().StringVar(&getOpts.Email, "email", "", "Email of the customer")
	presenter.AddOutputFlags(getCmd)

	getCmd.MarkFlagRequired("email") //nolint:errcheck
}

func runGetCommand(cmd *cobra.Command) error {
	c, ok := ctxUtils.GetClientFromContext(cmd.Context())
	if !ok {
		return errors.New("failed to get client from context")
	}

	customers, err := c.FetchCustomerByEmail(cmd.Context(), getOpts.Email)
	if err != nil {
		return fmt.Errorf("failed to fetch customers: %w", err)
	}

	if presenter.GetOutputOptions(cmd).IsStructuredOutput() {
		return presenter.PrintMessage(cmd, "customers", "Customers", customers)
	}

	if len(customers) == 0 {
		presenter.Printf(cmd, "No customer found for %s\n", getOpts.Email)

		return nil
	}

	for _, customer := range customers {
		presenter.Printf(cmd, "%s\t%s\t%s %s\n", customer.ID, customer.Email, customer.FirstName, customer.LastName)

		if customer.CustomerGroup != nil {
			presenter.Printf(cmd, "  customer group: %s\n", customer.CustomerGroup.ID)
		}

		presenter.Printf(cmd, "  addresses: %d\n", len(customer.Addresses))
	}

	return nil
}
