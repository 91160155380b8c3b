// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package customers

import (
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:   "customers",
	Short: "Customer operations",
	Long: `Customer operations.

- get: Look up customers by email, e.g. to check the result of an import

Examples:

1. Show the customer registered with an email:
   customer-import customers get --email max@example.com --output json
`,
}

func init() {
	Command.AddCommand(getCmd)
}
