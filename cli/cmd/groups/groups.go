// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package groups

import (
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:   "groups",
	Short: "Customer group operations",
	Long: `Customer group operations.

This command group inspects and prepares the customer groups that imported
customers are assigned to:

- list:   List all customer groups of the project
- create: Create a customer group ahead of an import

Examples:

1. List customer groups as JSON:
   customer-import groups list --output json

2. Create a customer group:
   customer-import groups create --name b2b --key b2b
`,
}

func init() {
	Command.AddCommand(listCmd, createCmd)
}
