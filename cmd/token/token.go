package token

import (
	"github.com/spf13/cobra"
)

func TokenCmd() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Manage static user tokens",
	}

	tokenCmd.AddCommand(createCmd)
	tokenCmd.AddCommand(listCmd)
	tokenCmd.AddCommand(deleteCmd)

	return tokenCmd
}
