package client

import (
	"github.com/spf13/cobra"
)

func ClientCmd() *cobra.Command {
	clientCmd := &cobra.Command{
		Use:   "client",
		Short: "Manage OAuth clients",
	}

	clientCmd.AddCommand(createCmd)
	clientCmd.AddCommand(listCmd)

	return clientCmd
}
