package client

import (
	"github.com/mcpward/mcpward/internal/model"
	"github.com/mcpward/mcpward/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var listDatabasePath string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered OAuth clients",
	Run: func(cmd *cobra.Command, args []string) {
		databaseService := service.NewDatabaseService(service.DatabaseServiceConfig{
			DatabasePath: listDatabasePath,
		})

		if err := databaseService.Init(); err != nil {
			log.Fatal().Err(err).Msg("Failed to open database")
		}

		var clients []model.Client

		if err := databaseService.GetDatabase().Order("created_at").Find(&clients).Error; err != nil {
			log.Fatal().Err(err).Msg("Failed to list clients")
		}

		for _, client := range clients {
			log.Info().Str("client_id", client.ClientID).Str("name", client.Name).Str("redirect_uris", client.RedirectURIs).Bool("confidential", client.Confidential).Msg("Client")
		}
	},
}

func init() {
	listCmd.Flags().StringVar(&listDatabasePath, "database-path", "./mcpward.db", "Path to the sqlite database")
}
