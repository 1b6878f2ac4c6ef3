package token

import (
	"time"

	"github.com/mcpward/mcpward/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var listDatabasePath string
var listUserID string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List static tokens",
	Run: func(cmd *cobra.Command, args []string) {
		databaseService := service.NewDatabaseService(service.DatabaseServiceConfig{
			DatabasePath: listDatabasePath,
		})

		if err := databaseService.Init(); err != nil {
			log.Fatal().Err(err).Msg("Failed to open database")
		}

		staticTokenService := service.NewStaticTokenService(service.StaticTokenServiceConfig{
			Database: databaseService.GetDatabase(),
		})

		tokens, err := staticTokenService.List(listUserID)

		if err != nil {
			log.Fatal().Err(err).Msg("Failed to list static tokens")
		}

		if len(tokens) == 0 {
			log.Info().Msg("No static tokens found")
			return
		}

		for _, token := range tokens {
			event := log.Info().Str("user_id", token.UserID).Str("label", token.Label).Str("token_hash", token.TokenHash)

			if token.ExpiresAt != nil {
				event = event.Str("expires_at", time.Unix(*token.ExpiresAt, 0).Format(time.RFC3339))
			}

			if token.LastUsedAt != nil {
				event = event.Str("last_used_at", time.Unix(*token.LastUsedAt, 0).Format(time.RFC3339))
			}

			event.Msg("Token")
		}
	},
}

func init() {
	listCmd.Flags().StringVar(&listDatabasePath, "database-path", "./mcpward.db", "Path to the sqlite database")
	listCmd.Flags().StringVar(&listUserID, "user-id", "", "Only list tokens belonging to this user")
}
