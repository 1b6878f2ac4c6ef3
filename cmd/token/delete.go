package token

import (
	"github.com/mcpward/mcpward/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var deleteDatabasePath string
var deleteTokenHash string

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a static token",
	Run: func(cmd *cobra.Command, args []string) {
		if deleteTokenHash == "" {
			log.Fatal().Msg("Token hash cannot be empty")
		}

		databaseService := service.NewDatabaseService(service.DatabaseServiceConfig{
			DatabasePath: deleteDatabasePath,
		})

		if err := databaseService.Init(); err != nil {
			log.Fatal().Err(err).Msg("Failed to open database")
		}

		staticTokenService := service.NewStaticTokenService(service.StaticTokenServiceConfig{
			Database: databaseService.GetDatabase(),
		})

		if err := staticTokenService.Delete(deleteTokenHash); err != nil {
			log.Fatal().Err(err).Msg("Failed to delete static token")
		}

		log.Info().Str("token_hash", deleteTokenHash).Msg("Token deleted")
	},
}

func init() {
	deleteCmd.Flags().StringVar(&deleteDatabasePath, "database-path", "./mcpward.db", "Path to the sqlite database")
	deleteCmd.Flags().StringVar(&deleteTokenHash, "token-hash", "", "Hash of the token to delete")
}
