package token

import (
	"time"

	"github.com/mcpward/mcpward/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var databasePath string
var userID string
var label string
var expiresIn int

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a static token",
	Long:  `Create a static bearer token for a user. The plaintext token is shown only once.`,
	Run: func(cmd *cobra.Command, args []string) {
		if userID == "" || label == "" {
			log.Fatal().Msg("User id and label cannot be empty")
		}

		databaseService := service.NewDatabaseService(service.DatabaseServiceConfig{
			DatabasePath: databasePath,
		})

		if err := databaseService.Init(); err != nil {
			log.Fatal().Err(err).Msg("Failed to open database")
		}

		staticTokenService := service.NewStaticTokenService(service.StaticTokenServiceConfig{
			Database: databaseService.GetDatabase(),
		})

		var expiresAt *int64

		if expiresIn > 0 {
			expiry := time.Now().Add(time.Duration(expiresIn) * time.Second).Unix()
			expiresAt = &expiry
		}

		token, err := staticTokenService.Create(userID, label, expiresAt)

		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create static token")
		}

		log.Info().Str("user_id", userID).Str("token", token).Msg("Token created, store it now, it will not be shown again")
	},
}

func init() {
	createCmd.Flags().StringVar(&databasePath, "database-path", "./mcpward.db", "Path to the sqlite database")
	createCmd.Flags().StringVar(&userID, "user-id", "", "User the token belongs to")
	createCmd.Flags().StringVar(&label, "label", "", "Label describing what the token is for")
	createCmd.Flags().IntVar(&expiresIn, "expires-in", 0, "Token lifetime in seconds, 0 means no expiry")
}
