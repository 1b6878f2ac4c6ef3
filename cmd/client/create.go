package client

import (
	"strings"

	"github.com/mcpward/mcpward/internal/service"
	"github.com/mcpward/mcpward/internal/utils"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var databasePath string
var clientID string
var name string
var redirectURIs string
var confidential bool

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Register an OAuth client",
	Long:  `Register an OAuth client and print its generated secret. The secret is shown only once.`,
	Run: func(cmd *cobra.Command, args []string) {
		if clientID == "" || redirectURIs == "" {
			log.Fatal().Msg("Client id and redirect URIs cannot be empty")
		}

		if name == "" {
			name = clientID
		}

		uris := []string{}
		for _, uri := range strings.Split(redirectURIs, ",") {
			if strings.TrimSpace(uri) != "" {
				uris = append(uris, strings.TrimSpace(uri))
			}
		}

		secret, err := utils.GenerateRandomToken(24)

		if err != nil {
			log.Fatal().Err(err).Msg("Failed to generate client secret")
		}

		databaseService := service.NewDatabaseService(service.DatabaseServiceConfig{
			DatabasePath: databasePath,
		})

		if err := databaseService.Init(); err != nil {
			log.Fatal().Err(err).Msg("Failed to open database")
		}

		clientService := service.NewClientService(service.ClientServiceConfig{
			Database: databaseService.GetDatabase(),
		})

		if _, err := clientService.Register(clientID, secret, name, uris, confidential); err != nil {
			log.Fatal().Err(err).Msg("Failed to register client")
		}

		log.Info().Str("client_id", clientID).Str("client_secret", secret).Msg("Client created, store the secret now, it will not be shown again")
	},
}

func init() {
	createCmd.Flags().StringVar(&databasePath, "database-path", "./mcpward.db", "Path to the sqlite database")
	createCmd.Flags().StringVar(&clientID, "client-id", "", "Client id")
	createCmd.Flags().StringVar(&name, "name", "", "Human readable client name")
	createCmd.Flags().StringVar(&redirectURIs, "redirect-uris", "", "Comma separated list of redirect URIs")
	createCmd.Flags().BoolVar(&confidential, "confidential", false, "Mark the client as confidential")
}
