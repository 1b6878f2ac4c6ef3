package cmd

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck [app-url]",
	Short: "Perform a health check",
	Long:  `Use the health check endpoint to verify that the server is running and healthy.`,
	Run: func(cmd *cobra.Command, args []string) {
		appURL := "http://127.0.0.1:3000"

		if port := viper.GetString("PORT"); port != "" {
			appURL = "http://127.0.0.1:" + port
		}

		if len(args) > 0 {
			appURL = args[0]
		}

		log.Info().Str("appUrl", appURL).Msg("Performing health check")

		res, err := http.Get(appURL + "/api/health")
		HandleError(err, "Failed to reach the server")
		defer res.Body.Close()

		body, err := io.ReadAll(res.Body)
		HandleError(err, "Failed to read response")

		var health healthResponse
		HandleError(json.Unmarshal(body, &health), "Failed to parse response")

		if health.Status != "ok" {
			HandleError(errors.New(health.Message), "Server is unhealthy")
		}

		log.Info().Msg("Server is healthy")
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}
