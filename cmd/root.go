package cmd

import (
	clientCmd "github.com/mcpward/mcpward/cmd/client"
	tokenCmd "github.com/mcpward/mcpward/cmd/token"
	"github.com/mcpward/mcpward/internal/bootstrap"
	"github.com/mcpward/mcpward/internal/config"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "mcpward",
	Short: "OAuth 2.1 authorization server for MCP endpoints.",
	Long:  `Mcpward issues and validates the OAuth and static bearer credentials that protect an MCP endpoint.`,
	Run: func(cmd *cobra.Command, args []string) {
		log.Info().Msg("Parsing config")
		var conf config.Config
		parseErr := viper.Unmarshal(&conf)
		HandleError(parseErr, "Failed to parse config")

		log.Info().Msg("Validating config")
		validate := validator.New()
		validateErr := validate.Struct(conf)
		HandleError(validateErr, "Invalid config")

		level, levelErr := zerolog.ParseLevel(conf.LogLevel)
		HandleError(levelErr, "Invalid log level")
		zerolog.SetGlobalLevel(level)

		app := bootstrap.NewBootstrapApp(conf)
		HandleError(app.Setup(), "Failed to start")
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to execute command")
	}
}

func HandleError(err error, msg string) {
	if err != nil {
		log.Fatal().Err(err).Msg(msg)
	}
}

func init() {
	rootCmd.AddCommand(clientCmd.ClientCmd())
	rootCmd.AddCommand(tokenCmd.TokenCmd())
	viper.AutomaticEnv()
	rootCmd.Flags().Int("port", 3000, "Port to run the server on.")
	rootCmd.Flags().String("address", "0.0.0.0", "Address to bind the server to.")
	rootCmd.Flags().String("app-url", "", "Public URL of the server, also used as the token issuer.")
	rootCmd.Flags().String("resource-url", "", "Identifier of the protected MCP resource, defaults to the app URL.")
	rootCmd.Flags().String("realm", "mcpward", "Realm advertised in WWW-Authenticate challenges.")
	rootCmd.Flags().String("database-path", "./mcpward.db", "Path to the sqlite database.")
	rootCmd.Flags().String("private-key-path", "./mcpward.key", "Path to the RSA private key used to sign tokens.")
	rootCmd.Flags().String("public-key-path", "./mcpward.key.pub", "Path to the RSA public key used to verify tokens.")
	rootCmd.Flags().String("users", "", "Comma separated list of users in the format id:username:role.")
	rootCmd.Flags().String("users-file", "", "Path to a file containing users in the format id:username:role, one per line.")
	rootCmd.Flags().Bool("disable-oauth", false, "Disable the OAuth flows and accept static tokens only.")
	rootCmd.Flags().Int("access-token-expiry", 3600, "Access token lifetime in seconds.")
	rootCmd.Flags().Int("refresh-token-expiry", 2592000, "Refresh token lifetime in seconds.")
	rootCmd.Flags().Int("code-expiry", 600, "Authorization code lifetime in seconds.")
	rootCmd.Flags().Int("clock-skew", 60, "Clock skew tolerance for token validation in seconds.")
	rootCmd.Flags().String("log-level", "info", "Log level.")
	rootCmd.Flags().String("trusted-proxies", "", "Comma separated list of trusted proxies.")
	viper.BindEnv("port", "PORT")
	viper.BindEnv("address", "ADDRESS")
	viper.BindEnv("app-url", "APP_URL")
	viper.BindEnv("resource-url", "RESOURCE_URL")
	viper.BindEnv("realm", "REALM")
	viper.BindEnv("database-path", "DATABASE_PATH")
	viper.BindEnv("private-key-path", "PRIVATE_KEY_PATH")
	viper.BindEnv("public-key-path", "PUBLIC_KEY_PATH")
	viper.BindEnv("users", "USERS")
	viper.BindEnv("users-file", "USERS_FILE")
	viper.BindEnv("disable-oauth", "DISABLE_OAUTH")
	viper.BindEnv("access-token-expiry", "ACCESS_TOKEN_EXPIRY")
	viper.BindEnv("refresh-token-expiry", "REFRESH_TOKEN_EXPIRY")
	viper.BindEnv("code-expiry", "CODE_EXPIRY")
	viper.BindEnv("clock-skew", "CLOCK_SKEW")
	viper.BindEnv("log-level", "LOG_LEVEL")
	viper.BindEnv("trusted-proxies", "TRUSTED_PROXIES")
	viper.BindPFlags(rootCmd.Flags())
}
