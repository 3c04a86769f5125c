package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	serverURL  string
	username   string
	configPath string
	verbose    bool
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	_ = godotenv.Load()

	envServer := os.Getenv("SERVER_URL")
	if envServer == "" {
		envServer = "ws://localhost:8081/ws"
	}
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}
	envUser := os.Getenv("QUIZ_USERNAME")

	cmd := &cobra.Command{
		Use:   "quiz-client",
		Short: "Terminal client for the real-time quiz protocol",
	}

	cmd.PersistentFlags().StringVar(&serverURL, "server", envServer, "quiz server websocket URL")
	cmd.PersistentFlags().StringVar(&username, "username", envUser, "participant name (prompted when empty)")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	cmd.AddCommand(NewPlayCmd(&configPath, &serverURL, &username, &verbose))
	cmd.AddCommand(NewHistoryCmd(&configPath, &username))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	return cmd
}
