package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cre8hub/persona-pipeline/internal/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration settings",
	Long:  `Manage configuration settings for persona-pipeline.`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init [DATABASE_URL]",
	Short: "Initialize configuration file",
	Long:  `Create a new configuration file with database and cache connection settings.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var databaseURL string
		if len(args) > 0 {
			databaseURL = args[0]
		}
		redisURL, _ := cmd.Flags().GetString("redis-url")

		if err := config.InitConfig(databaseURL, redisURL); err != nil {
			return err
		}

		configPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		fmt.Printf("Created configuration file: %s\n", configPath)
		fmt.Println("Please edit the connection URLs and the YouTube API key in this file.")

		return nil
	},
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration file path and settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration file: %s\n\n", configPath)

		// Load and display current config
		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		fmt.Printf("DATABASE_URL: %s\n", cfg.DatabaseURL)
		fmt.Printf("REDIS_URL: %s\n", cfg.RedisURL)
		fmt.Printf("AI_GATEWAY_URL: %s\n", cfg.AIGatewayURL)
		if cfg.YouTubeAPIKey != "" {
			fmt.Println("YOUTUBE_API_KEY: (set)")
		} else {
			fmt.Println("YOUTUBE_API_KEY: (not set)")
		}

		return nil
	},
}

func init() {
	configInitCmd.Flags().String("redis-url", "", "Redis connection URL for the transcript cache")

	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
