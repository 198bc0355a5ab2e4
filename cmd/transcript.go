package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// transcriptCmd represents the transcript command
var transcriptCmd = &cobra.Command{
	Use:   "transcript",
	Short: "Transcript cache operations",
	Long:  `Warm, inspect and clean up cached transcripts.`,
}

// transcriptWarmCmd pre-fetches transcripts into the cache
var transcriptWarmCmd = &cobra.Command{
	Use:   "warm [USER_ID] [CHANNEL_ID]",
	Short: "Warm the transcript cache for a channel",
	Long:  `Fetch transcripts for the channel's recent videos and store them in the cache.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, channelID := args[0], args[1]
		maxVideos, _ := cmd.Flags().GetInt("max-videos")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		service, cleanup, err := newPersonaService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		cached, err := service.WarmTranscripts(ctx, userID, channelID, maxVideos)
		if err != nil {
			return fmt.Errorf("failed to warm transcript cache: %w", err)
		}

		fmt.Printf("Cached %d transcript(s) for user %s\n", cached, userID)
		return nil
	},
}

// transcriptListCmd shows what is currently cached for a user
var transcriptListCmd = &cobra.Command{
	Use:   "list [USER_ID]",
	Short: "List cached transcripts for a user",
	Long:  `Display the video IDs and transcript lengths currently cached for a user.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := args[0]

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		service, cleanup, err := newPersonaService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		status, err := service.GetExtractionStatus(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to list cached transcripts: %w", err)
		}

		if !status.HasCachedTranscripts {
			fmt.Println("No cached transcripts found.")
			return nil
		}

		result, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format result: %w", err)
		}

		fmt.Println(string(result))
		return nil
	},
}

// transcriptCleanupCmd removes a user's cached transcripts
var transcriptCleanupCmd = &cobra.Command{
	Use:   "cleanup [USER_ID]",
	Short: "Delete cached transcripts for a user",
	Long:  `Delete every cached transcript belonging to the user so the next extraction starts fresh.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := args[0]

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		service, cleanup, err := newPersonaService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		deleted, err := service.CleanupTranscripts(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to clean up transcripts: %w", err)
		}

		fmt.Printf("Deleted %d cached transcript(s) for user %s\n", deleted, userID)
		return nil
	},
}

func init() {
	transcriptWarmCmd.Flags().Int("max-videos", 10, "Maximum number of recent videos to fetch")

	transcriptCmd.AddCommand(transcriptWarmCmd)
	transcriptCmd.AddCommand(transcriptListCmd)
	transcriptCmd.AddCommand(transcriptCleanupCmd)
	rootCmd.AddCommand(transcriptCmd)
}
