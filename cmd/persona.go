package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cre8hub/persona-pipeline/internal/model"
)

// personaCmd represents the persona command
var personaCmd = &cobra.Command{
	Use:   "persona",
	Short: "Persona extraction operations",
	Long:  `Extract, save and inspect creator personas.`,
}

// personaExtractCmd runs the full extraction pipeline for a user
var personaExtractCmd = &cobra.Command{
	Use:   "extract [USER_ID] [CHANNEL_ID]",
	Short: "Extract a persona from a YouTube channel",
	Long: `List the channel's recent videos, warm the transcript cache, send the
transcripts to the inference service and save the extracted persona.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, channelID := args[0], args[1]
		maxVideos, _ := cmd.Flags().GetInt("max-videos")

		// Extraction spans API paging, batched caption fetches and the
		// inference call, so the timeout is generous
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		service, cleanup, err := newPersonaService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		doc, err := service.ExtractFromChannel(ctx, userID, channelID, maxVideos)
		if err != nil {
			return fmt.Errorf("failed to extract persona: %w", err)
		}

		result, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format result: %w", err)
		}

		fmt.Printf("Persona extracted successfully:\n%s\n", string(result))
		return nil
	},
}

// personaManualCmd saves a hand-written persona document
var personaManualCmd = &cobra.Command{
	Use:   "manual [USER_ID] [FILE]",
	Short: "Save a manually written persona",
	Long: `Read a persona document from a JSON file and save it for the user,
bypassing the extraction pipeline entirely.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, path := args[0], args[1]

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read persona file: %w", err)
		}

		var doc model.PersonaDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to parse persona file: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		service, cleanup, err := newPersonaService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		if _, err := service.SaveManualPersona(ctx, userID, &doc); err != nil {
			return fmt.Errorf("failed to save persona: %w", err)
		}

		fmt.Printf("Manual persona saved for user %s\n", userID)
		return nil
	},
}

// personaStatusCmd shows cache and extraction state for a user
var personaStatusCmd = &cobra.Command{
	Use:   "status [USER_ID]",
	Short: "Show extraction status for a user",
	Long:  `Display cached transcript counts and the last persona extraction for a user.`,
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
			return fmt.Errorf("failed to get extraction status: %w", err)
		}

		result, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format result: %w", err)
		}

		fmt.Println(string(result))
		return nil
	},
}

func init() {
	personaExtractCmd.Flags().Int("max-videos", 10, "Maximum number of recent videos to use")

	personaCmd.AddCommand(personaExtractCmd)
	personaCmd.AddCommand(personaManualCmd)
	personaCmd.AddCommand(personaStatusCmd)
	rootCmd.AddCommand(personaCmd)
}
