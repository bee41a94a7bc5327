package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rotaflow/rota/internal/cli"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage OCR provider settings",
		Long:  `Show or change the persisted OCR provider configuration.`,
	}

	cmd.AddCommand(showSettingsCmd())
	cmd.AddCommand(setSettingsCmd())

	return cmd
}

func showSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			settings, err := store.LoadSettings(ctx)
			if err != nil {
				return err
			}

			provider := settings.Provider
			if provider == "" {
				provider = "ocrspace (default)"
			}
			fmt.Println(cli.FormatTitle("OCR settings"))
			fmt.Printf("  Provider:  %s\n", provider)
			fmt.Printf("  API key:   %s\n", maskKey(settings.APIKey))
			fmt.Printf("  Endpoint:  %s\n", orDefault(settings.Endpoint, "(provider default)"))
			fmt.Printf("  Language:  %s\n", orDefault(settings.Language, "eng"))
			return nil
		},
	}
}

func setSettingsCmd() *cobra.Command {
	var (
		provider string
		apiKey   string
		endpoint string
		language string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			settings, err := store.LoadSettings(ctx)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("provider") {
				settings.Provider = provider
			}
			if cmd.Flags().Changed("api-key") {
				settings.APIKey = apiKey
			}
			if cmd.Flags().Changed("endpoint") {
				settings.Endpoint = endpoint
			}
			if cmd.Flags().Changed("language") {
				settings.Language = language
			}

			if err := store.SaveSettings(ctx, settings); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Settings saved"))
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "OCR provider (ocrspace, vision, tesseract, demo)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "provider API key")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "custom provider endpoint")
	cmd.Flags().StringVar(&language, "language", "", "OCR language code (e.g. eng, spa)")

	return cmd
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
