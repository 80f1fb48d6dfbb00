/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/medilearn/apiserver/internal/content"
	"github.com/medilearn/apiserver/internal/services"
	"github.com/medilearn/apiserver/internal/storage"
	"github.com/spf13/cobra"
)

// contentCmd represents the content command
var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Manage learning content",
}

var uploadDeckCmd = &cobra.Command{
	Use:   "upload-deck <file>",
	Short: "Validate a JSON flashcard deck and upload it to object storage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		st, err := storage.Open(cmd.Context(), cfg.Storage)
		if err != nil {
			return err
		}
		if st == nil {
			return errors.New("STORAGE_BACKEND is none; nothing to upload to")
		}
		defer st.Close()

		if err := st.EnsureBucket(cmd.Context()); err != nil {
			return fmt.Errorf("ensure bucket: %w", err)
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		catalog, err := content.LoadCatalog(cfg.Content.CatalogPath)
		if err != nil {
			return err
		}
		n, err := services.NewFlashcardService(st, cfg.Storage.DeckKey, catalog).Upload(cmd.Context(), f)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "uploaded %d cards to %s/%s\n", n, st.Bucket(), cfg.Storage.DeckKey)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(contentCmd)
	contentCmd.AddCommand(uploadDeckCmd)
}
