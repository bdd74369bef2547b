package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/waxworks/sidecut/internal/database"
	"github.com/waxworks/sidecut/internal/pipeline"
	"github.com/waxworks/sidecut/internal/services/library"
	"github.com/waxworks/sidecut/internal/services/musicbrainz"
	"github.com/waxworks/sidecut/internal/ui"
	"github.com/waxworks/sidecut/pkg/flac"
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process [folder...]",
	Short: "Run album folders through the processing pipeline",
	Long: `Process walks each album folder through the remaining pipeline stages:

  raw        catalog lookup or manual metadata entry
  analyzed   track boundary detection and splitting
  split      FLAC conversion with tags
  converted  archiving of the original side captures

Without arguments every non-finished folder in the library is processed
in name order. Interrupted runs resume at the stage they stopped in.`,
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	db, err := database.Initialize(appConfig.Database.Path, appConfig.Database.Verbose)
	if err != nil {
		return err
	}
	defer db.Close()

	albums := library.NewService(library.NewRepository(db), appConfig.Library.Path)

	catalog := musicbrainz.NewClient(musicbrainz.Config{
		RequestsPerSecond: appConfig.MusicBrainz.RequestsPerSecond,
		Timeout:           appConfig.MusicBrainz.Timeout,
		UserAgent:         appConfig.MusicBrainz.UserAgent,
		BaseURL:           appConfig.MusicBrainz.BaseURL,
	})

	conv := flac.New(appConfig.FFmpeg.Path, appConfig.FFmpeg.Timeout)
	if err := conv.ValidateBinary(); err != nil {
		return err
	}

	prompter := ui.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	p := pipeline.New(appConfig, albums, catalog, conv, prompter, cmd.OutOrStdout())

	folders := args
	if len(folders) == 0 {
		folders, err = albums.DiscoverFolders()
		if err != nil {
			return fmt.Errorf("discovering library folders: %w", err)
		}
		if len(folders) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No album folders in %s\n", appConfig.Library.Path)
			return nil
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, folder := range folders {
		if err := p.Run(ctx, folder); err != nil {
			return err
		}
	}
	return nil
}
