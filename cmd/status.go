package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/waxworks/sidecut/internal/database"
	"github.com/waxworks/sidecut/internal/models"
	"github.com/waxworks/sidecut/internal/services/library"
	"github.com/waxworks/sidecut/internal/ui"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the processing state of every album in the library",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	db, err := database.Initialize(appConfig.Database.Path, appConfig.Database.Verbose)
	if err != nil {
		return err
	}
	defer db.Close()

	albums := library.NewService(library.NewRepository(db), appConfig.Library.Path)

	known, err := albums.AllAlbums(context.Background())
	if err != nil {
		return err
	}
	byFolder := make(map[string]bool, len(known))
	for _, a := range known {
		byFolder[a.FolderName] = true
	}

	// Folders on disk that were never processed show up as raw.
	folders, err := albums.DiscoverFolders()
	if err != nil {
		return err
	}
	for _, f := range folders {
		if !byFolder[f] {
			artist, title := library.ParseFolderName(f)
			known = append(known, models.Album{
				FolderName: f,
				Status:     models.StatusRaw,
				Artist:     artist,
				Title:      title,
			})
		}
	}

	ui.PrintStatusTable(cmd.OutOrStdout(), known)
	return nil
}
