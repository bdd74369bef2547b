package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/waxworks/sidecut/internal/models"
)

// finalize moves the original side recordings into the archive next to the
// library and removes the split WAV intermediates, leaving only the tagged
// FLAC files in the album folder.
func (p *Pipeline) finalize(ctx context.Context, album *models.Album) error {
	dir := filepath.Join(p.cfg.Library.Path, album.FolderName)
	archiveDir := filepath.Join(p.cfg.Library.Path, "..", "archive", album.FolderName)

	originals, err := album.OriginalFiles()
	if err != nil {
		return err
	}

	if len(originals) > 0 {
		if err := os.MkdirAll(archiveDir, 0755); err != nil {
			return fmt.Errorf("creating archive folder: %w", err)
		}
	}

	for _, name := range originals {
		if err := ctx.Err(); err != nil {
			return err
		}
		src := filepath.Join(dir, name)
		dst := filepath.Join(archiveDir, name)
		if err := moveFile(src, dst); err != nil {
			if os.IsNotExist(err) {
				// Already archived on a previous interrupted run.
				log.Printf("[DEBUG] Original %s already gone, skipping", name)
				continue
			}
			return fmt.Errorf("archiving %s: %w", name, err)
		}
	}

	for _, t := range album.Tracks {
		if err := os.Remove(filepath.Join(dir, t.File)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing split intermediate %s: %w", t.File, err)
		}
	}

	fmt.Fprintf(p.out, "Archived %d originals of %s\n", len(originals), album.FolderName)
	return nil
}

// moveFile renames, falling back to copy+remove across filesystems
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	} else if os.IsNotExist(err) {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
