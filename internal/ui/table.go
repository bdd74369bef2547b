package ui

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/waxworks/sidecut/internal/analysis"
	"github.com/waxworks/sidecut/internal/models"
)

// PrintStatusTable writes a library overview, one album per row
func PrintStatusTable(w io.Writer, albums []models.Album) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FOLDER\tARTIST\tTITLE\tSTATUS\tTRACKS")
	for _, a := range albums {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
			a.FolderName, a.Artist, a.Title, a.Status, len(a.Tracks))
	}
	tw.Flush()
}

// PrintSplitPreview writes the planned track boundaries before extraction
func PrintSplitPreview(w io.Writer, segments []analysis.TrackSegment) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tSTART\tEND\tLENGTH\tSOURCE")
	for _, seg := range segments {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			seg.TrackNumber, seg.TrackName,
			formatTime(seg.StartSec), formatTime(seg.EndSec),
			formatTime(seg.Duration()), seg.Source.Path())
	}
	tw.Flush()
}

// PrintShortSegments lists segments flagged as suspiciously short
func PrintShortSegments(w io.Writer, segments []analysis.TrackSegment, flagged []int) {
	if len(flagged) == 0 {
		return
	}
	fmt.Fprintln(w, "Suspiciously short segments:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, idx := range flagged {
		seg := segments[idx]
		fmt.Fprintf(tw, "  %d\t%s\t%s\n",
			seg.TrackNumber, seg.TrackName, formatTime(seg.Duration()))
	}
	tw.Flush()
}

func formatTime(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	total := int(sec)
	return fmt.Sprintf("%d:%05.2f", total/60, sec-float64(total/60*60))
}
