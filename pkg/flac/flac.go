// Package flac converts split WAV tracks to tagged FLAC files by shelling
// out to ffmpeg. Encoding and tag writing happen in a single invocation.
package flac

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// Tags holds the vorbis comments written to the output file
type Tags struct {
	Title       string
	Artist      string
	Album       string
	Year        string
	Genre       string
	TrackNumber int
	TrackTotal  int
}

// Options controls the encoding
type Options struct {
	// DownsampleCD resamples to 44.1kHz/16-bit CD quality; otherwise the
	// source rate and depth pass through untouched
	DownsampleCD bool
}

// Converter wraps the ffmpeg binary
type Converter struct {
	ffmpegPath string
	timeout    time.Duration
}

// New creates a new Converter
func New(ffmpegPath string, timeout time.Duration) *Converter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if timeout == 0 {
		timeout = 5 * time.Minute
	}
	return &Converter{
		ffmpegPath: ffmpegPath,
		timeout:    timeout,
	}
}

// ValidateBinary checks that ffmpeg is available
func (c *Converter) ValidateBinary() error {
	if _, err := exec.LookPath(c.ffmpegPath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFmpegNotFound, c.ffmpegPath)
	}
	return nil
}

// Convert encodes wavPath to flacPath and writes the given tags
func (c *Converter) Convert(ctx context.Context, wavPath, flacPath string, opts Options, tags Tags) error {
	if _, err := os.Stat(wavPath); err != nil {
		return fmt.Errorf("%w: %s", ErrMissingInput, wavPath)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	args := []string{"-y", "-i", wavPath}
	if opts.DownsampleCD {
		args = append(args, "-ar", "44100", "-sample_fmt", "s16")
	}
	args = append(args, "-c:a", "flac")
	args = append(args, tagArgs(tags)...)
	args = append(args, flacPath)

	cmd := exec.CommandContext(ctx, c.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return NewProcessingError("flac_encode", wavPath, ErrProcessingTimeout, stderr.String())
		}
		return NewProcessingError("flac_encode", wavPath, err, stderr.String())
	}

	return nil
}

// tagArgs builds the -metadata arguments for the given tags, skipping
// empty fields
func tagArgs(tags Tags) []string {
	var args []string
	add := func(key, value string) {
		if value != "" {
			args = append(args, "-metadata", key+"="+value)
		}
	}

	add("title", tags.Title)
	add("artist", tags.Artist)
	add("album", tags.Album)
	add("date", tags.Year)
	add("genre", tags.Genre)
	if tags.TrackNumber > 0 {
		add("track", fmt.Sprintf("%d", tags.TrackNumber))
	}
	if tags.TrackTotal > 0 {
		add("tracktotal", fmt.Sprintf("%d", tags.TrackTotal))
	}

	return args
}
