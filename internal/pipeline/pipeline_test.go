package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waxworks/sidecut/internal/analysis"
	"github.com/waxworks/sidecut/internal/models"
	"github.com/waxworks/sidecut/internal/services/musicbrainz"
	"github.com/waxworks/sidecut/internal/ui"
	"github.com/waxworks/sidecut/pkg/config"
	"github.com/waxworks/sidecut/pkg/flac"
	"github.com/waxworks/sidecut/pkg/wav"
)

// mockAlbumService keeps album state in memory and lists WAV files from a
// real temp directory
type mockAlbumService struct {
	libraryPath string
	albums      map[string]*models.Album
	saves       int
}

func newMockAlbumService(libraryPath string) *mockAlbumService {
	return &mockAlbumService{
		libraryPath: libraryPath,
		albums:      make(map[string]*models.Album),
	}
}

func (m *mockAlbumService) GetAlbum(_ context.Context, folderName string) (*models.Album, error) {
	a, ok := m.albums[folderName]
	if !ok {
		return nil, errors.New("not found")
	}
	return a, nil
}

func (m *mockAlbumService) GetOrInitAlbum(_ context.Context, folderName string) (*models.Album, error) {
	if a, ok := m.albums[folderName]; ok {
		return a, nil
	}
	return &models.Album{
		FolderName: folderName,
		Status:     models.StatusRaw,
		Quality:    models.QualityHiRes,
	}, nil
}

func (m *mockAlbumService) SaveAlbum(_ context.Context, album *models.Album) error {
	m.albums[album.FolderName] = album
	m.saves++
	return nil
}

func (m *mockAlbumService) AllAlbums(_ context.Context) ([]models.Album, error) {
	var out []models.Album
	for _, a := range m.albums {
		out = append(out, *a)
	}
	return out, nil
}

func (m *mockAlbumService) DiscoverFolders() ([]string, error) {
	return nil, nil
}

func (m *mockAlbumService) WavFiles(folderName string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(m.libraryPath, folderName, "*.wav"))
	if err != nil {
		return nil, err
	}
	return files, nil
}

// mockCatalog returns canned releases
type mockCatalog struct {
	searchResults []musicbrainz.Release
	searchErr     error
	release       *musicbrainz.Release
}

func (m *mockCatalog) SearchReleases(_ context.Context, _, _ string, _, _ int) ([]musicbrainz.Release, int, error) {
	if m.searchErr != nil {
		return nil, 0, m.searchErr
	}
	return m.searchResults, len(m.searchResults), nil
}

func (m *mockCatalog) GetRelease(_ context.Context, _ string) (*musicbrainz.Release, error) {
	if m.release == nil {
		return nil, errors.New("not found")
	}
	return m.release, nil
}

// mockTranscoder records conversions and creates empty output files
type mockTranscoder struct {
	calls []flac.Tags
	err   error
}

func (m *mockTranscoder) Convert(_ context.Context, _, flacPath string, _ flac.Options, tags flac.Tags) error {
	if m.err != nil {
		return m.err
	}
	m.calls = append(m.calls, tags)
	return os.WriteFile(flacPath, []byte("flac"), 0644)
}

func testConfig(libraryPath string) *config.Config {
	c := config.Get()
	cc := *c
	cc.Library.Path = libraryPath
	return &cc
}

// writeSideWAV writes a valid PCM file of the given length in seconds
func writeSideWAV(t *testing.T, path string, seconds float64) {
	t.Helper()
	format := wav.Format{SampleRate: 8000, Channels: 1, BitsPerSample: 16}
	frames := int(seconds * 8000)
	data := make([]byte, frames*format.BlockAlign())
	for i := 0; i < len(data); i += 2 {
		data[i] = 0x00
		data[i+1] = 0x10 // constant positive amplitude, no silences
	}
	require.NoError(t, wav.WriteFile(path, format, data))
}

func newTestPipeline(t *testing.T, libraryPath, input string, albums *mockAlbumService, catalog Catalog, conv Transcoder) (*Pipeline, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	prompter := ui.NewPrompter(strings.NewReader(input), &out)
	return New(testConfig(libraryPath), albums, catalog, conv, prompter, &out), &out
}

func TestRunFullPipelineManualEntry(t *testing.T) {
	lib := t.TempDir()
	folder := "Band - Album"
	dir := filepath.Join(lib, folder)
	require.NoError(t, os.MkdirAll(dir, 0755))
	writeSideWAV(t, filepath.Join(dir, "side-a.wav"), 2.0)
	writeSideWAV(t, filepath.Join(dir, "side-b.wav"), 2.0)

	albums := newMockAlbumService(lib)
	conv := &mockTranscoder{}
	// Manual entry: artist, title, year defaults; 2 tracks named A and B;
	// genre; keep hi-res; confirm the split write.
	input := "\n\n\n2\nA\nB\nRock\n\n\n"
	p, _ := newTestPipeline(t, lib, input,
		albums, &mockCatalog{searchErr: musicbrainz.ErrNoResults}, conv)

	require.NoError(t, p.Run(context.Background(), folder))

	album := albums.albums[folder]
	require.NotNil(t, album)
	assert.Equal(t, models.StatusDone, album.Status)
	assert.Equal(t, "Rock", album.Genre)
	require.Len(t, album.Tracks, 2)
	assert.Equal(t, "A", album.Tracks[0].Name)
	assert.Equal(t, "01 - A.wav", album.Tracks[0].File)
	assert.Len(t, conv.calls, 2)
	assert.Equal(t, 2, conv.calls[0].TrackTotal)

	// Originals archived, split intermediates removed, FLACs remain.
	archiveDir := filepath.Join(lib, "..", "archive", folder)
	assert.FileExists(t, filepath.Join(archiveDir, "side-a.wav"))
	assert.FileExists(t, filepath.Join(archiveDir, "side-b.wav"))
	assert.NoFileExists(t, filepath.Join(dir, "01 - A.wav"))
	assert.FileExists(t, filepath.Join(dir, "01 - A.flac"))
	assert.FileExists(t, filepath.Join(dir, "02 - B.flac"))
}

func TestAnalyzeCatalogMatch(t *testing.T) {
	lib := t.TempDir()
	full := &musicbrainz.Release{
		ID:     "mbid-1",
		Title:  "Proper Album",
		Artist: "Proper Band",
		Year:   "1977",
		Tracks: []musicbrainz.Track{
			{Number: 1, Title: "Opener", DurationMS: 180000},
			{Number: 2, Title: "Closer", DurationMS: 240000},
		},
	}
	catalog := &mockCatalog{
		searchResults: []musicbrainz.Release{{ID: "mbid-1", Title: "Proper Album", Artist: "Proper Band"}},
		release:       full,
	}

	// Pick match 1, genre, downsample to CD.
	p, _ := newTestPipeline(t, lib, "1\nJazz\ny\n", newMockAlbumService(lib), catalog, &mockTranscoder{})

	album := &models.Album{FolderName: "Band - Album", Status: models.StatusRaw}
	require.NoError(t, p.analyze(context.Background(), album))

	assert.Equal(t, "mbid-1", album.MusicBrainzID)
	assert.Equal(t, "Proper Band", album.Artist)
	assert.Equal(t, "1977", album.Year)
	assert.Equal(t, "Jazz", album.Genre)
	assert.Equal(t, models.QualityCD, album.Quality)
	require.Len(t, album.Tracks, 2)
	assert.Equal(t, int64(180000), album.Tracks[0].DurationMS)
}

func TestAnalyzeCatalogFailureFallsBackToManual(t *testing.T) {
	lib := t.TempDir()
	catalog := &mockCatalog{searchErr: errors.New("network down")}

	// Manual entry after the failed lookup.
	input := "The Band\nThe Album\n1999\n1\nOnly Track\n\n\n"
	p, _ := newTestPipeline(t, lib, input, newMockAlbumService(lib), catalog, &mockTranscoder{})

	album := &models.Album{FolderName: "whatever", Status: models.StatusRaw}
	require.NoError(t, p.analyze(context.Background(), album))

	assert.Equal(t, "The Band", album.Artist)
	assert.Equal(t, "The Album", album.Title)
	require.Len(t, album.Tracks, 1)
	assert.Equal(t, "Only Track", album.Tracks[0].Name)
	assert.Zero(t, album.Tracks[0].DurationMS)
}

func TestSegmentOptionsFromConfig(t *testing.T) {
	lib := t.TempDir()
	p, _ := newTestPipeline(t, lib, "", newMockAlbumService(lib), nil, nil)

	album := &models.Album{
		Tracks: []models.Track{
			{Number: 1, DurationMS: 180000},
			{Number: 2, DurationMS: 0},
		},
	}
	opts := p.segmentOptions(album)

	assert.Equal(t, 2, opts.ExpectedTracks)
	assert.Equal(t, []int64{180000, 0}, opts.ExpectedDurationsMS)
	assert.Equal(t, p.cfg.Analysis.WindowSec, opts.WindowSec)
	assert.Equal(t, p.cfg.Analysis.ThresholdFactor, opts.Silence.ThresholdFactor)
}

func TestWriteSegmentsPartialExtract(t *testing.T) {
	lib := t.TempDir()
	folder := "Band - Album"
	dir := filepath.Join(lib, folder)
	require.NoError(t, os.MkdirAll(dir, 0755))
	writeSideWAV(t, filepath.Join(dir, "side-a.wav"), 2.0)

	src, err := wav.Open(filepath.Join(dir, "side-a.wav"))
	require.NoError(t, err)

	p, _ := newTestPipeline(t, lib, "", newMockAlbumService(lib), nil, nil)

	album := &models.Album{FolderName: folder}
	segments := []analysis.TrackSegment{
		{Source: src, StartSec: 0, EndSec: 1.0, TrackNumber: 1, TrackName: "First Half"},
		{Source: src, StartSec: 1.0, EndSec: 2.0, TrackNumber: 2, TrackName: "A/B Side"},
	}
	require.NoError(t, p.writeSegments(context.Background(), album, segments))

	assert.FileExists(t, filepath.Join(dir, "01 - First Half.wav"))
	// Path separators in names are sanitized.
	assert.FileExists(t, filepath.Join(dir, "02 - A_B Side.wav"))

	out, err := wav.Open(filepath.Join(dir, "01 - First Half.wav"))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, out.Duration(), 1e-9)

	require.Len(t, album.Tracks, 2)
	assert.Equal(t, int64(1000), album.Tracks[0].DurationMS)
}

func TestReviewShortSegmentsDeletes(t *testing.T) {
	lib := t.TempDir()
	p, _ := newTestPipeline(t, lib, "\n", newMockAlbumService(lib), nil, nil)

	src := fakePipelineSource{duration: 400}
	segments := []analysis.TrackSegment{
		{Source: src, StartSec: 0, EndSec: 180, TrackNumber: 1},
		{Source: src, StartSec: 180, EndSec: 184, TrackNumber: 2},
		{Source: src, StartSec: 184, EndSec: 400, TrackNumber: 3},
	}

	kept, err := p.reviewShortSegments(segments)
	require.NoError(t, err)
	require.Len(t, kept, 2)
	assert.Equal(t, 1, kept[0].TrackNumber)
	assert.Equal(t, 2, kept[1].TrackNumber)
	assert.InDelta(t, 216.0, kept[1].Duration(), 1e-9)
}

func TestConvertSkipsExisting(t *testing.T) {
	lib := t.TempDir()
	folder := "Band - Album"
	dir := filepath.Join(lib, folder)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01 - A.flac"), []byte("old"), 0644))

	conv := &mockTranscoder{}
	p, _ := newTestPipeline(t, lib, "", newMockAlbumService(lib), nil, conv)

	album := &models.Album{
		FolderName: folder,
		Artist:     "Band",
		Title:      "Album",
		Tracks: []models.Track{
			{Number: 1, Name: "A", File: "01 - A.wav"},
			{Number: 2, Name: "B", File: "02 - B.wav"},
		},
	}
	require.NoError(t, p.convert(context.Background(), album))

	require.Len(t, conv.calls, 1)
	assert.Equal(t, "B", conv.calls[0].Title)
	assert.Equal(t, "Band", conv.calls[0].Artist)
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Plain Name", "Plain Name"},
		{"A/B Side", "A_B Side"},
		{`What: "Why?"`, "What_ _Why__"},
		{"a<b>c|d", "a_b_c_d"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFileName(tt.in), tt.in)
	}
}

// fakePipelineSource satisfies analysis.Source for tests that never read audio
type fakePipelineSource struct {
	duration float64
}

func (f fakePipelineSource) Path() string      { return "fake.wav" }
func (f fakePipelineSource) Duration() float64 { return f.duration }
func (f fakePipelineSource) ReadEnergy(float64) ([]float64, int, error) {
	return nil, 0, fmt.Errorf("not implemented")
}
