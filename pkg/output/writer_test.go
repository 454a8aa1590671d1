package output

import (
	"archive/zip"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokscraper/pkg/logger"
	"tokscraper/pkg/tiktok"
)

var artifactPattern = regexp.MustCompile(`^\w+_\d{13}\.(csv|json|zip)$`)

func samplePosts() []tiktok.Post {
	return []tiktok.Post{
		{
			ID:         "6584647400982165765",
			Text:       "Beach day",
			CreateTime: 1580000000,
			Author:     tiktok.Author{UniqueID: "tiktok", NickName: "Test User"},
			Stats:      tiktok.Stats{DiggCount: 10, PlayCount: 99},
			MediaURL:   "https://cdn.example/v1.mp4",
		},
		{
			ID:     "6584647400982165766",
			Text:   "Another, with \"quotes\" and, commas",
			Author: tiktok.Author{UniqueID: "tiktok"},
		},
	}
}

func TestFilenamePattern(t *testing.T) {
	now := time.Now()
	for _, ext := range []Format{FormatCSV, FormatJSON, FormatZIP} {
		name := Filename("tiktok", now, ext)
		assert.Regexp(t, artifactPattern, name)
	}

	// Non-word characters are stripped, not escaped.
	name := Filename("weird name!#", now, FormatCSV)
	assert.Regexp(t, artifactPattern, name)
	assert.True(t, strings.HasPrefix(name, "weirdname_"))
}

func TestParseFileType(t *testing.T) {
	formats, err := ParseFileType("all")
	require.NoError(t, err)
	assert.True(t, formats[FormatCSV])
	assert.True(t, formats[FormatJSON])
	assert.False(t, formats[FormatZIP])

	formats, err = ParseFileType("")
	require.NoError(t, err)
	assert.Empty(t, formats)

	_, err = ParseFileType("xml")
	assert.Error(t, err)
}

func TestWriteJSONSurvivesCSVFailure(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(logger.NewTestLogger())
	ts := time.Now()
	w.now = func() time.Time { return ts }

	// occupy the csv name with a directory so its create fails
	csvName := Filename("tiktok", ts, FormatCSV)
	require.NoError(t, os.Mkdir(filepath.Join(dir, csvName), 0755))

	artifacts, err := w.Write("tiktok", samplePosts(), Formats{FormatCSV: true, FormatJSON: true}, dir)
	require.Error(t, err)
	assert.Empty(t, artifacts.CSV)

	jsonName := Filename("tiktok", ts, FormatJSON)
	assert.Equal(t, jsonName, artifacts.JSON)

	data, err := os.ReadFile(filepath.Join(dir, jsonName))
	require.NoError(t, err)
	var decoded []tiktok.Post
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, len(samplePosts()))
}

func TestWriteAllProducesExactlyTwoFiles(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(logger.NewTestLogger())

	formats, err := ParseFileType("all")
	require.NoError(t, err)

	artifacts, err := w.Write("tiktok", samplePosts(), formats, dir)
	require.NoError(t, err)

	assert.Regexp(t, `^\w+_\d{13}\.csv$`, artifacts.CSV)
	assert.Regexp(t, `^\w+_\d{13}\.json$`, artifacts.JSON)
	assert.Empty(t, artifacts.ZIP)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestWriteJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(logger.NewTestLogger())

	artifacts, err := w.Write("tiktok", samplePosts(), Formats{FormatJSON: true}, dir)
	require.NoError(t, err)
	require.NotEmpty(t, artifacts.JSON)

	data, err := os.ReadFile(filepath.Join(dir, artifacts.JSON))
	require.NoError(t, err)

	var posts []tiktok.Post
	require.NoError(t, json.Unmarshal(data, &posts))
	require.Len(t, posts, 2)
	assert.Equal(t, "6584647400982165765", posts[0].ID)
	assert.Equal(t, "Test User", posts[0].Author.NickName)
}

func TestWriteCSVHasHeaderAndRows(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(logger.NewTestLogger())

	artifacts, err := w.Write("tiktok", samplePosts(), Formats{FormatCSV: true}, dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, artifacts.CSV))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 3) // header + 2 rows
	assert.True(t, strings.HasPrefix(lines[0], "id,text,createTime"))
}

func TestWriteNothingWhenNoFormats(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(logger.NewTestLogger())

	artifacts, err := w.Write("tiktok", samplePosts(), Formats{}, dir)
	require.NoError(t, err)
	assert.Equal(t, Artifacts{}, artifacts)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestZIPSupersedesLooseFiles(t *testing.T) {
	dir := t.TempDir()
	mediaDir := t.TempDir()
	w := NewWriter(logger.NewTestLogger())

	mediaPath := filepath.Join(mediaDir, "6584647400982165765.mp4")
	require.NoError(t, os.WriteFile(mediaPath, []byte("video"), 0644))

	posts := samplePosts()
	posts[0].DownloadPath = mediaPath

	artifacts, err := w.Write("tiktok", posts, Formats{FormatZIP: true}, dir)
	require.NoError(t, err)
	assert.Regexp(t, `^\w+_\d{13}\.zip$`, artifacts.ZIP)
	assert.Empty(t, artifacts.CSV)
	assert.Empty(t, artifacts.JSON)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	zr, err := zip.OpenReader(filepath.Join(dir, artifacts.ZIP))
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "tiktok.json")
	assert.Contains(t, names, "tiktok.csv")
	assert.Contains(t, names, "media/6584647400982165765.mp4")
}
