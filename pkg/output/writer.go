// Package output assembles a scrape run's artifact files. Filenames embed
// the sanitized target name and a millisecond timestamp so every run's
// artifacts are unique and carry their provenance.
package output

import (
	"archive/zip"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"tokscraper/pkg/logger"
	"tokscraper/pkg/tiktok"
)

// Format identifies one artifact type
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatZIP  Format = "zip"
)

// Formats is the set of requested artifact types
type Formats map[Format]bool

// ParseFileType converts the CLI filetype value into a format set.
// "all" means csv and json; empty means no artifacts.
func ParseFileType(filetype string) (Formats, error) {
	switch filetype {
	case "":
		return Formats{}, nil
	case "csv":
		return Formats{FormatCSV: true}, nil
	case "json":
		return Formats{FormatJSON: true}, nil
	case "all":
		return Formats{FormatCSV: true, FormatJSON: true}, nil
	case "zip":
		return Formats{FormatZIP: true}, nil
	default:
		return nil, fmt.Errorf("unknown filetype %q (valid: csv, json, all, zip)", filetype)
	}
}

// Artifacts lists the filenames actually written, empty when not written
type Artifacts struct {
	CSV  string
	JSON string
	ZIP  string
}

var nonWord = regexp.MustCompile(`\W`)

// Filename generates an artifact name: sanitized target, 13-digit
// millisecond timestamp, extension.
func Filename(name string, ts time.Time, ext Format) string {
	sanitized := nonWord.ReplaceAllString(name, "")
	if sanitized == "" {
		sanitized = "scrape"
	}
	return sanitized + "_" + strconv.FormatInt(ts.UnixMilli(), 10) + "." + string(ext)
}

// Writer persists scrape results as artifact files
type Writer struct {
	logger logger.Logger
	now    func() time.Time
}

// NewWriter creates an artifact writer
func NewWriter(log logger.Logger) *Writer {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Writer{logger: log, now: time.Now}
}

// Write persists posts in the requested formats under dir and returns the
// generated filenames. CSV and JSON are written independently; a failure of
// one does not block the other. ZIP supersedes the loose files and bundles
// the metadata plus any downloaded media.
func (w *Writer) Write(name string, posts []tiktok.Post, formats Formats, dir string) (Artifacts, error) {
	var artifacts Artifacts
	if len(formats) == 0 {
		return artifacts, nil
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return artifacts, fmt.Errorf("failed to create output directory: %w", err)
	}

	ts := w.now()

	if formats[FormatZIP] {
		zipName := Filename(name, ts, FormatZIP)
		if err := w.writeZIP(filepath.Join(dir, zipName), name, posts); err != nil {
			return artifacts, err
		}
		artifacts.ZIP = zipName
		w.logger.InfoWithFields("zip artifact written", map[string]interface{}{
			"file":  zipName,
			"posts": len(posts),
		})
		return artifacts, nil
	}

	csvName := Filename(name, ts, FormatCSV)
	jsonName := Filename(name, ts, FormatJSON)

	var g errgroup.Group

	if formats[FormatCSV] {
		g.Go(func() error {
			if err := w.writeCSV(filepath.Join(dir, csvName), posts); err != nil {
				w.logger.WithError(err).Error("csv artifact write failed")
				return err
			}
			return nil
		})
	}
	if formats[FormatJSON] {
		g.Go(func() error {
			if err := w.writeJSON(filepath.Join(dir, jsonName), posts); err != nil {
				w.logger.WithError(err).Error("json artifact write failed")
				return err
			}
			return nil
		})
	}

	err := g.Wait()

	// Record what actually landed on disk, even on partial failure.
	if formats[FormatCSV] {
		if fi, statErr := os.Stat(filepath.Join(dir, csvName)); statErr == nil && fi.Mode().IsRegular() {
			artifacts.CSV = csvName
		}
	}
	if formats[FormatJSON] {
		if fi, statErr := os.Stat(filepath.Join(dir, jsonName)); statErr == nil && fi.Mode().IsRegular() {
			artifacts.JSON = jsonName
		}
	}

	if err != nil {
		return artifacts, err
	}

	w.logger.InfoWithFields("artifacts written", map[string]interface{}{
		"csv":   artifacts.CSV,
		"json":  artifacts.JSON,
		"posts": len(posts),
	})

	return artifacts, nil
}

var csvHeader = []string{
	"id", "text", "createTime", "authorUniqueId", "authorNickName",
	"diggCount", "shareCount", "playCount", "commentCount",
	"mediaUrl", "webVideoUrl", "downloadPath",
}

func (w *Writer) writeCSV(path string, posts []tiktok.Post) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, p := range posts {
		row := []string{
			p.ID,
			p.Text,
			strconv.FormatInt(p.CreateTime, 10),
			p.Author.UniqueID,
			p.Author.NickName,
			strconv.Itoa(p.Stats.DiggCount),
			strconv.Itoa(p.Stats.ShareCount),
			strconv.Itoa(p.Stats.PlayCount),
			strconv.Itoa(p.Stats.CommentCount),
			p.MediaURL,
			p.WebVideoURL,
			p.DownloadPath,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func (w *Writer) writeJSON(path string, posts []tiktok.Post) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create json file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(posts); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

// writeZIP bundles metadata and downloaded media into one archive
func (w *Writer) writeZIP(path, name string, posts []tiktok.Post) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create zip file: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	defer zw.Close()

	jsonEntry, err := zw.Create(name + ".json")
	if err != nil {
		return fmt.Errorf("failed to create zip entry: %w", err)
	}
	enc := json.NewEncoder(jsonEntry)
	enc.SetIndent("", "  ")
	if err := enc.Encode(posts); err != nil {
		return fmt.Errorf("failed to encode json into zip: %w", err)
	}

	csvEntry, err := zw.Create(name + ".csv")
	if err != nil {
		return fmt.Errorf("failed to create zip entry: %w", err)
	}
	cw := csv.NewWriter(csvEntry)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range posts {
		if err := cw.Write([]string{
			p.ID, p.Text, strconv.FormatInt(p.CreateTime, 10),
			p.Author.UniqueID, p.Author.NickName,
			strconv.Itoa(p.Stats.DiggCount), strconv.Itoa(p.Stats.ShareCount),
			strconv.Itoa(p.Stats.PlayCount), strconv.Itoa(p.Stats.CommentCount),
			p.MediaURL, p.WebVideoURL, p.DownloadPath,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	for _, p := range posts {
		if p.DownloadPath == "" {
			continue
		}
		if err := addFileToZip(zw, p.DownloadPath); err != nil {
			// A missing media file degrades the bundle, not the run.
			w.logger.WarnWithFields("media file skipped in zip", map[string]interface{}{
				"post_id": p.ID,
				"path":    p.DownloadPath,
				"error":   err.Error(),
			})
		}
	}

	return nil
}

func addFileToZip(zw *zip.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	entry, err := zw.Create("media/" + filepath.Base(path))
	if err != nil {
		return err
	}

	_, err = io.Copy(entry, src)
	return err
}
