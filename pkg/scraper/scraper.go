// Package scraper is the orchestration engine. It resolves an input into a
// listing target, walks the feed with signed requests, optionally downloads
// the media through a worker pool and persists the results as artifacts.
package scraper

import (
	"context"
	"path/filepath"

	"tokscraper/internal/downloader"
	"tokscraper/pkg/config"
	"tokscraper/pkg/errors"
	"tokscraper/pkg/history"
	"tokscraper/pkg/logger"
	"tokscraper/pkg/output"
	"tokscraper/pkg/retry"
	"tokscraper/pkg/signer"
	"tokscraper/pkg/storage"
	"tokscraper/pkg/tiktok"
)

// Scraper wires the platform client, signer, history store and output
// writer into one engine. Construct with New; one Scraper serves many runs.
type Scraper struct {
	client  APIClient
	signer  URLSigner
	history CursorStore
	writer  *output.Writer
	config  *config.Config
	logger  logger.Logger
}

// New builds a Scraper from configuration
func New(cfg *config.Config) (*Scraper, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.GetLogger()

	client, err := tiktok.NewClient(cfg, log)
	if err != nil {
		return nil, err
	}
	store, err := history.NewStore(cfg.History.Directory, log)
	if err != nil {
		return nil, err
	}

	return &Scraper{
		client:  client,
		signer:  signer.New(client, client.WebURL(), log),
		history: store,
		writer:  output.NewWriter(log),
		config:  cfg,
		logger:  log,
	}, nil
}

func parseFormats(filetype string) (output.Formats, error) {
	return output.ParseFileType(filetype)
}

// Scrape executes one request end to end and returns the terminal result.
// Validation failures surface before any network activity.
func (s *Scraper) Scrape(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	switch req.Kind {
	case KindSignature:
		sig, err := s.SignURL(ctx, req.Input)
		if err != nil {
			return nil, err
		}
		return &Result{Signature: sig}, nil

	case KindSingleUser:
		profile, err := s.GetUserProfileInfo(ctx, req.Input)
		if err != nil {
			return nil, err
		}
		return &Result{Profile: profile}, nil

	case KindSingleHashtag:
		challenge, err := s.GetHashtagInfo(ctx, req.Input)
		if err != nil {
			return nil, err
		}
		return &Result{Hashtag: challenge}, nil
	}

	return s.scrapeListing(ctx, req)
}

// scrapeListing handles the user and hashtag kinds: resolve, collect,
// download, write.
func (s *Scraper) scrapeListing(ctx context.Context, req Request) (*Result, error) {
	var (
		target *tiktok.ScrapeTarget
		err    error
	)
	name := tiktok.SanitizeIdentifier(req.Input)

	switch req.Kind {
	case KindUser:
		target, err = s.GetUserID(ctx, req.Input)
	case KindHashtag:
		target, err = s.GetHashTagID(ctx, req.Input)
	default:
		err = errors.Newf(errors.KindUnsupportedType, "unsupported listing kind %q", req.Kind)
	}
	if err != nil {
		return nil, err
	}

	// resume cursor is read once, before the first page
	targetKey := req.Kind.String() + "_" + name
	var startCursor int64
	if req.StoreHistory {
		startCursor = s.history.ReadCursor(targetKey)
	}

	posts, finalCursor, err := s.collect(ctx, target, req.Number, startCursor)
	if err != nil {
		return nil, err
	}

	s.logger.InfoWithFields("collection complete", map[string]interface{}{
		"target": name,
		"posts":  len(posts),
		"cursor": finalCursor,
	})

	result := &Result{Collector: posts}

	if req.Download && len(posts) > 0 {
		if err := s.downloadMedia(ctx, name, result); err != nil {
			return nil, err
		}
	}

	formats, err := parseFormats(req.FileType)
	if err != nil {
		return nil, errors.New(errors.KindUnsupportedType, err.Error())
	}
	artifacts, err := s.writer.Write(name, result.Collector, formats, s.config.Output.BaseDirectory)
	if err != nil {
		return nil, err
	}
	result.CSV = artifacts.CSV
	result.JSON = artifacts.JSON
	result.ZIP = artifacts.ZIP

	// the cursor is written once, after the run has produced its results
	if req.StoreHistory {
		if werr := s.history.WriteCursor(targetKey, finalCursor); werr != nil {
			s.logger.WarnWithFields("cursor save failed", map[string]interface{}{
				"target": targetKey,
				"error":  werr.Error(),
			})
		}
	}

	return result, nil
}

// downloadMedia runs the worker pool over the collected posts and annotates
// each post with its download outcome. Individual failures are recorded on
// the post; only infrastructure failures abort the run.
func (s *Scraper) downloadMedia(ctx context.Context, name string, result *Result) error {
	mediaDir := filepath.Join(s.config.Output.BaseDirectory, name+"_"+s.config.Output.MediaSubdir)
	mgr, err := storage.NewManager(mediaDir)
	if err != nil {
		return errors.Newf(errors.KindDownload, "media directory unavailable: %v", err)
	}

	retryCfg := retry.ForDownloads(ctx,
		s.config.Retry.MaxAttempts,
		s.config.Retry.BaseDelay,
		s.config.Retry.MaxDelay,
		s.config.Retry.Multiplier,
		s.logger,
	)
	pool, err := downloader.NewPool(s.config.Download.Concurrency, s.client, mgr, nil, retryCfg, s.logger)
	if err != nil {
		return err
	}

	tasks := make([]downloader.Task, len(result.Collector))
	for i, post := range result.Collector {
		tasks[i] = downloader.Task{PostID: post.ID, MediaURL: post.MediaURL}
	}

	for i, res := range pool.Run(ctx, tasks) {
		if res.Err != nil {
			result.Collector[i].DownloadError = res.Err.Error()
			result.Failed++
			continue
		}
		result.Collector[i].DownloadPath = res.Path
		result.Downloaded++
	}

	s.logger.InfoWithFields("download stage complete", map[string]interface{}{
		"target":     name,
		"downloaded": result.Downloaded,
		"failed":     result.Failed,
	})
	return nil
}
