package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tokscraper/pkg/config"
	"tokscraper/pkg/logger"
	"tokscraper/pkg/scraper"
	"tokscraper/pkg/ui"
)

var (
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	noColor    bool
	quiet      bool

	// Flags shared by the listing commands
	outputDir     string
	number        int
	download      bool
	fileType      string
	concurrent    int
	rateLimit     int
	proxyURL      string
	userAgent     string
	sessionCookie string
	storeHistory  bool
	timeoutSecs   int
)

var rootCmd = &cobra.Command{
	Use:   "tokscraper",
	Short: "TikTok metadata and video scraper",
	Long: `tokscraper collects post metadata from TikTok user profiles and
hashtag feeds through the platform's private API, downloads the videos
and saves the results as CSV, JSON or ZIP archives.

Features:
  - Signed listing requests with automatic session bootstrap
  - Concurrent video downloads with rate limiting and retry
  - Resume support via per-target history checkpoints
  - Proxy and custom user agent support`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet || logLevel == "error" {
			ui.Quiet = true
		}
		if noColor {
			color.NoColor = true
		}
		if cmd.Name() != "version" && cmd.Name() != "help" && cmd.Name() != "sign" {
			ui.PrintLogo()
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .tokscraper.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	rootCmd.SetVersionTemplate(`tokscraper {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig builds the effective configuration from file, environment and
// the command line flags that were set.
func loadConfig() (*config.Config, error) {
	flags := make(map[string]interface{})
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if concurrent > 0 {
		flags["concurrency"] = concurrent
	}
	if rateLimit > 0 {
		flags["requests-per-minute"] = rateLimit
	}
	if proxyURL != "" {
		flags["proxy"] = proxyURL
	}
	if userAgent != "" {
		flags["user-agent"] = userAgent
	}
	if sessionCookie != "" {
		flags["session-cookie"] = sessionCookie
	}
	if timeoutSecs > 0 {
		flags["timeout"] = timeoutSecs
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	return config.Load(configFile, flags)
}

// newScraper assembles the engine for a command run
func newScraper() (*scraper.Scraper, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, nil, err
	}
	s, err := scraper.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return s, cfg, nil
}
