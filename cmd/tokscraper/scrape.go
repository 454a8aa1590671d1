package main

import (
	"strings"

	"github.com/spf13/cobra"

	"tokscraper/pkg/scraper"
	"tokscraper/pkg/ui"
)

var userCmd = &cobra.Command{
	Use:   "user <username>",
	Short: "Scrape posts from a user's profile feed",
	Long: `Collect post metadata from a TikTok user's feed, optionally download
the videos and save the results as CSV, JSON or a ZIP archive.`,
	Example: `  # Collect the 20 newest posts as JSON
  tokscraper user tiktok -n 20 --filetype json

  # Download videos with 5 workers and bundle everything into a ZIP
  tokscraper user tiktok -n 50 -d --concurrent 5 --filetype zip

  # Resume where the previous run stopped
  tokscraper user tiktok -n 100 --store-history`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runListing(cmd, scraper.KindUser, args[0])
	},
}

var hashtagCmd = &cobra.Command{
	Use:   "hashtag <name>",
	Short: "Scrape posts from a hashtag feed",
	Example: `  # Collect 48 posts under #summer as CSV and JSON
  tokscraper hashtag summer -n 48 --filetype all`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runListing(cmd, scraper.KindHashtag, args[0])
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(hashtagCmd)

	for _, cmd := range []*cobra.Command{userCmd, hashtagCmd} {
		cmd.Flags().IntVarP(&number, "number", "n", 0, "number of posts to collect (0 collects everything)")
		cmd.Flags().BoolVarP(&download, "download", "d", false, "download the videos")
		cmd.Flags().StringVarP(&fileType, "filetype", "t", "", "output artifacts: csv, json, all or zip")
		cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (default: current directory)")
		cmd.Flags().IntVar(&concurrent, "concurrent", 0, "number of concurrent downloads")
		cmd.Flags().IntVar(&rateLimit, "rate-limit", 0, "requests per minute")
		cmd.Flags().StringVar(&proxyURL, "proxy", "", "proxy URL for all requests")
		cmd.Flags().StringVar(&userAgent, "user-agent", "", "custom User-Agent header")
		cmd.Flags().StringVar(&sessionCookie, "session-cookie", "", "session cookie for authenticated requests")
		cmd.Flags().BoolVarP(&storeHistory, "store-history", "s", false, "persist the cursor and resume on the next run")
		cmd.Flags().IntVar(&timeoutSecs, "timeout", 0, "download timeout in seconds")
	}
}

func runListing(cmd *cobra.Command, kind scraper.ScrapeKind, input string) error {
	input = strings.TrimSpace(input)
	ui.PrintInfo("Target", input)

	s, _, err := newScraper()
	if err != nil {
		ui.PrintError("Configuration failed", err)
		return err
	}

	result, err := s.Scrape(cmd.Context(), scraper.Request{
		Kind:         kind,
		Input:        input,
		Number:       number,
		Download:     download,
		FileType:     fileType,
		StoreHistory: storeHistory,
	})
	if err != nil {
		ui.PrintError("Scrape failed", err)
		return err
	}

	ui.PrintSummary(len(result.Collector), result.Downloaded, result.Failed,
		[]string{result.CSV, result.JSON, result.ZIP})
	return nil
}
