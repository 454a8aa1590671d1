package scraper

import (
	"strings"

	"tokscraper/pkg/errors"
	"tokscraper/pkg/tiktok"
)

// ScrapeKind is the closed set of scrape request types
type ScrapeKind int

const (
	// KindUser collects posts from a user's listing
	KindUser ScrapeKind = iota + 1
	// KindHashtag collects posts from a hashtag listing
	KindHashtag
	// KindSingleUser resolves one user's full profile record
	KindSingleUser
	// KindSingleHashtag resolves one hashtag's full challenge record
	KindSingleHashtag
	// KindSignature signs a literal URL without any lookup
	KindSignature
)

// scrapeKindNames is the accepted CLI spelling for each kind, in order
var scrapeKindNames = []string{"user", "hashtag", "single_user", "single_hashtag", "signature"}

func (k ScrapeKind) String() string {
	if k < KindUser || k > KindSignature {
		return "unknown"
	}
	return scrapeKindNames[k-1]
}

func (k ScrapeKind) valid() bool {
	return k >= KindUser && k <= KindSignature
}

// ParseScrapeKind converts a CLI string into a ScrapeKind. Unrecognized
// values fail here, at the input boundary, naming the accepted set.
func ParseScrapeKind(s string) (ScrapeKind, error) {
	for i, name := range scrapeKindNames {
		if s == name {
			return ScrapeKind(i + 1), nil
		}
	}
	return 0, errors.Newf(errors.KindUnsupportedType,
		"Missing scrape type. Scrape types: %s", strings.Join(scrapeKindNames, ", "))
}

// Request describes one scrape run
type Request struct {
	// Kind selects the operation
	Kind ScrapeKind
	// Input is the target identifier or URL (required)
	Input string
	// Number is the desired result count; 0 collects everything available
	Number int
	// Download enables the media download stage
	Download bool
	// FileType selects output artifacts: csv, json, all, zip or empty
	FileType string
	// StoreHistory enables cursor persistence and resume for this run
	StoreHistory bool
}

// Validate checks the request before any network activity
func (r *Request) Validate() error {
	if !r.Kind.valid() {
		return errors.Newf(errors.KindUnsupportedType,
			"Missing scrape type. Scrape types: %s", strings.Join(scrapeKindNames, ", "))
	}
	if strings.TrimSpace(r.Input) == "" {
		return errors.MissingInput("Missing input")
	}
	if _, err := parseFormats(r.FileType); err != nil {
		return errors.New(errors.KindUnsupportedType, err.Error())
	}
	return nil
}

// Result is the terminal object of a scrape run. Collector preserves the
// platform listing order; artifact names are empty when not written.
type Result struct {
	Collector []tiktok.Post `json:"collector"`

	CSV  string `json:"csv,omitempty"`
	JSON string `json:"json,omitempty"`
	ZIP  string `json:"zip,omitempty"`

	// Downloaded and Failed count the media download stage
	Downloaded int `json:"downloaded,omitempty"`
	Failed     int `json:"failed,omitempty"`

	// Set for the short-circuiting kinds
	Profile   *tiktok.UserProfile `json:"profile,omitempty"`
	Hashtag   *tiktok.HashtagInfo `json:"hashtag,omitempty"`
	Signature string              `json:"signature,omitempty"`
}
