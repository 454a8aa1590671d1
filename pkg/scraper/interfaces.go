package scraper

import (
	"context"

	"tokscraper/pkg/tiktok"
)

// APIClient is the platform surface the engine depends on. *tiktok.Client
// satisfies it; tests may substitute their own.
type APIClient interface {
	// FetchUserInfo resolves a username into its profile record
	FetchUserInfo(ctx context.Context, username string) (*tiktok.UserInfoResponse, error)

	// FetchChallengeInfo resolves a hashtag name into its challenge record
	FetchChallengeInfo(ctx context.Context, name string) (*tiktok.ChallengeInfoResponse, error)

	// FetchItemList retrieves one page of the listing feed from a signed URL
	FetchItemList(ctx context.Context, signedURL string) (*tiktok.ItemListResponse, error)

	// DownloadMedia streams one media file
	DownloadMedia(ctx context.Context, url string) ([]byte, error)

	// GetBody fetches a page as text, used for signer bootstrap
	GetBody(ctx context.Context, url string) (string, error)

	// BaseURL is the API origin listing URLs are built against
	BaseURL() string

	// WebURL is the web origin the signer bootstraps from
	WebURL() string
}

// URLSigner produces anti-scrape signatures for listing URLs
type URLSigner interface {
	Sign(ctx context.Context, rawurl string) (string, error)
}

// CursorStore persists per-target resume cursors between runs
type CursorStore interface {
	ReadCursor(targetKey string) int64
	WriteCursor(targetKey string, cursor int64) error
}
