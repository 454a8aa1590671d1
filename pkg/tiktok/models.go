package tiktok

// TargetType is the platform's numeric listing type
type TargetType int

const (
	// TypeUser is the wire value for user post listings
	TypeUser TargetType = 1
	// TypeHashtag is the wire value for hashtag (challenge) listings
	TypeHashtag TargetType = 3
)

// ScrapeTarget is the resolved identity a collection run operates against.
// Immutable once produced by resolution; MinCursor is the resumption
// checkpoint and only ever advances within a run.
type ScrapeTarget struct {
	ID        string     `json:"id"`
	SecUID    string     `json:"secUid"`
	Type      TargetType `json:"type"`
	Count     int        `json:"count"`
	MinCursor int64      `json:"minCursor"`
	Lang      string     `json:"lang"`
}

// UserProfile is the full resolved profile record for a single_user request
type UserProfile struct {
	SecUID       string   `json:"secUid"`
	UserID       string   `json:"userId"`
	IsSecret     bool     `json:"isSecret"`
	UniqueID     string   `json:"uniqueId"`
	NickName     string   `json:"nickName"`
	Signature    string   `json:"signature"`
	Covers       []string `json:"covers"`
	CoversMedium []string `json:"coversMedium"`
	Following    int      `json:"following"`
	Fans         int      `json:"fans"`
	Heart        string   `json:"heart"`
	Video        int      `json:"video"`
	Verified     bool     `json:"verified"`
	Digg         int      `json:"digg"`
}

// HashtagInfo is the full resolved challenge record for a single_hashtag request
type HashtagInfo struct {
	ChallengeID   string   `json:"challengeId"`
	ChallengeName string   `json:"challengeName"`
	Text          string   `json:"text"`
	Covers        []string `json:"covers"`
	CoversMedium  []string `json:"coversMedium"`
	Posts         int      `json:"posts"`
	Views         string   `json:"views"`
	IsCommerce    bool     `json:"isCommerce"`
	SplitTitle    string   `json:"splitTitle"`
}

// Author identifies the creator of a post
type Author struct {
	UniqueID string `json:"uniqueId"`
	UserID   string `json:"userId"`
	NickName string `json:"nickName"`
}

// Stats holds a post's engagement counters
type Stats struct {
	DiggCount    int `json:"diggCount"`
	ShareCount   int `json:"shareCount"`
	PlayCount    int `json:"playCount"`
	CommentCount int `json:"commentCount"`
}

// Post is one scraped item. Unique within a result set by ID; ordering is
// the platform listing order.
type Post struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	CreateTime  int64  `json:"createTime"`
	Author      Author `json:"author"`
	Stats       Stats  `json:"stats"`
	MediaURL    string `json:"mediaUrl"`
	WebVideoURL string `json:"webVideoUrl"`

	// Downloader annotations, reconciled after the download stage
	DownloadPath  string `json:"downloadPath,omitempty"`
	DownloadError string `json:"downloadError,omitempty"`
}

// UserInfoResponse is the wire shape of the user lookup endpoint
type UserInfoResponse struct {
	StatusCode int `json:"statusCode"`
	Body       struct {
		UserData UserProfile `json:"userData"`
	} `json:"body"`
}

// ChallengeInfoResponse is the wire shape of the hashtag lookup endpoint
type ChallengeInfoResponse struct {
	StatusCode int `json:"statusCode"`
	Body       struct {
		ChallengeData HashtagInfo `json:"challengeData"`
	} `json:"body"`
}

// ItemListResponse is the wire shape of one listing page
type ItemListResponse struct {
	StatusCode int    `json:"statusCode"`
	HasMore    bool   `json:"hasMore"`
	MaxCursor  int64  `json:"maxCursor"`
	MinCursor  int64  `json:"minCursor"`
	Items      []Post `json:"items"`
}
