package tiktok

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// ListingEndpoint is the cursor-paginated item listing endpoint
	ListingEndpoint = "/share/item/list"

	// UserInfoEndpoint is the endpoint pattern for user lookups
	UserInfoEndpoint = "/node/share/user/@%s"

	// ChallengeInfoEndpoint is the endpoint pattern for hashtag lookups
	ChallengeInfoEndpoint = "/node/share/tag/%s"

	// DefaultUserPageSize is the platform page size for user listings
	DefaultUserPageSize = 30

	// DefaultHashtagPageSize is the platform page size for hashtag listings
	DefaultHashtagPageSize = 48
)

// UserInfoURL constructs the URL for resolving a username
func UserInfoURL(baseURL, username string) string {
	return baseURL + fmt.Sprintf(UserInfoEndpoint, url.PathEscape(username))
}

// ChallengeInfoURL constructs the URL for resolving a hashtag
func ChallengeInfoURL(baseURL, name string) string {
	return baseURL + fmt.Sprintf(ChallengeInfoEndpoint, url.PathEscape(name))
}

// ListingURL constructs one listing page URL for a target at the given
// cursor. Parameter order is fixed; the signature is computed over this
// exact string, so it must stay byte-stable.
func ListingURL(baseURL string, target ScrapeTarget, minCursor, maxCursor int64) string {
	var sb strings.Builder
	sb.WriteString(baseURL)
	sb.WriteString(ListingEndpoint)
	sb.WriteString("?secUid=")
	sb.WriteString(url.QueryEscape(target.SecUID))
	sb.WriteString("&id=")
	sb.WriteString(url.QueryEscape(target.ID))
	sb.WriteString("&type=")
	sb.WriteString(strconv.Itoa(int(target.Type)))
	sb.WriteString("&count=")
	sb.WriteString(strconv.Itoa(target.Count))
	sb.WriteString("&minCursor=")
	sb.WriteString(strconv.FormatInt(minCursor, 10))
	sb.WriteString("&maxCursor=")
	sb.WriteString(strconv.FormatInt(maxCursor, 10))
	sb.WriteString("&shareUid=&lang=")
	sb.WriteString(url.QueryEscape(target.Lang))
	return sb.String()
}

// SignedURL appends a signature token to a listing URL
func SignedURL(listingURL, signature string) string {
	return listingURL + "&_signature=" + url.QueryEscape(signature)
}

// SanitizeIdentifier strips the decorations users paste along with a
// username or hashtag: a full share URL, a leading @ or #, trailing
// slashes and spaces.
func SanitizeIdentifier(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	input = ExtractFromShareURL(input)
	if input == "" {
		return ""
	}
	if input[0] == '@' || input[0] == '#' {
		input = input[1:]
	}
	return strings.TrimRight(input, "/ ")
}

// ExtractFromShareURL pulls the identifier out of a pasted share URL,
// e.g. https://www.tiktok.com/@somebody or .../tag/summer. Returns the
// input unchanged when it is not a URL.
func ExtractFromShareURL(input string) string {
	if !strings.HasPrefix(input, "http://") && !strings.HasPrefix(input, "https://") {
		return input
	}
	u, err := url.Parse(input)
	if err != nil {
		return input
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, p := range parts {
		if strings.HasPrefix(p, "@") {
			return strings.TrimPrefix(p, "@")
		}
		if p == "tag" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return input
}
