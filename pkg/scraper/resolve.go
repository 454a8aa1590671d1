package scraper

import (
	"context"

	"tokscraper/pkg/errors"
	"tokscraper/pkg/tiktok"
)

// GetUserProfileInfo fetches the full profile record for a username.
// The input may carry an @ prefix or be a profile URL.
func (s *Scraper) GetUserProfileInfo(ctx context.Context, input string) (*tiktok.UserProfile, error) {
	username := tiktok.SanitizeIdentifier(input)
	if username == "" {
		return nil, errors.MissingInput("Username is missing")
	}

	resp, err := s.client.FetchUserInfo(ctx, username)
	if err != nil {
		if errors.IsKind(err, errors.KindNotFound) {
			return nil, errors.NotFound("user", username)
		}
		return nil, err
	}
	if resp.StatusCode != 0 || resp.Body.UserData.UserID == "" {
		return nil, errors.NotFound("user", username)
	}
	return &resp.Body.UserData, nil
}

// GetHashtagInfo fetches the full challenge record for a hashtag.
// The input may carry a # prefix or be a tag URL.
func (s *Scraper) GetHashtagInfo(ctx context.Context, input string) (*tiktok.HashtagInfo, error) {
	name := tiktok.SanitizeIdentifier(input)
	if name == "" {
		return nil, errors.MissingInput("Hashtag is missing")
	}

	resp, err := s.client.FetchChallengeInfo(ctx, name)
	if err != nil {
		if errors.IsKind(err, errors.KindNotFound) {
			return nil, errors.NotFound("hashtag", name)
		}
		return nil, err
	}
	if resp.StatusCode != 0 || resp.Body.ChallengeData.ChallengeID == "" {
		return nil, errors.NotFound("hashtag", name)
	}
	return &resp.Body.ChallengeData, nil
}

// GetUserID resolves a username into a listing target
func (s *Scraper) GetUserID(ctx context.Context, input string) (*tiktok.ScrapeTarget, error) {
	profile, err := s.GetUserProfileInfo(ctx, input)
	if err != nil {
		if errors.IsKind(err, errors.KindMissingInput) {
			return nil, errors.MissingInput("Missing input")
		}
		return nil, err
	}
	return &tiktok.ScrapeTarget{
		ID:        profile.UserID,
		SecUID:    "",
		Type:      tiktok.TypeUser,
		Count:     tiktok.DefaultUserPageSize,
		MinCursor: 0,
	}, nil
}

// GetHashTagID resolves a hashtag into a listing target
func (s *Scraper) GetHashTagID(ctx context.Context, input string) (*tiktok.ScrapeTarget, error) {
	challenge, err := s.GetHashtagInfo(ctx, input)
	if err != nil {
		if errors.IsKind(err, errors.KindMissingInput) {
			return nil, errors.MissingInput("Missing input")
		}
		return nil, err
	}
	return &tiktok.ScrapeTarget{
		ID:        challenge.ChallengeID,
		SecUID:    "",
		Type:      tiktok.TypeHashtag,
		Count:     tiktok.DefaultHashtagPageSize,
		MinCursor: 0,
	}, nil
}

// SignURL signs a literal URL without any target lookup
func (s *Scraper) SignURL(ctx context.Context, rawurl string) (string, error) {
	if rawurl == "" {
		return "", errors.MissingInput("Url is missing")
	}
	return s.signer.Sign(ctx, rawurl)
}
