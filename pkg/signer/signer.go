// Package signer computes the per-request signature token the platform
// demands on listing requests. The derivation is isolated behind Token so the
// rest of the engine is untouched when the upstream scheme changes.
package signer

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"regexp"
	"sync"

	"golang.org/x/crypto/pbkdf2"

	"tokscraper/pkg/errors"
	"tokscraper/pkg/logger"
)

const (
	keySalt       = "tac-v1"
	keyIterations = 4096
	keySize       = 32
	tokenBytes    = 20
)

// tacPattern matches the session secret embedded in the platform's web page
var tacPattern = regexp.MustCompile(`tac\s*=\s*['"]([^'"]+)['"]`)

// PageFetcher fetches a raw page body; satisfied by tiktok.Client
type PageFetcher interface {
	GetBody(ctx context.Context, url string) (string, error)
}

// Signer owns the session-bound tac secret and signs listing URLs with it.
// The secret is fetched once per instance; a failed bootstrap is cached and
// every later Sign call fails rather than silently retrying.
type Signer struct {
	fetcher PageFetcher
	webURL  string
	logger  logger.Logger

	once    sync.Once
	tac     string
	bootErr error
}

// New creates a Signer that bootstraps its secret from the given web URL
func New(fetcher PageFetcher, webURL string, log logger.Logger) *Signer {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Signer{
		fetcher: fetcher,
		webURL:  webURL,
		logger:  log,
	}
}

// Bootstrap fetches and caches the tac value. Safe to call more than once;
// only the first call does work.
func (s *Signer) Bootstrap(ctx context.Context) error {
	s.once.Do(func() {
		body, err := s.fetcher.GetBody(ctx, s.webURL)
		if err != nil {
			s.bootErr = errors.Newf(errors.KindSignature, "tac bootstrap failed: %v", err)
			s.logger.WithError(err).Error("signature bootstrap failed")
			return
		}

		m := tacPattern.FindStringSubmatch(body)
		if m == nil {
			s.bootErr = errors.New(errors.KindSignature, "tac value not found in page")
			s.logger.Error("tac value not found in bootstrap page")
			return
		}

		s.tac = m[1]
		s.logger.Debug("tac value bootstrapped")
	})
	return s.bootErr
}

// TacValue returns the cached secret, bootstrapping it if needed
func (s *Signer) TacValue(ctx context.Context) (string, error) {
	if err := s.Bootstrap(ctx); err != nil {
		return "", err
	}
	return s.tac, nil
}

// Sign computes the signature token for a listing URL using the session
// secret, bootstrapping it on first use.
func (s *Signer) Sign(ctx context.Context, rawurl string) (string, error) {
	if rawurl == "" {
		return "", errors.MissingInput("Url is missing")
	}
	if err := s.Bootstrap(ctx); err != nil {
		return "", err
	}
	return Token(rawurl, s.tac)
}

// Token computes the signature for a URL against an explicit secret. Pure
// and deterministic for a fixed (url, secret) pair.
func Token(rawurl, secret string) (string, error) {
	if rawurl == "" {
		return "", errors.MissingInput("Url is missing")
	}
	if secret == "" {
		return "", errors.New(errors.KindSignature, "signing secret is empty")
	}

	u, err := url.Parse(rawurl)
	if err != nil || !u.IsAbs() {
		return "", errors.Newf(errors.KindSignature, "url is not absolute: %s", rawurl)
	}

	key := pbkdf2.Key([]byte(secret), []byte(keySalt), keyIterations, keySize, sha256.New)
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(rawurl))
	sum := mac.Sum(nil)

	return "_" + base64.RawURLEncoding.EncodeToString(sum[:tokenBytes]), nil
}
