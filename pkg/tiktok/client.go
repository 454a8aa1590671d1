package tiktok

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"tokscraper/pkg/config"
	"tokscraper/pkg/errors"
	"tokscraper/pkg/logger"
)

// Client talks to the TikTok web API
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	webURL     string
	limiter    *rate.Limiter
	logger     logger.Logger
}

// NewClient creates a new TikTok API client from the engine configuration.
// The proxy, user agent and session cookie are forwarded verbatim.
func NewClient(cfg *config.Config, log logger.Logger) (*Client, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	transport := &http.Transport{}
	if cfg.TikTok.Proxy != "" {
		proxyURL, err := url.Parse(cfg.TikTok.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url %q: %w", cfg.TikTok.Proxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	headers := map[string]string{
		"User-Agent":      cfg.TikTok.UserAgent,
		"Accept":          "application/json, text/plain, */*",
		"Accept-Language": "en-US,en;q=0.9",
		"Referer":         cfg.TikTok.WebURL + "/",
	}
	if cfg.TikTok.SessionCookie != "" {
		headers["Cookie"] = cfg.TikTok.SessionCookie
	}

	rpm := cfg.RateLimit.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}
	burst := cfg.RateLimit.BurstSize
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Download.DownloadTimeout,
			Transport: transport,
		},
		headers: headers,
		baseURL: cfg.TikTok.BaseURL,
		webURL:  cfg.TikTok.WebURL,
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst),
		logger:  log,
	}, nil
}

// BaseURL returns the configured API base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// WebURL returns the configured web front-end URL
func (c *Client) WebURL() string {
	return c.webURL
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// doRequest performs an HTTP request with the configured headers,
// waiting on the rate limiter first.
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, errors.Newf(errors.KindNetwork, "rate limiter wait: %v", err)
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errors.Newf(errors.KindNetwork, "network error: %v", err)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// Get performs a GET request to the specified URL
func (c *Client) Get(ctx context.Context, rawurl string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return nil, errors.Newf(errors.KindUnknown, "failed to create request: %v", err)
	}
	return c.doRequest(req)
}

// GetJSON performs a GET request and decodes the JSON response
func (c *Client) GetJSON(ctx context.Context, rawurl string, target interface{}) error {
	resp, err := c.Get(ctx, rawurl)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WithCode(errors.KindNetwork, resp.StatusCode,
			fmt.Sprintf("failed to read response body: %v", err))
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          rawurl,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return errors.WithCode(errors.KindParsing, resp.StatusCode,
			fmt.Sprintf("failed to parse JSON: %v", err))
	}

	return nil
}

// GetBody performs a GET request and returns the raw body as a string.
// Used by the signer's tac bootstrap against the web front-end.
func (c *Client) GetBody(ctx context.Context, rawurl string) (string, error) {
	resp, err := c.Get(ctx, rawurl)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.WithCode(errors.KindNetwork, resp.StatusCode,
			fmt.Sprintf("failed to read response body: %v", err))
	}

	return string(body), nil
}

// checkResponseStatus maps HTTP status codes onto engine error kinds
func (c *Client) checkResponseStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return errors.WithCode(errors.KindNotFound, resp.StatusCode, "resource not found")
	case resp.StatusCode == http.StatusTooManyRequests:
		c.logger.WarnWithFields("rate limit exceeded", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return errors.WithCode(errors.KindRateLimit, resp.StatusCode, "rate limit exceeded")
	case resp.StatusCode >= 500:
		c.logger.ErrorWithFields("server error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return errors.WithCode(errors.KindServer, resp.StatusCode, "server error")
	case resp.StatusCode >= 400:
		return errors.WithCode(errors.KindUnknown, resp.StatusCode,
			fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	default:
		return nil
	}
}

// FetchUserInfo resolves a username to its full profile record
func (c *Client) FetchUserInfo(ctx context.Context, username string) (*UserInfoResponse, error) {
	rawurl := UserInfoURL(c.baseURL, username)

	var response UserInfoResponse
	if err := c.GetJSON(ctx, rawurl, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// FetchChallengeInfo resolves a hashtag to its full challenge record
func (c *Client) FetchChallengeInfo(ctx context.Context, name string) (*ChallengeInfoResponse, error) {
	rawurl := ChallengeInfoURL(c.baseURL, name)

	var response ChallengeInfoResponse
	if err := c.GetJSON(ctx, rawurl, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// FetchItemList fetches one signed listing page
func (c *Client) FetchItemList(ctx context.Context, signedURL string) (*ItemListResponse, error) {
	var response ItemListResponse
	if err := c.GetJSON(ctx, signedURL, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// DownloadMedia downloads media bytes from the given URL
func (c *Client) DownloadMedia(ctx context.Context, mediaURL string) ([]byte, error) {
	resp, err := c.Get(ctx, mediaURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Newf(errors.KindNetwork, "failed to download media: %v", err)
	}

	c.logger.DebugWithFields("media downloaded", map[string]interface{}{
		"url":  mediaURL,
		"size": len(data),
	})

	return data, nil
}
