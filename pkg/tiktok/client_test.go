package tiktok

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokscraper/pkg/config"
	"tokscraper/pkg/errors"
	"tokscraper/pkg/logger"
)

func testConfig(baseURL string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.TikTok.BaseURL = baseURL
	cfg.TikTok.WebURL = baseURL
	cfg.RateLimit.RequestsPerMinute = 6000
	cfg.RateLimit.BurstSize = 100
	cfg.Download.DownloadTimeout = 5 * time.Second
	return cfg
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(testConfig(baseURL), logger.NewTestLogger())
	require.NoError(t, err)
	return client
}

func TestGetJSONDecodesResponse(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		json.NewEncoder(w).Encode(ItemListResponse{
			StatusCode: 0,
			HasMore:    true,
			MaxCursor:  99,
			Items:      []Post{{ID: "p1"}},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	resp, err := client.FetchItemList(context.Background(), server.URL+"/share/item/list?id=1")
	require.NoError(t, err)
	assert.True(t, resp.HasMore)
	assert.Equal(t, int64(99), resp.MaxCursor)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		status int
		kind   errors.Kind
	}{
		{http.StatusNotFound, errors.KindNotFound},
		{http.StatusTooManyRequests, errors.KindRateLimit},
		{http.StatusInternalServerError, errors.KindServer},
		{http.StatusBadGateway, errors.KindServer},
		{http.StatusForbidden, errors.KindUnknown},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		client := newTestClient(t, server.URL)
		err := client.GetJSON(context.Background(), server.URL+"/x", &struct{}{})
		require.Error(t, err)
		assert.Equal(t, tt.kind, errors.KindOf(err), "status %d", tt.status)

		server.Close()
	}
}

func TestGetJSONParseFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	err := client.GetJSON(context.Background(), server.URL+"/x", &ItemListResponse{})
	require.Error(t, err)
	assert.Equal(t, errors.KindParsing, errors.KindOf(err))
}

func TestNetworkErrorKind(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := newTestClient(t, server.URL)
	_, err := client.Get(context.Background(), server.URL+"/x")
	require.Error(t, err)
	assert.Equal(t, errors.KindNetwork, errors.KindOf(err))
}

func TestDownloadMedia(t *testing.T) {
	payload := []byte("fake video bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	data, err := client.DownloadMedia(context.Background(), server.URL+"/v.mp4")
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestSessionCookieForwarded(t *testing.T) {
	var gotCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.TikTok.SessionCookie = "sid_tt=abc123"
	client, err := NewClient(cfg, logger.NewTestLogger())
	require.NoError(t, err)

	require.NoError(t, client.GetJSON(context.Background(), server.URL+"/x", &struct{}{}))
	assert.Equal(t, "sid_tt=abc123", gotCookie)
}

func TestInvalidProxyRejected(t *testing.T) {
	cfg := testConfig("https://m.tiktok.com")
	cfg.TikTok.Proxy = "://bad"
	_, err := NewClient(cfg, logger.NewTestLogger())
	assert.Error(t, err)
}
