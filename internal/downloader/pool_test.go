package downloader

import (
	"context"
	"io"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokscraper/pkg/errors"
	"tokscraper/pkg/logger"
	"tokscraper/pkg/retry"
)

// mockClient is a mock media downloader
type mockClient struct {
	delay    time.Duration
	failURLs map[string]bool
	inFlight int32
	maxSeen  int32
	calls    int32
}

func (m *mockClient) DownloadMedia(ctx context.Context, url string) ([]byte, error) {
	atomic.AddInt32(&m.calls, 1)

	cur := atomic.AddInt32(&m.inFlight, 1)
	defer atomic.AddInt32(&m.inFlight, -1)
	for {
		max := atomic.LoadInt32(&m.maxSeen)
		if cur <= max || atomic.CompareAndSwapInt32(&m.maxSeen, max, cur) {
			break
		}
	}

	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.failURLs[url] {
		return nil, errors.WithCode(errors.KindNotFound, 404, "media gone")
	}
	return []byte("media for " + url), nil
}

// mockStorage is an in-memory media store
type mockStorage struct {
	mu      sync.Mutex
	saved   map[string][]byte
	saveErr error
}

func newMockStorage() *mockStorage {
	return &mockStorage{saved: make(map[string][]byte)}
}

func (m *mockStorage) IsDownloaded(postID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.saved[postID]
	return ok
}

func (m *mockStorage) MediaPath(postID string) string {
	return "/media/" + postID + ".mp4"
}

func (m *mockStorage) SaveMedia(r io.Reader, postID string) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	buf, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	m.saved[postID] = buf
	m.mu.Unlock()
	return m.MediaPath(postID), nil
}

func fastRetry() *retry.Config {
	return &retry.Config{
		MaxAttempts: 1,
		Backoff:     &retry.ConstantBackoff{Delay: time.Millisecond},
		RetryIf:     retry.DefaultRetryIf,
		Context:     context.Background(),
		Logger:      logger.NewTestLogger(),
	}
}

func makeTasks(n int) []Task {
	tasks := make([]Task, n)
	for i := range tasks {
		tasks[i] = Task{
			PostID:   fmt.Sprintf("post%d", i),
			MediaURL: fmt.Sprintf("https://cdn.example/v%d.mp4", i),
		}
	}
	return tasks
}

func TestPoolDownloadsAll(t *testing.T) {
	client := &mockClient{}
	store := newMockStorage()
	pool, err := NewPool(3, client, store, nil, fastRetry(), logger.NewTestLogger())
	require.NoError(t, err)

	tasks := makeTasks(10)
	results := pool.Run(context.Background(), tasks)

	require.Len(t, results, 10)
	for i, r := range results {
		assert.Equal(t, tasks[i].PostID, r.PostID, "results must preserve task order")
		assert.NoError(t, r.Err)
		assert.NotEmpty(t, r.Path)
	}
	assert.Equal(t, 10, len(store.saved))
}

func TestPoolBoundsConcurrency(t *testing.T) {
	client := &mockClient{delay: 20 * time.Millisecond}
	store := newMockStorage()
	pool, err := NewPool(3, client, store, nil, fastRetry(), logger.NewTestLogger())
	require.NoError(t, err)

	pool.Run(context.Background(), makeTasks(12))

	assert.LessOrEqual(t, atomic.LoadInt32(&client.maxSeen), int32(3))
}

func TestOneFailureDoesNotDiscardOthers(t *testing.T) {
	tasks := makeTasks(5)
	client := &mockClient{failURLs: map[string]bool{tasks[2].MediaURL: true}}
	store := newMockStorage()
	pool, err := NewPool(2, client, store, nil, fastRetry(), logger.NewTestLogger())
	require.NoError(t, err)

	results := pool.Run(context.Background(), tasks)

	require.Len(t, results, 5)
	failed := 0
	for i, r := range results {
		if i == 2 {
			assert.Error(t, r.Err)
			failed++
		} else {
			assert.NoError(t, r.Err)
		}
	}
	assert.Equal(t, 1, failed)
	assert.Equal(t, 4, len(store.saved))
}

func TestSkipsAlreadyDownloaded(t *testing.T) {
	client := &mockClient{}
	store := newMockStorage()
	store.saved["post0"] = []byte("existing")

	pool, err := NewPool(2, client, store, nil, fastRetry(), logger.NewTestLogger())
	require.NoError(t, err)

	results := pool.Run(context.Background(), makeTasks(3))

	assert.NoError(t, results[0].Err)
	assert.Equal(t, "/media/post0.mp4", results[0].Path)
	assert.Equal(t, int32(2), atomic.LoadInt32(&client.calls))
}

func TestEmptyMediaURLFailsTask(t *testing.T) {
	client := &mockClient{}
	store := newMockStorage()
	pool, err := NewPool(1, client, store, nil, fastRetry(), logger.NewTestLogger())
	require.NoError(t, err)

	results := pool.Run(context.Background(), []Task{{PostID: "p", MediaURL: ""}})
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&client.calls))
}

func TestInvalidConcurrencyRejected(t *testing.T) {
	_, err := NewPool(0, &mockClient{}, newMockStorage(), nil, fastRetry(), logger.NewTestLogger())
	require.Error(t, err)
	assert.Equal(t, errors.KindDownload, errors.KindOf(err))
}
