package cards

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const bulkBody = `[
{"object": "card", "oracle_id": "56ebc372-aabd-4174-a943-c7bf59e5028d", "name": "Grizzly Bears", "set": "lea", "image_status": "highres_scan", "layout": "normal", "frame": "1993", "type_line": "Creature — Bear", "colors": ["G"], "image_uris": {"small": "https://cards.example/s.jpg"}},
this line is not json,
{"object": "card", "name": "No Oracle ID", "set": "lea", "image_status": "highres_scan", "layout": "normal", "frame": "1993", "type_line": "Sorcery"},
{"object": "card", "oracle_id": "a3fb7228-e76b-4e96-a40e-20b5fed75685", "name": "Ancestral Recall", "set": "lea", "image_status": "highres_scan", "layout": "normal", "frame": "1993", "type_line": "Instant", "colors": ["U"], "image_uris": {"small": "https://cards.example/a.jpg"}}
]`

func testClient(t *testing.T) (*Client, *int) {
	t.Helper()
	requests := new(int)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*requests++
		assert.Equal(t, "file", r.URL.Query().Get("format"))
		fmt.Fprint(w, bulkBody)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(
		WithBaseURL(srv.URL),
		WithRateLimit(rate.NewLimiter(rate.Inf, 1)),
	)
	return c, requests
}

func TestStream(t *testing.T) {
	c, _ := testClient(t)

	var names []string
	var badLines int
	err := c.Stream(context.Background(), BulkOracleCards, func(raw json.RawMessage) error {
		var card struct {
			Name string `json:"name"`
		}
		require.NoError(t, json.Unmarshal(raw, &card))
		names = append(names, card.Name)
		return nil
	}, func(string) { badLines++ })
	require.NoError(t, err)

	// bracket lines and the non-json line are skipped
	assert.Equal(t, []string{"Grizzly Bears", "No Oracle ID", "Ancestral Recall"}, names)
	assert.Equal(t, 0, badLines)
}

func TestStreamHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(WithBaseURL(srv.URL), WithRateLimit(rate.NewLimiter(rate.Inf, 1)))
	err := c.Stream(context.Background(), BulkOracleCards, func(json.RawMessage) error { return nil }, nil)
	assert.Error(t, err)
}

func TestDownloadToAndIterFile(t *testing.T) {
	c, _ := testClient(t)

	path := filepath.Join(t.TempDir(), "oracle.jsonl")
	require.NoError(t, c.DownloadTo(context.Background(), BulkOracleCards, path))

	var count int
	require.NoError(t, IterFile(path, func(json.RawMessage) error {
		count++
		return nil
	}))
	assert.Equal(t, 3, count)
}

func TestCached(t *testing.T) {
	c, requests := testClient(t)
	path := filepath.Join(t.TempDir(), "oracle.jsonl")

	got, err := c.Cached(context.Background(), BulkOracleCards, path)
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, 1, *requests)

	// second call hits the cache, not the network
	_, err = c.Cached(context.Background(), BulkOracleCards, path)
	require.NoError(t, err)
	assert.Equal(t, 1, *requests)
}

func TestDecodeCards(t *testing.T) {
	c, _ := testClient(t)
	path := filepath.Join(t.TempDir(), "oracle.jsonl")
	require.NoError(t, c.DownloadTo(context.Background(), BulkOracleCards, path))

	var names []string
	var skipped int
	err := DecodeCards(path, func(card Card) error {
		names = append(names, card.Name)
		return nil
	}, func(line string, err error) { skipped++ })
	require.NoError(t, err)

	assert.Equal(t, []string{"Grizzly Bears", "Ancestral Recall"}, names)
	assert.Equal(t, 1, skipped, "card without oracle_id is skipped")
}

func TestCachedDoesNotKeepAbortedDownload(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) > 1 {
			fmt.Fprint(w, bulkBody)
			return
		}
		// abort the first transfer mid-body
		w.Header().Set("Content-Length", strconv.Itoa(len(bulkBody)))
		io.WriteString(w, bulkBody[:40])
		conn, _, err := w.(http.Hijacker).Hijack()
		require.NoError(t, err)
		conn.Close()
	}))
	t.Cleanup(srv.Close)

	c := NewClient(WithBaseURL(srv.URL), WithRateLimit(rate.NewLimiter(rate.Inf, 1)))
	path := filepath.Join(t.TempDir(), "oracle.jsonl")

	_, err := c.Cached(context.Background(), BulkOracleCards, path)
	require.Error(t, err)

	// the aborted transfer must not leave a truncated file behind
	_, statErr := os.Stat(path)
	assert.ErrorIs(t, statErr, os.ErrNotExist)

	// the retry downloads again instead of serving a partial cache
	got, err := c.Cached(context.Background(), BulkOracleCards, path)
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.EqualValues(t, 2, requests.Load())

	var count int
	require.NoError(t, IterFile(path, func(json.RawMessage) error {
		count++
		return nil
	}))
	assert.Equal(t, 3, count)
}

func TestIterFileMissing(t *testing.T) {
	err := IterFile(filepath.Join(t.TempDir(), "absent.jsonl"), func(json.RawMessage) error { return nil })
	assert.ErrorIs(t, err, os.ErrNotExist)
}
