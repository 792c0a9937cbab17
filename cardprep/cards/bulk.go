package cards

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	internal "github.com/xremming/cardprep/cardprep"
)

// BulkType selects which Scryfall bulk export to fetch.
type BulkType string

const (
	BulkOracleCards BulkType = "oracle_cards"
	BulkAllCards    BulkType = "all_cards"
)

// Client streams Scryfall bulk data. Requests go through a rate limiter to
// stay inside Scryfall's published request budget.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL points the client at a different bulk-data endpoint, mainly for
// tests.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithRateLimit overrides the default request rate.
func WithRateLimit(l *rate.Limiter) ClientOption {
	return func(c *Client) { c.limiter = l }
}

// NewClient returns a bulk-data client with sane defaults: 10 requests per
// second (Scryfall asks for 50-100ms between requests) and a generous timeout
// for the large bulk files.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Minute},
		limiter:    rate.NewLimiter(rate.Every(100*time.Millisecond), 1),
		baseURL:    internal.DefaultBulkDataURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stream fetches the bulk export and calls fn once per card line. Lines that
// fail to decode are reported to decodeErr (when non-nil) and skipped, the
// same forgiving posture the bulk files require: they are JSON arrays written
// one element per line, so the bracket lines never parse.
func (c *Client) Stream(ctx context.Context, typ BulkType, fn func(json.RawMessage) error, decodeErr func(line string)) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	u := fmt.Sprintf("%s/%s?format=file", c.baseURL, typ)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build bulk request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bulk request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bulk request for %s: unexpected status %s", typ, resp.Status)
	}

	return streamLines(resp.Body, fn, decodeErr)
}

// DownloadTo streams the bulk export into a JSONL file, one card per line.
// The stream goes to a temp file that is renamed into place only on success,
// so an aborted download never leaves a truncated file that Cached would
// later mistake for a complete one.
func (c *Client) DownloadTo(ctx context.Context, typ BulkType, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".bulk-*")
	if err != nil {
		return fmt.Errorf("failed to create temp bulk file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	n := 0
	err = c.Stream(ctx, typ, func(raw json.RawMessage) error {
		if _, werr := w.Write(raw); werr != nil {
			return werr
		}
		if werr := w.WriteByte('\n'); werr != nil {
			return werr
		}
		n++
		return nil
	}, func(line string) {
		slog.Debug("skipping undecodable bulk line", "len", len(line))
	})
	if err != nil {
		tmp.Close()
		return fmt.Errorf("failed to download %s: %w", typ, err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write bulk file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close bulk file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move bulk file into place: %w", err)
	}

	slog.Info("downloaded bulk data", "type", string(typ), "cards", n, "path", path)
	return nil
}

// Cached returns path, downloading the bulk export into it first when the
// file does not exist yet.
func (c *Client) Cached(ctx context.Context, typ BulkType, path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := c.DownloadTo(ctx, typ, path); err != nil {
		return "", err
	}
	return path, nil
}

// IterFile walks a JSONL bulk file on disk, calling fn per decoded line.
// Lines that do not start with '{' are skipped.
func IterFile(path string, fn func(json.RawMessage) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open bulk file: %w", err)
	}
	defer f.Close()

	return streamLines(f, fn, nil)
}

// DecodeCards decodes raw card lines into Card values. Cards that fail to
// validate are reported to invalid (when non-nil) and skipped; the bulk files
// always contain a few records that predate the current schema.
func DecodeCards(path string, fn func(Card) error, invalid func(line string, err error)) error {
	return IterFile(path, func(raw json.RawMessage) error {
		var card Card
		if err := json.Unmarshal(raw, &card); err != nil {
			if invalid != nil {
				invalid(string(raw), err)
			}
			return nil
		}
		if card.OracleID == uuid.Nil {
			if invalid != nil {
				invalid(string(raw), fmt.Errorf("card without oracle_id"))
			}
			return nil
		}
		return fn(card)
	})
}

func streamLines(r io.Reader, fn func(json.RawMessage) error, decodeErr func(line string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		line = strings.TrimSuffix(line, ",")
		if !strings.HasPrefix(line, "{") {
			continue
		}
		if !json.Valid([]byte(line)) {
			if decodeErr != nil {
				decodeErr(line)
			}
			continue
		}
		if err := fn(json.RawMessage(line)); err != nil {
			return err
		}
	}
	return scanner.Err()
}
