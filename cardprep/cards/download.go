package cards

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sourcegraph/conc/pool"
	"golang.org/x/time/rate"
)

// ImageJob is one pending card image: where to put it and where it lives.
type ImageJob struct {
	Path string
	URL  string
}

// ImageDownloader fetches card scans concurrently. Files that already exist
// are skipped, so interrupted runs resume where they stopped.
type ImageDownloader struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	workers    int
}

// NewImageDownloader returns a downloader running at most workers concurrent
// fetches.
func NewImageDownloader(workers int) *ImageDownloader {
	if workers <= 0 {
		workers = 4
	}
	return &ImageDownloader{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(100*time.Millisecond), workers),
		workers:    workers,
	}
}

// Jobs builds the download list for a set of printings rooted at dir, using
// each card's preferred filename.
func Jobs(dir string, printings []PhysicalCard) []ImageJob {
	jobs := make([]ImageJob, 0, len(printings))
	for _, p := range printings {
		jobs = append(jobs, ImageJob{
			Path: filepath.Join(dir, p.PreferredFilename()),
			URL:  p.ImageURIs.Small,
		})
	}
	return jobs
}

// Download runs all jobs through a bounded worker pool. The first error
// cancels the remaining jobs.
func (d *ImageDownloader) Download(ctx context.Context, jobs []ImageJob) error {
	p := pool.New().WithMaxGoroutines(d.workers).WithContext(ctx).WithCancelOnError()
	for _, job := range jobs {
		job := job
		p.Go(func(ctx context.Context) error {
			return d.fetch(ctx, job)
		})
	}
	if err := p.Wait(); err != nil {
		return fmt.Errorf("image download failed: %w", err)
	}
	return nil
}

func (d *ImageDownloader) fetch(ctx context.Context, job ImageJob) error {
	if _, err := os.Stat(job.Path); err == nil {
		return nil
	}
	if err := d.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, job.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to build image request: %w", err)
	}
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("image request for %s: unexpected status %s", job.URL, resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(job.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}

	// write to a temp file first so a killed run never leaves a truncated
	// image that a later resume would skip
	tmp, err := os.CreateTemp(filepath.Dir(job.Path), ".download-*")
	if err != nil {
		return fmt.Errorf("failed to create temp image file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), job.Path); err != nil {
		return fmt.Errorf("failed to move image into place: %w", err)
	}

	slog.Debug("downloaded image", "path", job.Path)
	return nil
}
