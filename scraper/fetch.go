package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/use-agent/gfgprofile/config"
	"github.com/use-agent/gfgprofile/models"
)

// Fetcher retrieves a user's public profile page, trying candidate URLs in
// priority order and returning the body of the first 200 response.
type Fetcher struct {
	client  *http.Client
	cfg     config.FetchConfig
	limiter *rate.Limiter
}

// NewFetcher creates a Fetcher with a Chrome TLS fingerprint transport.
func NewFetcher(cfg config.FetchConfig) *Fetcher {
	transport := &http.Transport{
		DialTLSContext: dialTLSChrome,
	}
	return &Fetcher{
		client:  &http.Client{Transport: transport},
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

// FetchProfile GETs each candidate URL until one answers 200 and returns its
// body. There is no retry and no backoff: a candidate gets exactly one
// attempt, and exhausting the list means the profile is gone or private.
func (f *Fetcher) FetchProfile(ctx context.Context, username string) ([]byte, error) {
	if username == "" {
		return nil, models.NewPipelineError(models.ErrCodeInvalidInput, "username must not be empty", nil)
	}

	for _, tpl := range f.cfg.URLTemplates {
		target := fmt.Sprintf(tpl, url.PathEscape(username))

		if err := f.limiter.Wait(ctx); err != nil {
			return nil, models.NewPipelineError(models.ErrCodeFetchFailed, "rate limiter interrupted", err)
		}

		body, err := f.fetchOne(ctx, target)
		if err != nil {
			slog.Debug("candidate URL failed", "url", target, "error", err)
			continue
		}
		slog.Debug("candidate URL succeeded", "url", target, "bytes", len(body))
		return body, nil
	}

	return nil, models.NewPipelineError(models.ErrCodeProfileNotFound, "profile not found or private", nil)
}

// fetchOne performs a single GET with the fixed User-Agent and per-request
// timeout. Anything other than HTTP 200 counts as a failure.
func (f *Fetcher) fetchOne(ctx context.Context, target string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, target)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return body, nil
}
