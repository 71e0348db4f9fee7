// Package pipeline wires the fetch → extract → normalize → validate →
// persist flow. Control flow is strictly linear and synchronous: every
// failure is terminal for the run and nothing is written until the
// normalizer's output has fully validated.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/use-agent/gfgprofile/extractor"
	"github.com/use-agent/gfgprofile/llm"
	"github.com/use-agent/gfgprofile/models"
	"github.com/use-agent/gfgprofile/scraper"
	"github.com/use-agent/gfgprofile/store"
)

// Pipeline runs the single-shot profile conversion.
type Pipeline struct {
	fetcher    *scraper.Fetcher
	normalizer *llm.Client
	store      *store.Store
}

// New assembles a Pipeline from its stages.
func New(fetcher *scraper.Fetcher, normalizer *llm.Client, st *store.Store) *Pipeline {
	return &Pipeline{fetcher: fetcher, normalizer: normalizer, store: st}
}

// Run converts one username into a validated, persisted Profile.
func (p *Pipeline) Run(ctx context.Context, username string) (*models.Profile, error) {
	totalStart := time.Now()

	// ── 1. Fetch ────────────────────────────────────────────────────
	fetchStart := time.Now()
	markup, err := p.fetcher.FetchProfile(ctx, username)
	if err != nil {
		return nil, err
	}
	slog.Info("fetched profile page",
		"username", username,
		"bytes", len(markup),
		"durationMs", time.Since(fetchStart).Milliseconds(),
	)

	// ── 2. Extract ──────────────────────────────────────────────────
	fields := extractor.Extract(string(markup))
	slog.Debug("extracted fields",
		"displayName", fields.DisplayName != "",
		"badges", len(fields.Badges),
		"skills", len(fields.TopSkills),
	)

	// ── 3. Normalize via model ──────────────────────────────────────
	normStart := time.Now()
	result, err := p.normalizer.Normalize(ctx, username, fields)
	if err != nil {
		return nil, err
	}
	slog.Info("normalized profile",
		"durationMs", time.Since(normStart).Milliseconds(),
		"promptTokens", result.Usage.PromptTokens,
		"completionTokens", result.Usage.CompletionTokens,
	)

	// ── 4. Validate ─────────────────────────────────────────────────
	profile, err := models.ParseProfile(result.Data)
	if err != nil {
		return nil, err
	}

	// ── 5. Persist ──────────────────────────────────────────────────
	if err := p.store.Write(profile); err != nil {
		return nil, err
	}

	slog.Info("run complete",
		"username", username,
		"output", p.store.Path(),
		"totalMs", time.Since(totalStart).Milliseconds(),
	)
	return profile, nil
}
