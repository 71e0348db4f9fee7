package main

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/use-agent/gfgprofile/config"
	"github.com/use-agent/gfgprofile/llm"
	"github.com/use-agent/gfgprofile/pipeline"
	"github.com/use-agent/gfgprofile/scraper"
	"github.com/use-agent/gfgprofile/store"
)

var outputPath string

var rootCmd = &cobra.Command{
	Use:          "gfgprofile <username>",
	Short:        "Fetch a GeeksforGeeks profile and normalize it to canonical JSON via an LLM",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"output file path (default: GFG_OUTPUT_PATH or output.json)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// ── 1. Load configuration (.env is optional, real env wins) ─────
	_ = godotenv.Load()
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)

	// ── 3. Fail fast on missing credentials, before any work ────────
	if err := cfg.Validate(); err != nil {
		return err
	}

	path := cfg.Output.Path
	if outputPath != "" {
		path = outputPath
	}

	// ── 4. Assemble and run the pipeline ────────────────────────────
	p := pipeline.New(
		scraper.NewFetcher(cfg.Fetch),
		llm.NewClient(cfg.LLM, nil),
		store.New(path),
	)

	profile, err := p.Run(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	// ── 5. Print the validated profile on stdout ────────────────────
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(profile)
}

// initLogger configures slog based on the LogConfig. Handlers write to
// stderr because stdout carries the result JSON.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
