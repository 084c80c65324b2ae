package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/reelify/reelify/internal/pipeline"
)

func run(cmd *cobra.Command, input string) error {
	outDir, _ := cmd.Flags().GetString("out")
	reelCount, _ := cmd.Flags().GetInt("reels")
	reelDuration, _ := cmd.Flags().GetInt("duration")
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = getenvDefault("REELIFY_DB", "reelify.db")
	}

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Hour)
	defer cancel()

	cfg := pipeline.Config{
		InputVideo:   absIn,
		OutDir:       outDir,
		ReelCount:    reelCount,
		ReelDuration: reelDuration,

		CacheDir:  getenvDefault("REELIFY_CACHE_DIR", ".cache"),
		HistoryDB: dbPath,

		FFmpegPath:  getenvDefault("FFMPEG_PATH", "ffmpeg"),
		FFprobePath: getenvDefault("FFPROBE_PATH", "ffprobe"),

		WhisperBin:   getenvDefault("WHISPER_BIN", ".cache/bin/whisper.cpp"),
		WhisperModel: getenvDefault("WHISPER_MODEL", ".cache/models/ggml-base.bin"),

		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        getenvDefault("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAIBaseURL:      getenvDefault("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIAllowedHosts: splitHosts(os.Getenv("OPENAI_ALLOWED_HOSTS")),

		Log: newLogger(),
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	res, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("processing failed: %s", res.Error)
	}
	return nil
}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(getenvDefault("REELIFY_LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func splitHosts(s string) []string {
	var out []string
	for _, h := range strings.Split(s, ",") {
		h = strings.TrimSpace(h)
		if h != "" {
			out = append(out, h)
		}
	}
	return out
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
