package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/reelify/reelify/internal/domain/selection"
	"github.com/reelify/reelify/internal/fingerprint"
	"github.com/reelify/reelify/internal/ports"
	"github.com/reelify/reelify/internal/ports/adapters/ffmpeg"
	"github.com/reelify/reelify/internal/ports/adapters/openai"
	"github.com/reelify/reelify/internal/ports/adapters/whispercpp"
	"github.com/reelify/reelify/internal/store"
	"github.com/reelify/reelify/internal/types"
	"github.com/reelify/reelify/internal/usecase"
)

const (
	MinReelCount    = 1
	MaxReelCount    = 5
	MinReelDuration = 15
	MaxReelDuration = 60
)

var allowedExtensions = map[string]struct{}{
	".mp4": {}, ".avi": {}, ".mov": {}, ".mkv": {}, ".wmv": {},
}

type Config struct {
	InputVideo string
	OutDir     string
	ReelCount  int
	// ReelDuration is the target clip length in whole seconds.
	ReelDuration int

	// CacheDir is the base directory for local artifacts (audio, transcripts).
	// If empty, defaults to ".cache".
	CacheDir string
	// HistoryDB is the SQLite path for processing history. Empty disables it.
	HistoryDB string

	FFmpegPath  string
	FFprobePath string

	WhisperBin   string
	WhisperModel string

	OpenAIAPIKey       string
	OpenAIModel        string
	OpenAIBaseURL      string
	OpenAIAllowedHosts []string

	Log zerolog.Logger
}

func (c Config) Validate() error {
	if c.InputVideo == "" {
		return errors.New("input is empty")
	}
	if _, err := os.Stat(c.InputVideo); err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(c.InputVideo))
	if _, ok := allowedExtensions[ext]; !ok {
		return fmt.Errorf("unsupported input extension %q", ext)
	}
	if c.ReelCount < MinReelCount || c.ReelCount > MaxReelCount {
		return fmt.Errorf("reels must be in [%d, %d]", MinReelCount, MaxReelCount)
	}
	if c.ReelDuration < MinReelDuration || c.ReelDuration > MaxReelDuration {
		return fmt.Errorf("duration must be in [%d, %d] seconds", MinReelDuration, MaxReelDuration)
	}
	if c.WhisperModel == "" {
		return errors.New("whisper model path is required")
	}
	return openai.ValidateBaseURL(c.OpenAIBaseURL, c.OpenAIAllowedHosts)
}

// Run wires the adapters, prepares the workspace, executes the pipeline and
// persists the run's artifacts (reels, transcript, manifest, history row).
func Run(ctx context.Context, cfg Config) (types.ProcessingResult, error) {
	log := cfg.Log

	v := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)
	asr := whispercpp.New(cfg.WhisperBin, cfg.WhisperModel)

	var ranker ports.Ranker
	if cfg.OpenAIAPIKey != "" {
		ranker = openai.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	} else {
		log.Warn().Msg("no API key configured, segment selection will use the deterministic fallback")
	}
	sel := selection.New(ranker, log)

	jobID, err := fingerprint.FromFile(cfg.InputVideo)
	if err != nil {
		return types.ProcessingResult{}, err
	}
	jobID = jobID[:12]

	baseCache := cfg.CacheDir
	if baseCache == "" {
		baseCache = ".cache"
	}
	cacheDir := filepath.Join(baseCache, "runs", jobID)
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return types.ProcessingResult{}, err
	}
	log.Info().Str("cache", cacheDir).Msg("workspace ready")

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "out"
	}
	runOutDir := buildRunOutDir(outDir, cfg.InputVideo, time.Now().UTC())
	if err := os.MkdirAll(filepath.Join(runOutDir, "clips"), 0o755); err != nil {
		return types.ProcessingResult{}, err
	}
	log.Info().Str("out", runOutDir).Msg("output run dir")

	started := time.Now().UTC()
	res := usecase.New(usecase.Deps{
		Video:    v,
		ASR:      asr,
		Selector: sel,
		Log:      log,
	}).Run(ctx, usecase.Input{
		InputVideo:   cfg.InputVideo,
		ReelCount:    cfg.ReelCount,
		ReelDuration: float64(cfg.ReelDuration),
		CacheDir:     cacheDir,
		OutDir:       runOutDir,
	})
	finished := time.Now().UTC()

	if res.Success {
		if err := writeArtifacts(runOutDir, cfg, res); err != nil {
			return types.ProcessingResult{}, err
		}
		log.Info().Int("reels", len(res.Reels)).Str("out", runOutDir).Msg("run complete")
	} else {
		log.Error().Str("error", res.Error).Msg("run failed")
	}

	recordHistory(ctx, cfg, log, res, started, finished)
	return res, nil
}

func writeArtifacts(runOutDir string, cfg Config, res types.ProcessingResult) error {
	if res.Transcript != nil {
		tb, err := json.MarshalIndent(res.Transcript, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal transcript: %w", err)
		}
		if err := os.WriteFile(filepath.Join(runOutDir, "transcript.json"), tb, 0o644); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(runOutDir, "transcript.txt"), []byte(res.Transcript.FullText+"\n"), 0o644); err != nil {
			return err
		}
	}

	m := types.Manifest{
		Input:          cfg.InputVideo,
		ReelsRequested: cfg.ReelCount,
		Reels:          res.Reels,
	}
	mb, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(runOutDir, "manifest.json"), mb, 0o644)
}

func recordHistory(
	ctx context.Context,
	cfg Config,
	log zerolog.Logger,
	res types.ProcessingResult,
	started, finished time.Time,
) {
	if cfg.HistoryDB == "" {
		return
	}
	st, err := store.Open(cfg.HistoryDB)
	if err != nil {
		// History is supplementary; a broken db must not fail the run.
		log.Warn().Err(err).Msg("history store unavailable")
		return
	}
	defer st.Close()

	status := store.StatusCompleted
	if !res.Success {
		status = store.StatusFailed
	}
	_, err = st.RecordRun(ctx, store.Run{
		InputName:      filepath.Base(cfg.InputVideo),
		StartedAt:      started,
		FinishedAt:     finished,
		ReelsRequested: cfg.ReelCount,
		ReelsGenerated: len(res.Reels),
		Status:         status,
		Error:          res.Error,
		Reels:          res.Reels,
	})
	if err != nil {
		log.Warn().Err(err).Msg("recording run history failed")
	}
}

func buildRunOutDir(outRoot, inputVideo string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(inputVideo), filepath.Ext(inputVideo))
	name = normalizePathSegment(name)
	if name == "" {
		name = "input"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", inputVideo, now.UTC().UnixNano())
	suffix := fingerprint.FromString(runSeed)[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// ensure adapters implement ports
var _ ports.VideoTool = (*ffmpeg.Adapter)(nil)
var _ ports.Transcriber = (*whispercpp.Adapter)(nil)
var _ ports.Ranker = (*openai.Adapter)(nil)
