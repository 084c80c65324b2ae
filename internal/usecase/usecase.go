package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/reelify/reelify/internal/domain/reels"
	"github.com/reelify/reelify/internal/domain/selection"
	"github.com/reelify/reelify/internal/ports"
	"github.com/reelify/reelify/internal/types"
)

type Deps struct {
	Video    ports.VideoTool
	ASR      ports.Transcriber
	Selector selection.Selector
	Log      zerolog.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	InputVideo string
	ReelCount  int
	// ReelDuration is the target clip length in seconds.
	ReelDuration float64
	CacheDir     string
	OutDir       string
}

// Run sequences extraction, transcription, selection and cutting. It always
// returns a well-formed result: stage failures become Success=false with a
// human-readable Error, and per-clip failures are skipped, not fatal.
func (u Usecase) Run(ctx context.Context, in Input) types.ProcessingResult {
	if _, err := os.Stat(in.InputVideo); err != nil {
		return failure(&types.InputError{Path: in.InputVideo, Err: err})
	}

	wav := filepath.Join(in.CacheDir, "audio.wav")
	// The wav is removed exactly once no matter which stage fails; a failed
	// extraction may still leave a partial file behind.
	defer os.Remove(wav)

	if err := u.d.Video.ExtractAudioPCM16k(ctx, in.InputVideo, wav); err != nil {
		return failure(err)
	}

	tr, err := u.d.ASR.Transcribe(ctx, wav, in.CacheDir)
	if err != nil {
		return failure(err)
	}
	u.d.Log.Info().Int("segments", len(tr.Segments)).Msg("transcription complete")

	selected := u.d.Selector.Select(ctx, tr, in.ReelCount)
	u.d.Log.Info().Int("selected", len(selected)).Msg("segments selected")

	srcDur, err := u.d.Video.ProbeDuration(ctx, in.InputVideo)
	if err != nil {
		// Without a probed duration windows are only clamped at zero; ffmpeg
		// handles cuts past EOF on its own.
		u.d.Log.Warn().Err(err).Msg("probe source duration failed, skipping end clamp")
		srcDur = 0
	}

	specs := reels.BuildSpecs(selected, in.ReelDuration, srcDur)

	out := make([]types.Reel, 0, len(specs))
	for i, spec := range specs {
		clipPath := filepath.Join(in.OutDir, "clips", fmt.Sprintf("reel_%03d.mp4", i+1))
		if err := u.d.Video.CutClip(ctx, in.InputVideo, spec.ClipStart, spec.Duration(), clipPath); err != nil {
			u.d.Log.Warn().Err(err).Int("segment", spec.Segment.Index).Msg("clip cut failed, skipping segment")
			continue
		}
		out = append(out, types.Reel{
			FilePath:    clipPath,
			Duration:    spec.Duration(),
			SegmentText: spec.Segment.Text,
			StartSec:    spec.ClipStart,
			EndSec:      spec.ClipEnd,
		})
	}
	if len(out) < len(specs) {
		u.d.Log.Warn().Int("produced", len(out)).Int("attempted", len(specs)).Msg("some clips failed")
	}

	return types.ProcessingResult{Success: true, Reels: out, Transcript: &tr}
}

func failure(err error) types.ProcessingResult {
	return types.ProcessingResult{Success: false, Reels: []types.Reel{}, Error: err.Error()}
}
