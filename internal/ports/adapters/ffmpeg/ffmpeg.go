package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/reelify/reelify/internal/types"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

// ExtractAudioPCM16k demuxes the input's audio track into a mono 16 kHz
// 16-bit PCM wav file.
func (a *Adapter) ExtractAudioPCM16k(ctx context.Context, inVideo, outWav string) error {
	_, err := run(ctx, "ffmpeg extract audio", a.ffmpeg,
		"-y",
		"-i", inVideo,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		outWav,
	)
	return err
}

// CutClip cuts [startSec, startSec+durationSec) out of the source and
// re-encodes it as H.264 + AAC.
func (a *Adapter) CutClip(ctx context.Context, inVideo string, startSec, durationSec float64, outVideo string) error {
	_, err := run(ctx, "ffmpeg cut clip", a.ffmpeg,
		"-y",
		"-ss", fmtSeconds(startSec),
		"-i", inVideo,
		"-t", fmtSeconds(durationSec),
		"-vcodec", "libx264",
		"-acodec", "aac",
		"-crf", "23",
		"-preset", "medium",
		outVideo,
	)
	return err
}

func (a *Adapter) ProbeDuration(ctx context.Context, inVideo string) (float64, error) {
	b, err := run(ctx, "ffprobe duration", a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inVideo,
	)
	if err != nil {
		return 0, err
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}

// run is the single entry point for tool invocation: argument lists only
// (never a shell string), non-zero exit mapped to MediaToolError with the
// tool's combined output as the diagnostic.
func run(ctx context.Context, op, bin string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return nil, &types.MediaToolError{Op: op, Output: string(b), Err: err}
	}
	return b, nil
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
