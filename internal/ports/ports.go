package ports

import (
	"context"

	"github.com/reelify/reelify/internal/types"
)

type VideoTool interface {
	ExtractAudioPCM16k(ctx context.Context, inVideo, outWav string) error
	CutClip(ctx context.Context, inVideo string, startSec, durationSec float64, outVideo string) error
	ProbeDuration(ctx context.Context, inVideo string) (float64, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, wavPath, cacheDir string) (types.Transcript, error)
}

// Ranker orders transcript segments by importance. Rank returns segment
// indices in the service's preference order; it may return fewer than count.
// Implementations are best-effort: callers treat any error as a signal to
// fall back to deterministic selection.
type Ranker interface {
	Rank(ctx context.Context, fullText string, segments []types.Segment, count int) ([]int, error)
}
