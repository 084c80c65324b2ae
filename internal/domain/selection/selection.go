// Package selection picks the reel-worthy subset of transcript segments.
//
// The primary path asks an external ranking service for segment indices; the
// fallback is a pure stride sample over the segment list. The selector never
// fails: every primary-path problem downgrades to the fallback.
package selection

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/reelify/reelify/internal/ports"
	"github.com/reelify/reelify/internal/types"
)

type Selector struct {
	ranker ports.Ranker
	log    zerolog.Logger
}

func New(ranker ports.Ranker, log zerolog.Logger) Selector {
	return Selector{ranker: ranker, log: log}
}

// Select returns at most count segments. Service-ranked results keep the
// service's order; fallback results are in chronological order.
func (s Selector) Select(ctx context.Context, tr types.Transcript, count int) []types.Segment {
	if count <= 0 || len(tr.Segments) == 0 {
		return nil
	}

	if s.ranker != nil {
		idxs, err := s.ranker.Rank(ctx, tr.FullText, tr.Segments, count)
		if err != nil {
			s.log.Warn().Err(err).Msg("segment ranking failed, using fallback selection")
			return Fallback(tr.Segments, count)
		}
		sel := PickByIndex(tr.Segments, idxs, count)
		if len(sel) > 0 {
			return sel
		}
		s.log.Warn().Ints("indices", idxs).Msg("ranker returned no usable indices, using fallback selection")
	}

	return Fallback(tr.Segments, count)
}

// PickByIndex maps ranked indices back onto segments, preserving the ranked
// order. Out-of-range indices are dropped, not errors: the ranking service is
// untrusted output.
func PickByIndex(segments []types.Segment, idxs []int, count int) []types.Segment {
	out := make([]types.Segment, 0, count)
	for _, i := range idxs {
		if i < 0 || i >= len(segments) {
			continue
		}
		out = append(out, segments[i])
		if len(out) >= count {
			break
		}
	}
	return out
}

// Fallback samples segments from index 0 at a fixed stride. Pure and
// reproducible: identical input yields identical output.
func Fallback(segments []types.Segment, count int) []types.Segment {
	if count <= 0 || len(segments) == 0 {
		return nil
	}
	stride := len(segments) / count
	if stride < 1 {
		stride = 1
	}
	out := make([]types.Segment, 0, count)
	for i := 0; i < len(segments); i += stride {
		out = append(out, segments[i])
		if len(out) >= count {
			break
		}
	}
	return out
}
