// Package reels computes cut windows for selected segments.
package reels

import "github.com/reelify/reelify/internal/types"

// Padding added before and after a segment when cutting, in seconds.
const paddingSec = 2.0

// BuildSpecs turns selected segments into cut windows. Each window starts 2 s
// before the segment (floored at 0) and runs to the padded segment end, capped
// at targetDurationSec. When sourceDurationSec > 0 the window is additionally
// clamped to the end of the source; segments whose window collapses past the
// source end are dropped.
func BuildSpecs(selected []types.Segment, targetDurationSec, sourceDurationSec float64) []types.ReelSpec {
	out := make([]types.ReelSpec, 0, len(selected))
	for _, seg := range selected {
		spec, ok := buildSpec(seg, targetDurationSec, sourceDurationSec)
		if !ok {
			continue
		}
		out = append(out, spec)
	}
	return out
}

func buildSpec(seg types.Segment, targetDurationSec, sourceDurationSec float64) (types.ReelSpec, bool) {
	start := seg.Start - paddingSec
	if start < 0 {
		start = 0
	}
	end := seg.End + paddingSec
	if limit := start + targetDurationSec; end > limit {
		end = limit
	}
	if sourceDurationSec > 0 && end > sourceDurationSec {
		end = sourceDurationSec
	}
	if end <= start {
		return types.ReelSpec{}, false
	}
	return types.ReelSpec{Segment: seg, ClipStart: start, ClipEnd: end}, true
}
