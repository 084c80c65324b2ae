package selection

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/reelify/reelify/internal/types"
)

func TestFallback_StrideLaw(t *testing.T) {
	t.Parallel()

	// 10 segments, count 3: stride = max(1, 10/3) = 3, so indices 0, 3, 6.
	got := Fallback(makeSegments(10), 3)
	wantIdx := []int{0, 3, 6}
	if len(got) != len(wantIdx) {
		t.Fatalf("expected %d segments, got %d", len(wantIdx), len(got))
	}
	for i, seg := range got {
		if seg.Index != wantIdx[i] {
			t.Fatalf("position %d: expected index %d, got %d", i, wantIdx[i], seg.Index)
		}
	}
}

func TestFallback_Deterministic(t *testing.T) {
	t.Parallel()

	segs := makeSegments(17)
	a := Fallback(segs, 4)
	b := Fallback(segs, 4)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("fallback is not deterministic: %v vs %v", a, b)
	}
}

func TestFallback_Bounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		nSegs   int
		count   int
		wantLen int
	}{
		{"fewer segments than count", 2, 5, 2},
		{"equal", 3, 3, 3},
		{"single segment", 1, 5, 1},
		{"zero count", 10, 0, 0},
		{"no segments", 0, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fallback(makeSegments(tt.nSegs), tt.count)
			if len(got) != tt.wantLen {
				t.Fatalf("expected %d segments, got %d", tt.wantLen, len(got))
			}
			if tt.count > 0 && len(got) > tt.count {
				t.Fatalf("fallback exceeded count: %d > %d", len(got), tt.count)
			}
		})
	}
}

func TestPickByIndex_DropsOutOfRange(t *testing.T) {
	t.Parallel()

	segs := makeSegments(5)
	got := PickByIndex(segs, []int{-1, 2, 5, 100, 0}, 5)
	wantIdx := []int{2, 0}
	if len(got) != len(wantIdx) {
		t.Fatalf("expected %d segments, got %d", len(wantIdx), len(got))
	}
	for i, seg := range got {
		if seg.Index != wantIdx[i] {
			t.Fatalf("position %d: expected index %d, got %d", i, wantIdx[i], seg.Index)
		}
	}
}

func TestPickByIndex_CapsAtCount(t *testing.T) {
	t.Parallel()

	got := PickByIndex(makeSegments(5), []int{0, 1, 2, 3, 4}, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(got))
	}
}

func TestSelect_PreservesServiceOrder(t *testing.T) {
	t.Parallel()

	s := New(fakeRanker{idxs: []int{3, 1}}, zerolog.Nop())
	got := s.Select(context.Background(), transcriptOf(5), 2)
	if len(got) != 2 || got[0].Index != 3 || got[1].Index != 1 {
		t.Fatalf("expected segments [3 1] in service order, got %v", got)
	}
}

func TestSelect_FallsBackOnRankerError(t *testing.T) {
	t.Parallel()

	s := New(fakeRanker{err: errors.New("service unavailable")}, zerolog.Nop())
	got := s.Select(context.Background(), transcriptOf(10), 3)
	want := Fallback(makeSegments(10), 3)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected fallback selection %v, got %v", want, got)
	}
}

func TestSelect_FallsBackOnUnusableIndices(t *testing.T) {
	t.Parallel()

	s := New(fakeRanker{idxs: []int{-1, 99}}, zerolog.Nop())
	got := s.Select(context.Background(), transcriptOf(4), 2)
	want := Fallback(makeSegments(4), 2)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected fallback selection %v, got %v", want, got)
	}
}

func TestSelect_NilRankerUsesFallback(t *testing.T) {
	t.Parallel()

	s := New(nil, zerolog.Nop())
	got := s.Select(context.Background(), transcriptOf(6), 2)
	want := Fallback(makeSegments(6), 2)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected fallback selection %v, got %v", want, got)
	}
}

type fakeRanker struct {
	idxs []int
	err  error
}

func (f fakeRanker) Rank(_ context.Context, _ string, _ []types.Segment, _ int) ([]int, error) {
	return f.idxs, f.err
}

func makeSegments(n int) []types.Segment {
	out := make([]types.Segment, n)
	for i := range out {
		out[i] = types.Segment{
			Index: i,
			Start: float64(i) * 5,
			End:   float64(i)*5 + 4,
			Text:  "segment",
		}
	}
	return out
}

func transcriptOf(n int) types.Transcript {
	return types.Transcript{FullText: "full text", Segments: makeSegments(n)}
}
