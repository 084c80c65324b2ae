package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/reelify/reelify/internal/types"
)

func TestRecordAndListRuns(t *testing.T) {
	t.Parallel()

	st := openTestStore(t)
	ctx := context.Background()

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id, err := st.RecordRun(ctx, Run{
		InputName:      "lecture.mp4",
		StartedAt:      started,
		FinishedAt:     started.Add(4 * time.Minute),
		ReelsRequested: 3,
		ReelsGenerated: 2,
		Status:         StatusCompleted,
		Reels: []types.Reel{
			{FilePath: "out/clips/reel_001.mp4", Duration: 30, SegmentText: "first", StartSec: 8, EndSec: 38},
			{FilePath: "out/clips/reel_002.mp4", Duration: 24, SegmentText: "second", StartSec: 60, EndSec: 84},
		},
	})
	if err != nil {
		t.Fatalf("record run: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated run id")
	}

	runs, err := st.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	r := runs[0]
	if r.ID != id || r.InputName != "lecture.mp4" || r.Status != StatusCompleted {
		t.Fatalf("unexpected run row: %+v", r)
	}
	if r.ReelsRequested != 3 || r.ReelsGenerated != 2 {
		t.Fatalf("unexpected reel counts: %+v", r)
	}

	reels, err := st.RunReels(ctx, id)
	if err != nil {
		t.Fatalf("run reels: %v", err)
	}
	if len(reels) != 2 {
		t.Fatalf("expected 2 reel rows, got %d", len(reels))
	}
	if reels[0].SegmentText != "first" || reels[1].SegmentText != "second" {
		t.Fatalf("reel rows out of order: %+v", reels)
	}
}

func TestRecordRun_Failed(t *testing.T) {
	t.Parallel()

	st := openTestStore(t)
	ctx := context.Background()

	_, err := st.RecordRun(ctx, Run{
		InputName:      "broken.mp4",
		StartedAt:      time.Now().UTC(),
		FinishedAt:     time.Now().UTC(),
		ReelsRequested: 2,
		Status:         StatusFailed,
		Error:          "ffmpeg extract audio: exit status 1",
	})
	if err != nil {
		t.Fatalf("record failed run: %v", err)
	}

	runs, err := st.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != StatusFailed || runs[0].Error == "" {
		t.Fatalf("unexpected failed run row: %+v", runs)
	}
}

func TestListRuns_NewestFirst(t *testing.T) {
	t.Parallel()

	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"a.mp4", "b.mp4", "c.mp4"} {
		_, err := st.RecordRun(ctx, Run{
			InputName:  name,
			StartedAt:  base.Add(time.Duration(i) * time.Hour),
			FinishedAt: base.Add(time.Duration(i)*time.Hour + time.Minute),
			Status:     StatusCompleted,
		})
		if err != nil {
			t.Fatalf("record run %s: %v", name, err)
		}
	}

	runs, err := st.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected limit of 2 runs, got %d", len(runs))
	}
	if runs[0].InputName != "c.mp4" || runs[1].InputName != "b.mp4" {
		t.Fatalf("expected newest first, got %+v", runs)
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}
