package openai

import (
	"reflect"
	"strings"
	"testing"

	"github.com/reelify/reelify/internal/types"
)

func TestParseIndices(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    []int
		wantErr bool
	}{
		{"raw", "[2, 7, 15]", []int{2, 7, 15}, false},
		{"fenced", "```json\n[1, 2]\n```", []int{1, 2}, false},
		{"preface", "Sure! Here are the indices: [0, 4].", []int{0, 4}, false},
		{"negative kept for caller to drop", "[-1, 3]", []int{-1, 3}, false},
		{"empty array", "[]", []int{}, false},
		{"empty content", "   ", nil, true},
		{"no array", "there is nothing to pick", nil, true},
		{"non integer items", `["a", "b"]`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIndices(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBuildPrompt_ContainsSegmentsAndCount(t *testing.T) {
	t.Parallel()

	segs := makeSegments(3)
	got, err := buildPrompt("the full transcript", segs, 2)
	if err != nil {
		t.Fatalf("build prompt: %v", err)
	}
	for _, want := range []string{"the full transcript", `"index":2`, "2 most important"} {
		if !contains(got, want) {
			t.Fatalf("expected prompt to contain %q\nprompt:\n%s", want, got)
		}
	}
}

func contains(s, sub string) bool { return strings.Contains(s, sub) }

func makeSegments(n int) []types.Segment {
	out := make([]types.Segment, n)
	for i := range out {
		out[i] = types.Segment{Index: i, Start: float64(i) * 5, End: float64(i)*5 + 4, Text: "seg"}
	}
	return out
}
