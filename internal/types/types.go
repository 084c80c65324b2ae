package types

// Transcript is the full output of one transcription: the joined text plus
// the ordered, timestamped segments it was assembled from.
type Transcript struct {
	FullText string    `json:"full_text"`
	Segments []Segment `json:"segments"`
}

// Segment is one timestamped span of transcribed speech. Segments carry the
// index they were produced at so a ranking service can refer to them by
// position.
type Segment struct {
	Index int     `json:"index"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// ReelSpec is a cut window computed for one selected segment. ClipStart and
// ClipEnd are absolute positions in the source video, in seconds.
type ReelSpec struct {
	Segment   Segment
	ClipStart float64
	ClipEnd   float64
}

// Duration returns the window length in seconds.
func (r ReelSpec) Duration() float64 { return r.ClipEnd - r.ClipStart }

// Reel is one finished output clip.
type Reel struct {
	FilePath    string  `json:"file"`
	Duration    float64 `json:"duration_sec"`
	SegmentText string  `json:"segment_text,omitempty"`
	StartSec    float64 `json:"start_sec"`
	EndSec      float64 `json:"end_sec"`
}

// ProcessingResult is the terminal value of one pipeline run. Callers always
// receive a well-formed result; stage failures are folded into Success and
// Error instead of escaping as raw faults.
type ProcessingResult struct {
	Success    bool        `json:"success"`
	Reels      []Reel      `json:"reels"`
	Transcript *Transcript `json:"transcript,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Manifest is the run summary written next to the produced clips.
type Manifest struct {
	Input          string `json:"input"`
	ReelsRequested int    `json:"reels_requested"`
	Reels          []Reel `json:"reels"`
}
