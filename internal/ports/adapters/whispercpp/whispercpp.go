package whispercpp

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/reelify/reelify/internal/fingerprint"
	"github.com/reelify/reelify/internal/types"
)

type Adapter struct {
	bin   string
	model string
}

func New(binPath, modelPath string) *Adapter {
	return &Adapter{bin: binPath, model: modelPath}
}

// Transcribe runs whisper.cpp over the wav file and returns the parsed
// transcript. Results are cached in cacheDir keyed by the audio content, so
// re-running the pipeline over the same source skips model inference.
func (a *Adapter) Transcribe(ctx context.Context, wavPath, cacheDir string) (types.Transcript, error) {
	cachePath := ""
	if cacheDir != "" {
		if fp, err := fingerprint.FromFile(wavPath); err == nil {
			cachePath = filepath.Join(cacheDir, "transcript-"+fp+".json")
			if tr, err := readCached(cachePath); err == nil {
				return tr, nil
			}
		}
	}

	outPrefix := filepath.Join(cacheDir, "whisper")
	args := []string{
		"-m", a.model,
		"-f", wavPath,
		"-oj",
		"-of", outPrefix,
	}
	cmd := exec.CommandContext(ctx, a.bin, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.Transcript{}, &types.TranscriptionError{Reason: "whisper.cpp failed\n" + string(b), Err: err}
	}

	jb, err := os.ReadFile(outPrefix + ".json")
	if err != nil {
		return types.Transcript{}, &types.TranscriptionError{Reason: "read model output", Err: err}
	}

	tr, err := ParseTranscript(jb)
	if err != nil {
		return types.Transcript{}, err
	}

	if cachePath != "" {
		writeCached(cachePath, tr)
	}
	return tr, nil
}

// ParseTranscript decodes whisper.cpp JSON output into a Transcript, trimming
// text, assigning indices and joining the full text. An empty transcript is
// an error: nothing downstream can use it.
func ParseTranscript(jb []byte) (types.Transcript, error) {
	var raw struct {
		Segments []struct {
			Start float64 `json:"start"`
			End   float64 `json:"end"`
			Text  string  `json:"text"`
		} `json:"segments"`
	}
	if err := json.Unmarshal(jb, &raw); err != nil {
		return types.Transcript{}, &types.TranscriptionError{Reason: "decode model output", Err: err}
	}

	tr := types.Transcript{Segments: make([]types.Segment, 0, len(raw.Segments))}
	var parts []string
	for _, s := range raw.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" || s.End <= s.Start {
			continue
		}
		tr.Segments = append(tr.Segments, types.Segment{
			Index: len(tr.Segments),
			Start: s.Start,
			End:   s.End,
			Text:  text,
		})
		parts = append(parts, text)
	}
	tr.FullText = strings.Join(parts, " ")

	if len(tr.Segments) == 0 || tr.FullText == "" {
		return types.Transcript{}, &types.TranscriptionError{Reason: "model returned empty transcript"}
	}
	return tr, nil
}

func readCached(path string) (types.Transcript, error) {
	jb, err := os.ReadFile(path)
	if err != nil {
		return types.Transcript{}, err
	}
	var tr types.Transcript
	if err := json.Unmarshal(jb, &tr); err != nil {
		return types.Transcript{}, err
	}
	if len(tr.Segments) == 0 {
		return types.Transcript{}, errors.New("empty cached transcript")
	}
	return tr, nil
}

func writeCached(path string, tr types.Transcript) {
	b, err := json.Marshal(tr)
	if err != nil {
		return
	}
	// Cache misses are tolerable; cache write failures are too.
	_ = os.WriteFile(path, b, 0o644)
}
