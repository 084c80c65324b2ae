package types

import "fmt"

// MediaToolError means the external media tool exited non-zero. Output holds
// the tool's combined stdout/stderr for diagnostics.
type MediaToolError struct {
	Op     string
	Output string
	Err    error
}

func (e *MediaToolError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v\n%s", e.Op, e.Err, e.Output)
}

func (e *MediaToolError) Unwrap() error { return e.Err }

// TranscriptionError means the speech model produced no usable transcript.
// Fatal for the run: nothing downstream can work with a partial transcript.
type TranscriptionError struct {
	Reason string
	Err    error
}

func (e *TranscriptionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transcription: %s: %v", e.Reason, e.Err)
	}
	return "transcription: " + e.Reason
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

// InputError means the source file is missing or unreadable; raised before any
// stage runs.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }
