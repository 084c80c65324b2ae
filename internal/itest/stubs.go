//go:build integration

package itest

import (
	"os"
	"path/filepath"
	"testing"
)

// Stub tool scripts stand in for ffmpeg/ffprobe/whisper.cpp so the pipeline
// can be exercised end to end without real media binaries.

const stubFFmpeg = `#!/bin/sh
for last; do :; done
case "$*" in
  *" -vn "*) printf 'RIFF-stub-wav' > "$last" ;;
  *) printf 'stub-mp4' > "$last" ;;
esac
exit 0
`

const stubFFmpegFailCuts = `#!/bin/sh
for last; do :; done
case "$*" in
  *" -vn "*) printf 'RIFF-stub-wav' > "$last"; exit 0 ;;
  *) echo "stub encoder exploded" >&2; exit 1 ;;
esac
`

const stubFFprobe = `#!/bin/sh
echo 120.000000
exit 0
`

const stubWhisper = `#!/bin/sh
prefix=""
prev=""
for a in "$@"; do
  if [ "$prev" = "-of" ]; then prefix="$a"; fi
  prev="$a"
done
cat > "$prefix.json" <<'EOF'
{"segments":[
  {"start":0,"end":12,"text":"Welcome to the lecture."},
  {"start":12,"end":40,"text":"The key result is this."},
  {"start":40,"end":80,"text":"Here is the demonstration."},
  {"start":80,"end":118,"text":"Thanks for watching."}
]}
EOF
exit 0
`

func writeStub(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return p
}

func stubToolEnv(t *testing.T, dir string, cutsFail bool) map[string]string {
	t.Helper()
	ffmpeg := stubFFmpeg
	if cutsFail {
		ffmpeg = stubFFmpegFailCuts
	}
	return map[string]string{
		"FFMPEG_PATH":   writeStub(t, dir, "ffmpeg", ffmpeg),
		"FFPROBE_PATH":  writeStub(t, dir, "ffprobe", stubFFprobe),
		"WHISPER_BIN":   writeStub(t, dir, "whisper", stubWhisper),
		"WHISPER_MODEL": filepath.Join(dir, "ggml-base.bin"),
		// Force the deterministic selection fallback so no network is touched.
		"OPENAI_API_KEY": "",
	}
}
