package whisper

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/t0mer/transcribing-service/internal/platform"
)

const fakeWhisperScript = `#!/bin/sh
of=""
prev=""
for a in "$@"; do
  [ "$prev" = "-of" ] && of="$a"
  prev="$a"
done
printf '%s\n' "$@" > "$of.args"
cat > "$of.json" <<'EOF'
{"result":{"language":"en"},"transcription":[{"text":" Hello"},{"text":" world."}]}
EOF
`

func newFakeEngine(t *testing.T, device platform.Device) *LocalEngine {
	t.Helper()

	dir := t.TempDir()
	cli := filepath.Join(dir, "whisper-cli")
	require.NoError(t, os.WriteFile(cli, []byte(fakeWhisperScript), 0o755))

	model := filepath.Join(dir, "ggml-base.bin")
	require.NoError(t, os.WriteFile(model, []byte("weights"), 0o644))

	engine, err := NewLocalEngine(cli, model, device, nil)
	require.NoError(t, err)
	engine.WorkDir = t.TempDir()
	return engine
}

func TestNewLocalEngineRequiresExecutable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cli := filepath.Join(dir, "whisper-cli")
	require.NoError(t, os.WriteFile(cli, []byte("#!/bin/sh\n"), 0o644)) // not executable

	model := filepath.Join(dir, "ggml-base.bin")
	require.NoError(t, os.WriteFile(model, []byte("weights"), 0o644))

	_, err := NewLocalEngine(cli, model, platform.DeviceCPU, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not executable")
}

func TestNewLocalEngineRequiresModelFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cli := filepath.Join(dir, "whisper-cli")
	require.NoError(t, os.WriteFile(cli, []byte("#!/bin/sh\n"), 0o755))

	_, err := NewLocalEngine(cli, filepath.Join(dir, "missing.bin"), platform.DeviceCPU, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "model file")
}

func TestLocalEngineTranscribe(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine(t, platform.DeviceCPU)

	result, err := engine.Transcribe(context.Background(), Request{AudioPath: "/tmp/in.wav", Language: "auto"})
	require.NoError(t, err)
	require.Equal(t, "Hello world.", result.Text)
	require.Equal(t, "en", result.Language)
}

func TestLocalEngineDisablesGPUOnCPU(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine(t, platform.DeviceCPU)

	_, err := engine.Transcribe(context.Background(), Request{AudioPath: "/tmp/in.wav"})
	require.NoError(t, err)

	require.Contains(t, recordedArgs(t, engine.WorkDir), "-ng")
}

func TestLocalEngineKeepsGPUOnCUDA(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine(t, platform.DeviceCUDA)

	_, err := engine.Transcribe(context.Background(), Request{AudioPath: "/tmp/in.wav"})
	require.NoError(t, err)

	args := recordedArgs(t, engine.WorkDir)
	require.NotContains(t, args, "-ng")
	require.Contains(t, args, "auto") // empty language falls back to detection
}

func TestLocalEngineRequiresAudioPath(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine(t, platform.DeviceCPU)

	_, err := engine.Transcribe(context.Background(), Request{})
	require.Error(t, err)
}

func TestLocalEngineSurfacesStderr(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cli := filepath.Join(dir, "whisper-cli")
	require.NoError(t, os.WriteFile(cli, []byte("#!/bin/sh\necho 'failed to load model' >&2\nexit 1\n"), 0o755))

	model := filepath.Join(dir, "ggml-base.bin")
	require.NoError(t, os.WriteFile(model, []byte("weights"), 0o644))

	engine, err := NewLocalEngine(cli, model, platform.DeviceCPU, nil)
	require.NoError(t, err)
	engine.WorkDir = t.TempDir()

	_, err = engine.Transcribe(context.Background(), Request{AudioPath: "/tmp/in.wav"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load model")
}

func TestParseOutputMalformedJSON(t *testing.T) {
	t.Parallel()

	_, err := parseOutput([]byte("segfault"))
	require.Error(t, err)
}

func recordedArgs(t *testing.T, workDir string) []string {
	t.Helper()

	entries, err := os.ReadDir(workDir)
	require.NoError(t, err)

	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".args") {
			content, err := os.ReadFile(filepath.Join(workDir, entry.Name()))
			require.NoError(t, err)
			return strings.Split(strings.TrimSpace(string(content)), "\n")
		}
	}

	t.Fatal("fake whisper-cli recorded no args")
	return nil
}
