package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/t0mer/transcribing-service/internal/platform"
)

// LocalEngine runs whisper-cli (whisper.cpp) as a child process per
// request. The binary and model file are validated once at startup; the
// spawned processes are independent, so concurrent transcriptions are safe.
type LocalEngine struct {
	Executable string
	ModelPath  string
	Device     platform.Device
	Logger     *zap.Logger

	// WorkDir receives the per-request JSON output files; defaults to the
	// OS temp directory.
	WorkDir string
}

// NewLocalEngine locates whisper-cli (override wins over PATH lookup) and
// binds it to the given model file and compute device.
func NewLocalEngine(override, modelPath string, device platform.Device, logger *zap.Logger) (*LocalEngine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	executable := strings.TrimSpace(override)
	if executable != "" {
		if err := ensureExecutable(executable); err != nil {
			return nil, fmt.Errorf("WHISPER_CLI is not executable: %w", err)
		}
	} else {
		found, err := exec.LookPath("whisper-cli")
		if err != nil {
			return nil, fmt.Errorf("whisper-cli not found on PATH (set WHISPER_CLI to override): %w", err)
		}
		executable = found
	}

	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file: %w", err)
	}

	return &LocalEngine{
		Executable: executable,
		ModelPath:  modelPath,
		Device:     device,
		Logger:     logger,
	}, nil
}

func (e *LocalEngine) Transcribe(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.AudioPath) == "" {
		return Result{}, errors.New("audio path is required")
	}

	workDir := e.WorkDir
	if workDir == "" {
		workDir = os.TempDir()
	}
	outBase := filepath.Join(workDir, "transcribe-"+uuid.NewString())
	jsonOut := outBase + ".json"

	args := []string{"-m", e.ModelPath, "-f", req.AudioPath, "-oj", "-of", outBase}

	lang := strings.TrimSpace(req.Language)
	if lang == "" {
		lang = "auto"
	}
	args = append(args, "-l", lang)

	if e.Device != platform.DeviceCUDA {
		args = append(args, "-ng")
	}

	cmd := exec.CommandContext(ctx, e.Executable, args...)
	var stderr bytes.Buffer
	cmd.Stdout = &stderr
	cmd.Stderr = &stderr

	e.Logger.Debug("running whisper-cli", zap.String("engine", e.Executable), zap.Strings("args", args))
	if err := cmd.Run(); err != nil {
		diag := strings.TrimSpace(stderr.String())
		if diag == "" {
			diag = err.Error()
		}
		return Result{}, fmt.Errorf("whisper-cli: %s", diag)
	}

	defer os.Remove(jsonOut)
	content, err := os.ReadFile(jsonOut)
	if err != nil {
		return Result{}, fmt.Errorf("read whisper output: %w", err)
	}

	return parseOutput(content)
}

// parseOutput extracts recognized text and detected language from
// whisper-cli's -oj JSON document.
func parseOutput(content []byte) (Result, error) {
	var out struct {
		Result struct {
			Language string `json:"language"`
		} `json:"result"`
		Transcription []struct {
			Text string `json:"text"`
		} `json:"transcription"`
	}

	if err := json.Unmarshal(content, &out); err != nil {
		return Result{}, fmt.Errorf("parse whisper output: %w", err)
	}

	var sb strings.Builder
	for _, segment := range out.Transcription {
		sb.WriteString(segment.Text)
	}

	return Result{
		Text:     strings.TrimSpace(sb.String()),
		Language: out.Result.Language,
	}, nil
}

func ensureExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if runtime.GOOS != "windows" && info.Mode()&0o111 == 0 {
		return fmt.Errorf("%s is not executable", path)
	}
	return nil
}
