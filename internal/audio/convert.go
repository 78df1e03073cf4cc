package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Converter normalizes supported audio containers to canonical WAV by
// shelling out to ffmpeg. whisper expects mono 16 kHz signed 16-bit PCM.
type Converter struct {
	OutputDir string
	FFMPEG    string
	Logger    *zap.Logger
}

func NewConverter(outputDir string, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{
		OutputDir: outputDir,
		FFMPEG:    "ffmpeg",
		Logger:    logger,
	}
}

// Normalize returns a path to a WAV rendition of the file at srcPath. A
// file that is already WAV passes through untouched; anything else is
// re-encoded into the output directory under the same base name. The error
// message carries ffmpeg's stderr so callers can surface the diagnostic.
func (c *Converter) Normalize(ctx context.Context, srcPath string) (string, error) {
	if Ext(srcPath) == ".wav" {
		return srcPath, nil
	}

	base := filepath.Base(srcPath)
	outPath := filepath.Join(c.OutputDir, strings.TrimSuffix(base, filepath.Ext(base))+".wav")

	args := []string{
		"-nostdin", "-hide_banner", "-loglevel", "error", "-y",
		"-i", srcPath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		outPath,
	}

	c.Logger.Debug("converting audio", zap.String("src", srcPath), zap.String("dst", outPath))

	cmd := exec.CommandContext(ctx, c.FFMPEG, args...)
	var stderr bytes.Buffer
	cmd.Stdout = &stderr
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// A failed run may leave a truncated output file behind.
		_ = os.Remove(outPath)

		diag := strings.TrimSpace(stderr.String())
		if diag == "" {
			diag = err.Error()
		}
		return "", fmt.Errorf("ffmpeg: %s", diag)
	}

	return outPath, nil
}
