// Package transcribe sequences one transcription request: resolve the
// filename, gate the format, normalize to WAV, run recognition. The first
// failing step classifies the whole request.
package transcribe

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/t0mer/transcribing-service/internal/audio"
	"github.com/t0mer/transcribing-service/internal/whisper"
)

type Result struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Normalizer produces a WAV rendition of the file at srcPath.
type Normalizer interface {
	Normalize(ctx context.Context, srcPath string) (string, error)
}

type Options struct {
	AudioDir string
	Language string

	// SilenceGate skips inference for near-silent WAV audio. Off by
	// default; enabling it makes silent input answer with an empty
	// transcript instead of whisper hallucinating over noise.
	SilenceGate          bool
	SilenceThresholdDBFS float64
}

type Service struct {
	opts       Options
	normalizer Normalizer
	engine     whisper.Engine
	log        *zap.Logger
}

func NewService(opts Options, normalizer Normalizer, engine whisper.Engine, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		opts:       opts,
		normalizer: normalizer,
		engine:     engine,
		log:        log,
	}
}

// Transcribe runs the pipeline for one request. Errors are always one of
// ErrNotFound, *UnsupportedFormatError, *ConversionError or
// *TranscriptionError.
func (s *Service) Transcribe(ctx context.Context, filename string) (Result, error) {
	srcPath, err := audio.ResolvePath(s.opts.AudioDir, filename)
	if err != nil {
		s.log.Warn("file not found", zap.String("filename", filename))
		return Result{}, err
	}

	ext := audio.Ext(filename)
	if !audio.SupportedFormat(ext) {
		s.log.Warn("unsupported file format", zap.String("filename", filename), zap.String("ext", ext))
		return Result{}, &UnsupportedFormatError{Ext: ext}
	}

	wavPath, err := s.normalizer.Normalize(ctx, srcPath)
	if err != nil {
		s.log.Error("audio conversion failed", zap.String("src", srcPath), zap.Error(err))
		return Result{}, &ConversionError{Err: err}
	}

	if s.opts.SilenceGate {
		if silent, metrics, err := audio.IsSilentWAV(wavPath, s.opts.SilenceThresholdDBFS); err != nil {
			s.log.Warn("silence gate analysis failed; continuing", zap.String("wav", wavPath), zap.Error(err))
		} else if silent {
			s.log.Info("audio considered silent; skipping transcription",
				zap.String("wav", wavPath),
				zap.Float64("rms_dbfs", metrics.RMSdBFS),
				zap.Float64("peak_dbfs", metrics.PeakdBFS),
			)
			return Result{}, nil
		}
	}

	s.log.Info("transcribing", zap.String("wav", wavPath))
	started := time.Now()

	result, err := s.engine.Transcribe(ctx, whisper.Request{
		AudioPath: wavPath,
		Language:  s.opts.Language,
	})
	if err != nil {
		s.log.Error("transcription failed", zap.Duration("elapsed", time.Since(started)), zap.Error(err))
		return Result{}, &TranscriptionError{Err: err}
	}

	s.log.Info("transcription finished",
		zap.Duration("elapsed", time.Since(started)),
		zap.String("language", result.Language),
	)

	return Result{Text: result.Text, Language: result.Language}, nil
}
