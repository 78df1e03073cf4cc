package whisper

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIEngine sends audio to the hosted Whisper API instead of running
// inference locally. The verbose JSON response format carries the detected
// language alongside the text.
type OpenAIEngine struct {
	client *openai.Client
	logger *zap.Logger
}

func NewOpenAIEngine(apiKey string, logger *zap.Logger) *OpenAIEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAIEngine{
		client: openai.NewClient(apiKey),
		logger: logger,
	}
}

func (e *OpenAIEngine) Transcribe(ctx context.Context, req Request) (Result, error) {
	audioReq := openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: req.AudioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	}

	lang := strings.TrimSpace(req.Language)
	if lang != "" && lang != "auto" {
		audioReq.Language = lang
	}

	e.logger.Debug("calling whisper API", zap.String("audio", req.AudioPath))
	resp, err := e.client.CreateTranscription(ctx, audioReq)
	if err != nil {
		return Result{}, fmt.Errorf("whisper api: %w", err)
	}

	return Result{
		Text:     strings.TrimSpace(resp.Text),
		Language: resp.Language,
	}, nil
}
