package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/t0mer/transcribing-service/internal/audio"
	"github.com/t0mer/transcribing-service/internal/config"
	"github.com/t0mer/transcribing-service/internal/download"
	"github.com/t0mer/transcribing-service/internal/logging"
	"github.com/t0mer/transcribing-service/internal/platform"
	"github.com/t0mer/transcribing-service/internal/server"
	"github.com/t0mer/transcribing-service/internal/transcribe"
	"github.com/t0mer/transcribing-service/internal/version"
	"github.com/t0mer/transcribing-service/internal/whisper"
)

type appState struct {
	jsonLogs   bool
	noProgress bool

	cfg    config.Config
	logger *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &appState{}

	cmd := &cobra.Command{
		Use:           "transcribing-service",
		Short:         "Transcribe audio files over HTTP with whisper",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Resolve(),
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{Level: cfg.LogLevel, JSON: app.jsonLogs})
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}

			app.cfg = cfg
			app.logger = logger
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runServe(cmd.Context())
		},
	}

	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&app.jsonLogs, "json", app.jsonLogs, "Enable JSON logging")
	cmd.PersistentFlags().BoolVar(&app.noProgress, "no-progress", app.noProgress, "Disable progress indicators")

	cmd.AddCommand(newSetupCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// runServe performs the startup sequence and serves until interrupted.
// Any startup failure aborts before the listener opens.
func (a *appState) runServe(ctx context.Context) error {
	log := a.log()
	cfg := a.cfg

	if err := os.MkdirAll(cfg.WAVDir, 0o755); err != nil {
		return fmt.Errorf("create wav directory %s: %w", cfg.WAVDir, err)
	}

	engine, err := a.buildEngine(ctx)
	if err != nil {
		return err
	}

	svc := transcribe.NewService(transcribe.Options{
		AudioDir:             cfg.AudioDir,
		Language:             cfg.Language,
		SilenceGate:          cfg.SilenceGate,
		SilenceThresholdDBFS: cfg.SilenceThresholdDBFS,
	}, audio.NewConverter(cfg.WAVDir, log), engine, log)

	srv := server.New(server.Options{Port: cfg.Port, RateLimit: cfg.RateLimit}, svc, log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", zap.String("port", cfg.Port), zap.String("audio_dir", cfg.AudioDir))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (a *appState) buildEngine(ctx context.Context) (whisper.Engine, error) {
	log := a.log()

	if a.cfg.Engine == config.EngineOpenAI {
		log.Info("using hosted whisper API")
		return whisper.NewOpenAIEngine(a.cfg.OpenAIKey, log), nil
	}

	device := platform.DetectDevice()
	log.Info("whisper will run on device", zap.String("device", string(device)))

	model, err := a.ensureModelAvailable(ctx)
	if err != nil {
		return nil, err
	}

	engine, err := whisper.NewLocalEngine(a.cfg.WhisperCLI, model.Path, device, log)
	if err != nil {
		return nil, err
	}

	log.Info("model ready", zap.String("model", a.cfg.Model), zap.String("path", model.Path))
	return engine, nil
}

// ensureModelAvailable resolves the configured model under MODEL_DIR,
// downloading it when missing and auto-download is on.
func (a *appState) ensureModelAvailable(ctx context.Context) (whisper.ResolvedModel, error) {
	if err := os.MkdirAll(a.cfg.ModelDir, 0o755); err != nil {
		return whisper.ResolvedModel{}, fmt.Errorf("create model directory %s: %w", a.cfg.ModelDir, err)
	}

	resolved, err := whisper.ResolveModel(a.cfg.Model, a.cfg.ModelDir)
	if err != nil {
		return whisper.ResolvedModel{}, err
	}

	if !resolved.NeedsDownload {
		return resolved, nil
	}

	if !a.cfg.AutoDownload {
		return whisper.ResolvedModel{}, fmt.Errorf("model %q is missing at %s; run `transcribing-service setup` or set AUTO_DOWNLOAD=true", resolved.Name, resolved.Path)
	}

	a.log().Info("model not found, downloading", zap.String("model", resolved.Name), zap.String("destination", resolved.Path))
	if err := download.DownloadFile(ctx, download.Options{
		URL:            resolved.URL,
		Destination:    resolved.Path,
		ExpectedSHA256: resolved.SHA256,
		NoProgress:     !a.progressEnabled(),
		Logger:         a.log(),
	}); err != nil {
		return whisper.ResolvedModel{}, fmt.Errorf("download model %q: %w", resolved.Name, err)
	}

	resolved.NeedsDownload = false
	return resolved, nil
}

func (a *appState) progressEnabled() bool {
	if a.noProgress {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func (a *appState) log() *zap.Logger {
	if a.logger == nil {
		return zap.NewNop()
	}
	return a.logger
}
