package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/t0mer/transcribing-service/internal/download"
)

func newSetupCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Download and verify the configured whisper model",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolved, err := app.ensureModelAvailable(cmd.Context())
			if err != nil {
				return err
			}
			if resolved.IsCustomPath {
				fmt.Fprintf(cmd.OutOrStdout(), "Using custom model at %s\n", resolved.Path)
				return nil
			}

			if err := download.VerifyFileChecksum(resolved.Path, resolved.SHA256); err != nil {
				app.log().Warn("model checksum verification failed; downloading fresh copy", zap.String("model", resolved.Name), zap.Error(err))
				if err := download.DownloadFile(cmd.Context(), download.Options{
					URL:            resolved.URL,
					Destination:    resolved.Path,
					ExpectedSHA256: resolved.SHA256,
					NoProgress:     !app.progressEnabled(),
					Logger:         app.log(),
				}); err != nil {
					return fmt.Errorf("download model %q: %w", resolved.Name, err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Model %s installed at %s\n", resolved.Name, resolved.Path)
			return nil
		},
	}
}
