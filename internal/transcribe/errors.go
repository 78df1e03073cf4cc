package transcribe

import (
	"fmt"

	"github.com/t0mer/transcribing-service/internal/audio"
)

// ErrNotFound is the pipeline's not-found condition; the resolver's
// sentinel is re-exported so callers match one error across layers.
var ErrNotFound = audio.ErrNotFound

// UnsupportedFormatError reports a filename whose extension is outside the
// supported container set.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %s", e.Ext)
}

// ConversionError wraps a failure of the decode/encode collaborator.
type ConversionError struct {
	Err error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("audio conversion failed: %v", e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Diagnostic returns the collaborator's raw error text.
func (e *ConversionError) Diagnostic() string { return e.Err.Error() }

// TranscriptionError wraps a failure of the recognition collaborator.
type TranscriptionError struct {
	Err error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription failed: %v", e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

func (e *TranscriptionError) Diagnostic() string { return e.Err.Error() }
