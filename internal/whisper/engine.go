// Package whisper integrates the speech-recognition collaborators. The
// service talks to them through the Engine interface; the default backend
// spawns a local whisper-cli process, the alternative calls the hosted
// Whisper API.
package whisper

import "context"

type Request struct {
	// AudioPath must point at a WAV file.
	AudioPath string
	// Language pins the transcription language; "auto" or empty detects.
	Language string
}

type Result struct {
	Text     string
	Language string
}

type Engine interface {
	Transcribe(ctx context.Context, req Request) (Result, error)
}
