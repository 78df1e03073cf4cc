// Package audio implements the request-side half of the transcription
// pipeline: classifying and resolving incoming filenames and normalizing
// their content to the canonical WAV encoding the recognition engine needs.
package audio

import (
	"path/filepath"
	"strings"
)

// Containers the service accepts, matching what ffmpeg can reliably decode
// into WAV for speech recognition.
var supportedExtensions = map[string]struct{}{
	".mp3":  {},
	".wav":  {},
	".ogg":  {},
	".m4a":  {},
	".webm": {},
	".oga":  {},
}

// Ext returns the lowercase extension of filename, including the dot.
func Ext(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// SupportedFormat reports whether ext names a recognized audio container.
func SupportedFormat(ext string) bool {
	_, ok := supportedExtensions[ext]
	return ok
}
