package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePathReturnsExistingFile(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	path := filepath.Join(base, "note.mp3")
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0o644))

	resolved, err := ResolvePath(base, "note.mp3")
	require.NoError(t, err)
	require.Equal(t, path, resolved)
}

func TestResolvePathAllowsSubdirectories(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "inbox"), 0o755))
	path := filepath.Join(base, "inbox", "note.ogg")
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0o644))

	resolved, err := ResolvePath(base, filepath.Join("inbox", "note.ogg"))
	require.NoError(t, err)
	require.Equal(t, path, resolved)
}

func TestResolvePathMissingFile(t *testing.T) {
	t.Parallel()

	_, err := ResolvePath(t.TempDir(), "missing.mp3")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolvePathRejectsDirectories(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "album.mp3"), 0o755))

	_, err := ResolvePath(base, "album.mp3")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolvePathRejectsTraversal(t *testing.T) {
	t.Parallel()

	outside := t.TempDir()
	secret := filepath.Join(outside, "secret.wav")
	require.NoError(t, os.WriteFile(secret, []byte("audio"), 0o644))

	base := filepath.Join(outside, "audio")
	require.NoError(t, os.MkdirAll(base, 0o755))

	_, err := ResolvePath(base, filepath.Join("..", "secret.wav"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolvePathRejectsAbsoluteFilenames(t *testing.T) {
	t.Parallel()

	outside := t.TempDir()
	secret := filepath.Join(outside, "secret.wav")
	require.NoError(t, os.WriteFile(secret, []byte("audio"), 0o644))

	_, err := ResolvePath(t.TempDir(), secret)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolvePathRejectsEmptyFilename(t *testing.T) {
	t.Parallel()

	_, err := ResolvePath(t.TempDir(), "  ")
	require.ErrorIs(t, err, ErrNotFound)
}
