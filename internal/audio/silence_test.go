package audio

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writePCM16WAV(t *testing.T, samples []int16) string {
	t.Helper()

	data := &bytes.Buffer{}
	for _, s := range samples {
		require.NoError(t, binary.Write(data, binary.LittleEndian, s))
	}

	buf := &bytes.Buffer{}
	buf.WriteString("RIFF")
	require.NoError(t, binary.Write(buf, binary.LittleEndian, uint32(36+data.Len())))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	require.NoError(t, binary.Write(buf, binary.LittleEndian, uint32(16)))
	require.NoError(t, binary.Write(buf, binary.LittleEndian, uint16(1)))     // PCM
	require.NoError(t, binary.Write(buf, binary.LittleEndian, uint16(1)))     // mono
	require.NoError(t, binary.Write(buf, binary.LittleEndian, uint32(16000))) // sample rate
	require.NoError(t, binary.Write(buf, binary.LittleEndian, uint32(32000))) // byte rate
	require.NoError(t, binary.Write(buf, binary.LittleEndian, uint16(2)))     // block align
	require.NoError(t, binary.Write(buf, binary.LittleEndian, uint16(16)))    // bits per sample
	buf.WriteString("data")
	require.NoError(t, binary.Write(buf, binary.LittleEndian, uint32(data.Len())))
	buf.Write(data.Bytes())

	path := filepath.Join(t.TempDir(), "probe.wav")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestIsSilentWAVDetectsSilence(t *testing.T) {
	t.Parallel()

	samples := make([]int16, 16000)
	path := writePCM16WAV(t, samples)

	silent, metrics, err := IsSilentWAV(path, -65)
	require.NoError(t, err)
	require.True(t, silent)
	require.Equal(t, int64(16000), metrics.Samples)
}

func TestIsSilentWAVDetectsSpeechLevelSignal(t *testing.T) {
	t.Parallel()

	samples := make([]int16, 16000)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = 12000
		} else {
			samples[i] = -12000
		}
	}
	path := writePCM16WAV(t, samples)

	silent, metrics, err := IsSilentWAV(path, -65)
	require.NoError(t, err)
	require.False(t, silent)
	require.Greater(t, metrics.PeakdBFS, -10.0)
}

func TestIsSilentWAVEmptyDataIsSilent(t *testing.T) {
	t.Parallel()

	path := writePCM16WAV(t, nil)

	silent, _, err := IsSilentWAV(path, -65)
	require.NoError(t, err)
	require.True(t, silent)
}

func TestIsSilentWAVRejectsNonWAV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "not.wav")
	require.NoError(t, os.WriteFile(path, []byte("mp3 bytes, honest"), 0o644))

	_, _, err := IsSilentWAV(path, -65)
	require.ErrorIs(t, err, ErrInvalidWAV)
}
