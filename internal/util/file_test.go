package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sniffable headers from net/http's content-type table.
var (
	wavHeader  = []byte("RIFF\x24\x00\x00\x00WAVEfmt ")
	webmHeader = []byte{0x1A, 0x45, 0xDF, 0xA3, 0x00, 0x00, 0x00, 0x00}
	pngHeader  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
)

func TestValidateRecordingAcceptsAudioAndVideo(t *testing.T) {
	mimeType, err := ValidateRecording(int64(len(wavHeader)), bytes.NewReader(wavHeader))
	require.NoError(t, err)
	assert.True(t, IsAudio(mimeType))

	mimeType, err = ValidateRecording(int64(len(webmHeader)), bytes.NewReader(webmHeader))
	require.NoError(t, err)
	assert.True(t, IsVideo(mimeType))
}

func TestValidateRecordingRejectsOversizedFile(t *testing.T) {
	_, err := ValidateRecording(MaxRecordingSize+1, bytes.NewReader(wavHeader))
	assert.ErrorIs(t, err, ErrRecordingTooLarge)
}

func TestValidateRecordingRejectsNonMediaContent(t *testing.T) {
	_, err := ValidateRecording(16, bytes.NewReader([]byte("just plain text.")))
	assert.ErrorIs(t, err, ErrUnsupportedMimeType)

	_, err = ValidateRecording(int64(len(pngHeader)), bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, ErrUnsupportedMimeType, "images are not recordings")
}

func TestValidateMimeTypeAllowsPrefixMatch(t *testing.T) {
	mimeType, err := ValidateMimeType(bytes.NewReader(pngHeader), []string{"image/"})
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)

	_, err = ValidateMimeType(bytes.NewReader(pngHeader), []string{"audio/", "video/"})
	assert.Error(t, err)
}
