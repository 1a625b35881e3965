package util

import (
	"errors"
	"io"
	"net/http"
	"strings"
)

// MaxRecordingSize caps uploaded interview recordings at 200 MiB.
const MaxRecordingSize = 200 << 20

func sniffMimeType(reader io.Reader) (string, error) {
	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}
	return http.DetectContentType(buffer[:n]), nil
}

// ValidateMimeType sniffs the first 512 bytes and checks the detected MIME
// type against a list of allowed prefixes or exact types.
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	mimeType, err := sniffMimeType(reader)
	if err != nil {
		return "", err
	}

	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) || mimeType == allowed {
			return mimeType, nil
		}
	}

	return mimeType, errors.New("invalid file type: " + mimeType)
}

// ValidateRecording checks an uploaded recording before it is staged: the
// size limit first, then a content sniff that only admits audio and video.
func ValidateRecording(size int64, reader io.Reader) (string, error) {
	if size > MaxRecordingSize {
		return "", ErrRecordingTooLarge
	}

	mimeType, err := sniffMimeType(reader)
	if err != nil {
		return "", err
	}
	if !IsAudio(mimeType) && !IsVideo(mimeType) {
		return mimeType, ErrUnsupportedMimeType
	}
	return mimeType, nil
}

func IsAudio(mimeType string) bool {
	return strings.HasPrefix(mimeType, "audio/")
}

func IsVideo(mimeType string) bool {
	return strings.HasPrefix(mimeType, "video/")
}
