package util

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

var ErrNotAnImage = errors.New("upload a valid image, the file was either not an image or a corrupted image")

// ValidateMimeType sniffs the first 512 bytes of reader.
// allowedTypes holds MIME prefixes or full types, e.g. "image/", "video/".
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}

	mimeType := http.DetectContentType(buffer[:n])

	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) || mimeType == allowed {
			return mimeType, nil
		}
	}

	return mimeType, errors.New("invalid file type: " + mimeType)
}

// DecodeImage checks that data is an image the server can decode and
// returns its MIME type.
func DecodeImage(data []byte) (string, error) {
	mimeType, err := ValidateMimeType(bytes.NewReader(data), []string{MimeImage})
	if err != nil {
		return mimeType, ErrNotAnImage
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return mimeType, ErrNotAnImage
	}
	return mimeType, nil
}

func IsImage(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}

func IsVideo(mimeType string) bool {
	return strings.HasPrefix(mimeType, "video/") || mimeType == "application/x-mpegURL"
}

func HasExtension(filename string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}
