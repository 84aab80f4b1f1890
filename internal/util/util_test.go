package util

import (
	"bytes"
	"elearn_backend/internal/model"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeImage(t *testing.T) {
	mime, err := DecodeImage(pngBytes(t))
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	_, err = DecodeImage([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrNotAnImage)

	// PNG signature followed by garbage sniffs as image/png but does not decode
	broken := append([]byte("\x89PNG\x0D\x0A\x1A\x0A"), []byte("garbage")...)
	_, err = DecodeImage(broken)
	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestHasExtension(t *testing.T) {
	assert.True(t, HasExtension("clip.MP4", AllowedVideoExtensions))
	assert.False(t, HasExtension("clip.exe", AllowedVideoExtensions))
	assert.True(t, HasExtension("me.jpeg", AllowedImageExtensions))
}

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{Username: "ravi", Role: model.Instructor}
	user.ID = 7

	token, err := GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, model.Instructor, claims.Role)

	_, err = ParseJWT(token, "other-secret")
	assert.Error(t, err)

	expired, err := GenerateJWT(user, "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, "secret")
	assert.Error(t, err)
}
