package sources

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestIngestImage(t *testing.T) {
	data := pngBytes(t)

	url, err := IngestImage(bytes.NewReader(data), 0)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	mime, decoded, err := DecodeDataURL(url)
	require.NoError(t, err)
	require.Equal(t, "image/png", mime)
	require.Equal(t, data, decoded)
}

func TestIngestImageErrors(t *testing.T) {
	_, err := IngestImage(nil, 0)
	require.ErrorIs(t, err, ErrNoImage)

	_, err = IngestImage(bytes.NewReader(nil), 0)
	require.ErrorIs(t, err, ErrNoImage)

	_, err = IngestImage(strings.NewReader("just some text"), 0)
	require.ErrorIs(t, err, ErrNotImage)

	_, err = IngestImage(bytes.NewReader(pngBytes(t)), 10)
	require.ErrorIs(t, err, ErrImageTooLarge)
}

func TestIngestImageRejectsOversizedDimensions(t *testing.T) {
	// Highly compressible: few bytes on the wire, many pixels once decoded.
	var wide bytes.Buffer
	require.NoError(t, png.Encode(&wide, image.NewGray(image.Rect(0, 0, MaxImageDimension+1, 1))))
	require.Less(t, wide.Len(), DefaultMaxImageBytes)

	_, err := IngestImage(bytes.NewReader(wide.Bytes()), 0)
	require.ErrorIs(t, err, ErrImageTooLarge)

	var tall bytes.Buffer
	require.NoError(t, png.Encode(&tall, image.NewGray(image.Rect(0, 0, 1, MaxImageDimension+1))))
	_, err = IngestImage(bytes.NewReader(tall.Bytes()), 0)
	require.ErrorIs(t, err, ErrImageTooLarge)

	var edge bytes.Buffer
	require.NoError(t, png.Encode(&edge, image.NewGray(image.Rect(0, 0, MaxImageDimension, 1))))
	_, err = IngestImage(bytes.NewReader(edge.Bytes()), 0)
	require.NoError(t, err)
}

func TestIngestImageRejectsUndecodableImage(t *testing.T) {
	// PNG signature followed by garbage sniffs as image/png but has no header.
	data := append([]byte("\x89PNG\r\n\x1a\n"), []byte("garbage")...)
	_, err := IngestImage(bytes.NewReader(data), 0)
	require.ErrorIs(t, err, ErrNotImage)
}

func TestDecodeDataURLErrors(t *testing.T) {
	for _, bad := range []string{
		"https://example.com/a.png",
		"data:image/png;base64",
		"data:image/png,plain",
		"data:image/png;base64,***",
	} {
		_, _, err := DecodeDataURL(bad)
		require.Error(t, err, bad)
	}
}
