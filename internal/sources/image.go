package sources

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"

	_ "golang.org/x/image/webp"
)

// Upload limits
const (
	// DefaultMaxImageBytes bounds a single uploaded location image.
	DefaultMaxImageBytes = 5 << 20
	// MaxImageDimension bounds the width and height of a location image.
	MaxImageDimension = 4096
)

var (
	// ErrNoImage is returned when no image file was supplied.
	ErrNoImage = errors.New("no image supplied")
	// ErrNotImage is returned when the upload is not an image.
	ErrNotImage = errors.New("upload is not an image")
	// ErrImageTooLarge is returned when the upload exceeds the limit.
	ErrImageTooLarge = errors.New("image too large")
)

// IngestImage reads an uploaded image and returns it as a self-contained
// data URL.
func IngestImage(r io.Reader, limit int64) (string, error) {
	if r == nil {
		return "", ErrNoImage
	}
	if limit <= 0 {
		limit = DefaultMaxImageBytes
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return "", ErrNoImage
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("%w: limit is %d bytes", ErrImageTooLarge, limit)
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w: %s", ErrNotImage, mime)
	}
	if err := CheckDimensions(data); err != nil {
		return "", err
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// CheckDimensions reads only the image header and rejects images wider or
// taller than MaxImageDimension.
func CheckDimensions(data []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	if cfg.Width > MaxImageDimension || cfg.Height > MaxImageDimension {
		return fmt.Errorf("%w: %dx%d exceeds %dx%d pixels", ErrImageTooLarge,
			cfg.Width, cfg.Height, MaxImageDimension, MaxImageDimension)
	}
	return nil
}

// DecodeDataURL splits a base64 data URL into its media type and payload.
func DecodeDataURL(url string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URL")
	}
	mime, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("data URL is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data URL: %w", err)
	}
	return mime, data, nil
}
