package ingest

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	// Image formats accepted from the editing service.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/google/uuid"
)

// DefaultMIMEType is assumed when the sender does not name one.
const DefaultMIMEType = "image/png"

const nameTimeLayout = "20060102_150405"

var (
	// ErrEmptyPayload is returned for an event without image bytes.
	ErrEmptyPayload = errors.New("empty image payload")

	// ErrNotImage is returned when the bytes have no recognizable image header.
	ErrNotImage = errors.New("payload is not a decodable image")
)

// now is replaced in tests.
var now = time.Now

// Image is a validated, decoded image.
type Image struct {
	Name     string
	Bytes    []byte
	MIMEType string
	Width    int
	Height   int
}

// Decode decodes a base64 payload into an Image. Padded standard encoding
// is tried first, then unpadded.
func Decode(payload, mimeType string) (Image, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return Image{}, ErrEmptyPayload
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		var rawErr error
		raw, rawErr = base64.RawStdEncoding.DecodeString(payload)
		if rawErr != nil {
			return Image{}, fmt.Errorf("invalid base64 payload: %w", err)
		}
	}
	return Inspect(raw, mimeType)
}

// Inspect validates raw image bytes and names them.
func Inspect(raw []byte, mimeType string) (Image, error) {
	if len(raw) == 0 {
		return Image{}, ErrEmptyPayload
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Image{}, fmt.Errorf("%w: %s has zero size", ErrNotImage, format)
	}

	if mimeType == "" {
		mimeType = DefaultMIMEType
	}

	return Image{
		Name:     newName(mimeType),
		Bytes:    raw,
		MIMEType: mimeType,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/gif":  ".gif",
	"image/bmp":  ".bmp",
	"image/webp": ".webp",
}

// extension maps a MIME type to a file extension, defaulting to .png.
func extension(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	if ext, ok := extensions[strings.ToLower(strings.TrimSpace(base))]; ok {
		return ext
	}
	return ".png"
}

func newName(mimeType string) string {
	return fmt.Sprintf("unity_image_%s_%s%s", now().Format(nameTimeLayout), uuid.NewString()[:8], extension(mimeType))
}
