// Package source normalizes the ways an image can be acquired (local
// file, multipart upload, remote URL, captured camera frame) into a
// single payload the identification pipeline consumes.
package source

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// maxPayloadBytes caps how much image data is read from uploads and
// remote URLs.
const maxPayloadBytes = 10 * 1024 * 1024

// Payload is the normalized in-memory representation of an acquired
// image. It is immutable once created; transformations return a new
// payload.
type Payload struct {
	Data     []byte
	MIMEType string
	Preview  string // data URL usable to render a thumbnail
}

func newPayload(data []byte, mimeType string) *Payload {
	return &Payload{
		Data:     data,
		MIMEType: mimeType,
		Preview:  fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data)),
	}
}

// FromBytes wraps raw image bytes in a payload. The MIME type is
// sniffed from the content, with the filename extension as a fallback.
// Non-image content is passed through unvalidated; it will fail at the
// inference step instead.
func FromBytes(data []byte, filename string) *Payload {
	return newPayload(data, detectMIME(data, filename))
}

// FromFile reads a local image file into a payload.
func FromFile(path string) (*Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return FromBytes(data, path), nil
}

// FromReader reads image data from r into a payload, stopping at the
// payload size cap.
func FromReader(r io.Reader, filename string) (*Payload, error) {
	// Read one byte past the cap so an exactly-at-cap payload is
	// distinguishable from an oversized one.
	data, err := io.ReadAll(io.LimitReader(r, maxPayloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) > maxPayloadBytes {
		return nil, fmt.Errorf("image too large (max %d bytes)", maxPayloadBytes)
	}
	return FromBytes(data, filename), nil
}

// FromURL downloads an image over HTTP into a payload.
func FromURL(imageURL string) (*Payload, error) {
	client := &http.Client{Timeout: 30 * time.Second}

	resp, err := client.Get(imageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}

	parts := strings.Split(imageURL, "/")
	filename := parts[len(parts)-1]

	return FromReader(resp.Body, filename)
}

// FromDataURL decodes a base64 data URL, the format browsers produce
// when a canvas frame is exported.
func FromDataURL(dataURL string) (*Payload, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return nil, fmt.Errorf("not a data URL")
	}
	meta, encoded, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URL")
	}
	mimeType := strings.TrimSuffix(meta, ";base64")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data URL: %w", err)
	}
	return newPayload(data, mimeType), nil
}

// Downscale returns a payload whose longest side does not exceed
// maxDimension, re-encoded as JPEG. Payloads already within the limit,
// and payloads that cannot be decoded, are returned unchanged; the
// latter fail at the inference step instead.
func (p *Payload) Downscale(maxDimension int) *Payload {
	img, _, err := image.Decode(bytes.NewReader(p.Data))
	if err != nil {
		return p
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxDimension && height <= maxDimension {
		return p
	}

	if width > height {
		img = imaging.Resize(img, maxDimension, 0, imaging.Lanczos)
	} else {
		img = imaging.Resize(img, 0, maxDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return p
	}
	return newPayload(buf.Bytes(), "image/jpeg")
}

func detectMIME(data []byte, filename string) string {
	mimeType := http.DetectContentType(data)
	if strings.HasPrefix(mimeType, "image/") {
		return mimeType
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return mimeType
	}
}
