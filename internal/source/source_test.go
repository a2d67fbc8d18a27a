package source

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

// testImage creates a simple gradient image for encoding fixtures.
func testImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 128, 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode PNG fixture: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("failed to encode JPEG fixture: %v", err)
	}
	return buf.Bytes()
}

func TestFromBytesDetectsMIME(t *testing.T) {
	img := testImage(8, 8)

	tests := []struct {
		name     string
		data     []byte
		filename string
		want     string
	}{
		{"png content", encodePNG(t, img), "leaf.png", "image/png"},
		{"jpeg content", encodeJPEG(t, img), "leaf.jpg", "image/jpeg"},
		{"extension fallback", []byte("not really an image"), "leaf.webp", "image/webp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := FromBytes(tt.data, tt.filename)
			if payload.MIMEType != tt.want {
				t.Errorf("MIMEType = %q, want %q", payload.MIMEType, tt.want)
			}
			if !bytes.Equal(payload.Data, tt.data) {
				t.Error("payload data does not match input bytes")
			}
			if !strings.HasPrefix(payload.Preview, "data:"+tt.want+";base64,") {
				t.Errorf("Preview = %q, want data URL with %q", payload.Preview[:40], tt.want)
			}
		})
	}
}

func TestFromReaderRejectsOversizedInput(t *testing.T) {
	huge := bytes.NewReader(make([]byte, maxPayloadBytes+1))
	if _, err := FromReader(huge, "big.jpg"); err == nil {
		t.Fatal("expected error for oversized input, got nil")
	}
}

func TestFromReaderAcceptsInputAtSizeCap(t *testing.T) {
	atCap := bytes.NewReader(make([]byte, maxPayloadBytes))
	payload, err := FromReader(atCap, "big.jpg")
	if err != nil {
		t.Fatalf("FromReader() error = %v for input exactly at the cap", err)
	}
	if len(payload.Data) != maxPayloadBytes {
		t.Errorf("len(Data) = %d, want %d", len(payload.Data), maxPayloadBytes)
	}
}

func TestFromDataURL(t *testing.T) {
	data := encodeJPEG(t, testImage(4, 4))
	payload := FromBytes(data, "frame.jpg")

	decoded, err := FromDataURL(payload.Preview)
	if err != nil {
		t.Fatalf("FromDataURL() error = %v", err)
	}
	if decoded.MIMEType != "image/jpeg" {
		t.Errorf("MIMEType = %q, want image/jpeg", decoded.MIMEType)
	}
	if !bytes.Equal(decoded.Data, data) {
		t.Error("round-tripped data does not match original")
	}
}

func TestFromDataURLMalformed(t *testing.T) {
	for _, input := range []string{"", "data:image/jpeg;base64", "plain text", "data:;base64,!!!"} {
		if _, err := FromDataURL(input); err == nil {
			t.Errorf("FromDataURL(%q) expected error, got nil", input)
		}
	}
}

func TestDownscale(t *testing.T) {
	big := FromBytes(encodeJPEG(t, testImage(3000, 1000)), "wide.jpg")

	scaled := big.Downscale(2000)
	if scaled == big {
		t.Fatal("expected a new payload for an oversized image")
	}
	if scaled.MIMEType != "image/jpeg" {
		t.Errorf("MIMEType = %q, want image/jpeg", scaled.MIMEType)
	}

	img, _, err := image.Decode(bytes.NewReader(scaled.Data))
	if err != nil {
		t.Fatalf("failed to decode downscaled payload: %v", err)
	}
	if w := img.Bounds().Dx(); w != 2000 {
		t.Errorf("width = %d, want 2000", w)
	}
	if h := img.Bounds().Dy(); h > 2000 {
		t.Errorf("height = %d, want <= 2000", h)
	}
}

func TestDownscaleLeavesSmallImagesAlone(t *testing.T) {
	small := FromBytes(encodePNG(t, testImage(100, 100)), "small.png")
	if got := small.Downscale(2000); got != small {
		t.Error("expected the same payload for an image within the limit")
	}
}

func TestDownscaleLeavesUndecodableDataAlone(t *testing.T) {
	junk := FromBytes([]byte("definitely not an image"), "junk.bin")
	if got := junk.Downscale(2000); got != junk {
		t.Error("expected undecodable data to pass through unchanged")
	}
}
