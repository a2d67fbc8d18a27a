package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/exec"

	"github.com/disintegration/imaging"
)

// ErrCameraUnavailable indicates the capture device is absent or could
// not be opened.
var ErrCameraUnavailable = errors.New("camera unavailable")

// Device is a video capture device that produces single encoded frames.
type Device interface {
	// Open acquires the device. It fails when the device is absent or
	// access is denied.
	Open(ctx context.Context) error

	// Grab returns one encoded frame from the open device.
	Grab(ctx context.Context) ([]byte, error)

	// Release frees the device. It must be safe to call after a failed
	// Grab and must be idempotent.
	Release() error
}

// CaptureFrame acquires dev, grabs exactly one frame, and releases the
// device on every exit path before the frame is decoded. The frame is
// normalized to a JPEG payload.
func CaptureFrame(ctx context.Context, dev Device) (*Payload, error) {
	if err := dev.Open(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCameraUnavailable, err)
	}

	frame, err := dev.Grab(ctx)

	// The hardware must not stay reserved past a single capture, so the
	// device is released before the frame bytes are touched.
	if relErr := dev.Release(); relErr != nil {
		slog.Warn("Failed to release capture device", "err", relErr)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to capture frame: %w", err)
	}

	return encodeFrame(frame)
}

// encodeFrame normalizes a captured frame to a JPEG payload.
func encodeFrame(frame []byte) (*Payload, error) {
	img, _, err := image.Decode(bytes.NewReader(frame))
	if err != nil {
		return nil, fmt.Errorf("failed to decode captured frame: %w", err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("failed to encode captured frame: %w", err)
	}
	return newPayload(buf.Bytes(), "image/jpeg"), nil
}

// videoDevice grabs single frames from a V4L2 device node through an
// ffmpeg one-shot subprocess. The process exits after each grab, so no
// handle is held between frames.
type videoDevice struct {
	path   string
	ffmpeg string
}

// NewVideoDevice returns a Device reading from the given V4L2 device
// node, e.g. /dev/video0.
func NewVideoDevice(path string) Device {
	return &videoDevice{path: path}
}

func (d *videoDevice) Open(ctx context.Context) error {
	ffmpeg, err := exec.LookPath("ffmpeg")
	if err != nil {
		return fmt.Errorf("ffmpeg not found in PATH")
	}
	d.ffmpeg = ffmpeg

	if _, err := os.Stat(d.path); err != nil {
		return fmt.Errorf("capture device %s: %w", d.path, err)
	}
	return nil
}

func (d *videoDevice) Grab(ctx context.Context) ([]byte, error) {
	cmd := exec.CommandContext(ctx, d.ffmpeg,
		"-loglevel", "error",
		"-f", "v4l2",
		"-i", d.path,
		"-frames:v", "1",
		"-f", "image2",
		"-codec:v", "mjpeg",
		"pipe:1",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg capture failed: %s: %w", stderr.String(), err)
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no frame data")
	}
	return stdout.Bytes(), nil
}

func (d *videoDevice) Release() error {
	// One-shot grabs hold no handle between frames.
	return nil
}
