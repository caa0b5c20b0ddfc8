// Package imagecapture turns user-selected image files into base64 data URLs
// that travel inside the submission payload.
package imagecapture

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"net/http"
	"strings"

	_ "golang.org/x/image/webp" // register WebP decoder
)

// DefaultMaxBytes caps the size of an accepted image.
const DefaultMaxBytes int64 = 10 << 20

// DefaultAllowedTypes are the sniffed MIME types accepted as images.
var DefaultAllowedTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// ErrTooLarge is wrapped by Error when the input exceeds the size cap.
var ErrTooLarge = errors.New("image exceeds max size")

// Error represents a failure to read or accept an image.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("image capture: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("image capture: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures Capture.
type Options struct {
	MaxBytes     int64
	AllowedTypes []string
}

// DefaultOptions returns the limits used when no options are given.
func DefaultOptions() *Options {
	return &Options{
		MaxBytes:     DefaultMaxBytes,
		AllowedTypes: DefaultAllowedTypes,
	}
}

// Result is delivered by CaptureAsync.
type Result struct {
	DataURL string
	Err     error
}

// Capture reads an image from r and returns it as a data URL of the form
// "data:<mime>;base64,<payload>". The MIME type is sniffed from the content,
// not taken from the file name.
func Capture(ctx context.Context, r io.Reader, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	allowed := opts.AllowedTypes
	if len(allowed) == 0 {
		allowed = DefaultAllowedTypes
	}

	if err := ctx.Err(); err != nil {
		return "", &Error{Message: "read cancelled", Cause: err}
	}

	// Read one byte past the cap so oversized input is detectable.
	raw, err := io.ReadAll(io.LimitReader(&ctxReader{ctx: ctx, r: r}, maxBytes+1))
	if err != nil {
		return "", &Error{Message: "unable to read file", Cause: err}
	}
	if len(raw) == 0 {
		return "", &Error{Message: "file is empty"}
	}
	if int64(len(raw)) > maxBytes {
		return "", &Error{Message: fmt.Sprintf("file larger than %d bytes", maxBytes), Cause: ErrTooLarge}
	}

	mime := http.DetectContentType(raw)
	if !contains(allowed, mime) {
		return "", &Error{Message: fmt.Sprintf("unsupported file type %s", mime)}
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(raw)); err != nil {
		return "", &Error{Message: "unable to decode image", Cause: err}
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}

// CaptureAsync runs Capture on its own goroutine and delivers exactly one
// Result on the returned channel.
func CaptureAsync(ctx context.Context, r io.Reader, opts *Options) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		dataURL, err := Capture(ctx, r, opts)
		out <- Result{DataURL: dataURL, Err: err}
		close(out)
	}()
	return out
}

// ParseDataURL splits a base64 data URL into its MIME type and decoded bytes.
func ParseDataURL(value string) (string, []byte, error) {
	raw := strings.TrimSpace(value)
	if !strings.HasPrefix(raw, "data:") {
		return "", nil, &Error{Message: "invalid data url prefix"}
	}
	comma := strings.Index(raw, ",")
	if comma <= len("data:") {
		return "", nil, &Error{Message: "invalid data url payload"}
	}
	meta := raw[len("data:"):comma]
	if !strings.HasSuffix(strings.ToLower(meta), ";base64") {
		return "", nil, &Error{Message: "data url must be base64"}
	}
	mime := strings.TrimSpace(meta[:len(meta)-len(";base64")])
	if mime == "" {
		return "", nil, &Error{Message: "missing data url mime type"}
	}
	decoded, err := base64.StdEncoding.DecodeString(raw[comma+1:])
	if err != nil {
		return "", nil, &Error{Message: "unable to decode data url", Cause: err}
	}
	return mime, decoded, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), v) {
			return true
		}
	}
	return false
}

// ctxReader stops a read once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
