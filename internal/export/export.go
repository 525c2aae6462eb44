// Package export encodes a surface into the supported raster formats and
// wraps the bytes as data URLs, blobs and files.
package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"sketchboard/internal/surface"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// Quality bounds.
const (
	MinQuality = 0.3
	MaxQuality = 1.0
)

var (
	// ErrUnsupportedFormat is returned for formats outside jpg, jpeg, png, webp.
	ErrUnsupportedFormat = errors.New("unsupported export format")
	// ErrInvalidQuality is returned for a NaN quality.
	ErrInvalidQuality = errors.New("invalid export quality")
)

// Format is a raster export format.
type Format string

const (
	FormatJPG  Format = "jpg"
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJPG, FormatJPEG, FormatPNG, FormatWebP:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// MIME returns the format's media type.
func (f Format) MIME() string {
	switch f {
	case FormatJPG, FormatJPEG:
		return "image/jpeg"
	case FormatWebP:
		return "image/webp"
	default:
		return "image/png"
	}
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// ClampQuality clamps q into [MinQuality, MaxQuality].
func ClampQuality(q float64) (float64, error) {
	if math.IsNaN(q) {
		return 0, ErrInvalidQuality
	}
	return math.Max(MinQuality, math.Min(MaxQuality, q)), nil
}

// Blob is encoded image data with its media type.
type Blob struct {
	Data []byte
	MIME string
}

// File is a named blob.
type File struct {
	Name string
	Blob
}

// Encode renders s in the given format and quality.
//
// There is no pure Go WebP encoder, so webp requests are encoded as PNG
// and labelled image/png, as browsers do for unsupported types.
func Encode(s surface.Surface, format string, quality float64) (Blob, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return Blob{}, err
	}
	q, err := ClampQuality(quality)
	if err != nil {
		return Blob{}, err
	}

	var buf bytes.Buffer
	switch f {
	case FormatJPG, FormatJPEG:
		if err := s.EncodeJPEG(&buf, int(math.Round(q*100))); err != nil {
			return Blob{}, fmt.Errorf("encode jpeg: %w", err)
		}
		return Blob{Data: buf.Bytes(), MIME: f.MIME()}, nil
	case FormatWebP:
		logrus.WithField("format", f).Debug("No webp encoder, falling back to png")
	}

	if err := s.EncodePNG(&buf); err != nil {
		return Blob{}, fmt.Errorf("encode png: %w", err)
	}
	return Blob{Data: buf.Bytes(), MIME: FormatPNG.MIME()}, nil
}

// DataURL encodes s as a base64 data URL.
func DataURL(s surface.Surface, format string, quality float64) (string, error) {
	b, err := Encode(s, format, quality)
	if err != nil {
		return "", err
	}
	return "data:" + b.MIME + ";base64," + base64.StdEncoding.EncodeToString(b.Data), nil
}

// NewFile encodes s as a named file. An empty name gets a generated one;
// the extension is appended when missing.
func NewFile(s surface.Surface, name, format string, quality float64) (File, error) {
	b, err := Encode(s, format, quality)
	if err != nil {
		return File{}, err
	}
	f, _ := ParseFormat(format)
	return File{Name: FileName(name, f), Blob: b}, nil
}

// FileName returns name with the format's extension, generating a unique
// name when name is empty.
func FileName(name string, f Format) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "board-" + strings.ToLower(ulid.Make().String())
	}
	if !strings.EqualFold(filepath.Ext(name), f.Extension()) {
		name += f.Extension()
	}
	return name
}

// Download writes s into dir and returns the written path.
func Download(s surface.Surface, dir, format string, quality float64, name string) (string, error) {
	file, err := NewFile(s, name, format, quality)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}

	path := filepath.Join(dir, filepath.Base(file.Name))
	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"path":  path,
		"bytes": len(file.Data),
		"mime":  file.MIME,
	}).Info("Board downloaded")
	return path, nil
}
