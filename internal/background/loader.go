package background

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"strings"

	// Decoders for every format a background may arrive in.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrEmptySource is returned when a load is requested for an empty source.
var ErrEmptySource = errors.New("empty background source")

// maxDownloadSize caps how much a remote background may weigh.
const maxDownloadSize = 64 << 20

// Loader resolves a source string to a decoded image.
type Loader interface {
	Load(ctx context.Context, src string) (image.Image, error)
}

// LoaderFunc adapts a function to a Loader.
type LoaderFunc func(ctx context.Context, src string) (image.Image, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, src string) (image.Image, error) {
	return f(ctx, src)
}

// DefaultLoader understands data URIs, http(s) URLs, local file paths and
// raw base64 image data.
type DefaultLoader struct {
	Client *http.Client
}

// Load fetches and decodes src.
func (l DefaultLoader) Load(ctx context.Context, src string) (image.Image, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, ErrEmptySource
	}

	switch {
	case strings.HasPrefix(src, "data:"):
		data, err := decodeDataURI(src)
		if err != nil {
			return nil, err
		}
		return decode(bytes.NewReader(data))
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return l.fetch(ctx, src)
	}

	if _, err := os.Stat(src); err == nil {
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("failed to open background: %w", err)
		}
		defer f.Close()
		return decode(f)
	}

	data, err := decodeBase64(src)
	if err != nil {
		return nil, fmt.Errorf("background source is neither a file nor base64 data: %w", err)
	}
	return decode(bytes.NewReader(data))
}

func (l DefaultLoader) fetch(ctx context.Context, url string) (image.Image, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build background request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch background: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch background: %s", resp.Status)
	}
	return decode(io.LimitReader(resp.Body, maxDownloadSize))
}

func decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode background: %w", err)
	}
	return img, nil
}

// decodeDataURI extracts the payload of a data: URI.
func decodeDataURI(uri string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URI")
	}
	if strings.HasSuffix(meta, ";base64") {
		return decodeBase64(payload)
	}
	return []byte(payload), nil
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, s)

	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}
