package background

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDefaultLoaderSources(t *testing.T) {
	data := pngBytes(t, halves(6, 3))
	b64 := base64.StdEncoding.EncodeToString(data)

	path := filepath.Join(t.TempDir(), "bg.png")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	tests := []struct {
		name string
		src  string
	}{
		{name: "data URI", src: "data:image/png;base64," + b64},
		{name: "raw base64", src: b64},
		{name: "file path", src: path},
		{name: "http URL", src: srv.URL + "/bg.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DefaultLoader{}.Load(context.Background(), tt.src)
			require.NoError(t, err)
			assert.Equal(t, 6, img.Bounds().Dx())
			assert.Equal(t, 3, img.Bounds().Dy())
		})
	}
}

func TestDefaultLoaderFailures(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	tests := []struct {
		name string
		src  string
	}{
		{name: "empty", src: "  "},
		{name: "malformed data URI", src: "data:image/png;base64"},
		{name: "not an image", src: base64.StdEncoding.EncodeToString([]byte("hello"))},
		{name: "garbage", src: "%%%not-base64%%%"},
		{name: "http 404", src: srv.URL + "/missing.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DefaultLoader{}.Load(context.Background(), tt.src)
			assert.Error(t, err)
		})
	}
}

// lockedSettle mimics an owner serializing access with a mutex.
func lockedSettle(mu *sync.Mutex, applied *[]bool) Settle {
	return func(apply func() bool) {
		mu.Lock()
		defer mu.Unlock()
		*applied = append(*applied, apply())
	}
}

func TestManagerLoadResolves(t *testing.T) {
	var mu sync.Mutex
	var applied []bool
	m := NewManager(0, nil)

	loader := LoaderFunc(func(ctx context.Context, src string) (image.Image, error) {
		return halves(4, 2), nil
	})

	mu.Lock()
	l := m.Load(context.Background(), loader, "anything", 0, 0, lockedSettle(&mu, &applied))
	mu.Unlock()

	require.NoError(t, l.Wait(context.Background()))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{true}, applied)
	assert.True(t, m.HasImage())
	assert.Equal(t, 4, m.State().OriginalWidth)
}

func TestManagerLoadFailureIsNonFatal(t *testing.T) {
	var mu sync.Mutex
	var applied []bool
	m := NewManager(0, nil)
	m.Set(halves(2, 2), 0, 0)

	boom := errors.New("boom")
	loader := LoaderFunc(func(ctx context.Context, src string) (image.Image, error) {
		return nil, boom
	})

	l := m.Load(context.Background(), loader, "bad", 0, 0, lockedSettle(&mu, &applied))
	assert.ErrorIs(t, l.Wait(context.Background()), boom)

	mu.Lock()
	defer mu.Unlock()
	assert.False(t, m.HasImage())
}

func TestSupersededLoadIsDropped(t *testing.T) {
	var mu sync.Mutex
	var applied []bool
	m := NewManager(0, nil)

	release := make(chan struct{})
	slow := LoaderFunc(func(ctx context.Context, src string) (image.Image, error) {
		<-release
		return halves(10, 10), nil
	})
	fast := LoaderFunc(func(ctx context.Context, src string) (image.Image, error) {
		return halves(2, 2), nil
	})

	mu.Lock()
	first := m.Load(context.Background(), slow, "slow", 0, 0, lockedSettle(&mu, &applied))
	second := m.Load(context.Background(), fast, "fast", 0, 0, lockedSettle(&mu, &applied))
	mu.Unlock()

	require.NoError(t, second.Wait(context.Background()))
	close(release)
	require.NoError(t, first.Wait(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []bool{true, false}, applied)
	assert.Equal(t, 2, m.State().OriginalWidth)
	assert.Greater(t, second.Generation(), first.Generation())
}

func TestLoadCancel(t *testing.T) {
	var mu sync.Mutex
	var applied []bool
	m := NewManager(0, nil)

	blocking := LoaderFunc(func(ctx context.Context, src string) (image.Image, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	l := m.Load(context.Background(), blocking, "x", 0, 0, lockedSettle(&mu, &applied))
	l.Cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.ErrorIs(t, l.Wait(ctx), context.Canceled)
}

func TestCompleted(t *testing.T) {
	l := Completed(3, nil)
	assert.Equal(t, uint64(3), l.Generation())
	select {
	case <-l.Done():
	default:
		t.Fatal("completed load should be done")
	}
	assert.NoError(t, l.Err())
}

func TestSupportedFormats(t *testing.T) {
	assert.True(t, IsSupportedFormat("/tmp/board.PNG"))
	assert.True(t, IsSupportedFormat("scan.tif"))
	assert.True(t, IsSupportedFormat("photo.webp"))
	assert.False(t, IsSupportedFormat("notes.txt"))
	assert.False(t, IsSupportedFormat("noext"))
	assert.Contains(t, FileFilter(), "*.jpeg")
}
