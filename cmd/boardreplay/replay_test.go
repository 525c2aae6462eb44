package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchboard/internal/board"
	"sketchboard/internal/config"
)

func parse(t *testing.T, js string) *Script {
	t.Helper()
	s, err := ParseScript(strings.NewReader(js))
	require.NoError(t, err)
	return s
}

func replay(t *testing.T, js string, opts ...board.Option) *Replayer {
	t.Helper()
	s := parse(t, js)
	r, err := NewReplayer(s, opts...)
	require.NoError(t, err)
	t.Cleanup(r.Close)
	require.NoError(t, r.Run(context.Background(), s))
	return r
}

func TestParseScriptRejectsUnknownFields(t *testing.T) {
	_, err := ParseScript(strings.NewReader(`{"widht": 10}`))
	assert.Error(t, err)
}

func TestScriptOptions(t *testing.T) {
	s := parse(t, `{"width": 120, "height": 90, "mode": "both", "maxRevokeSteps": "3", "penColor": "blue", "penWidth": 2}`)
	cfg := config.New(s.Options()...)
	assert.Equal(t, 120.0, cfg.Width)
	assert.Equal(t, 90.0, cfg.Height)
	assert.Equal(t, config.ModeBoth, cfg.Mode)
	assert.Equal(t, 3, cfg.MaxRevokeSteps)
	assert.Equal(t, "blue", cfg.PenColor)
	assert.Equal(t, 2.0, cfg.PenWidth)

	empty := config.New(parse(t, `{}`).Options()...)
	assert.Equal(t, config.New(), empty)
}

func TestReplayStrokesAndRevoke(t *testing.T) {
	r := replay(t, `{
		"width": 100, "height": 80, "maxRevokeSteps": 2,
		"steps": [
			{"op": "stroke", "points": [[10, 10], [40, 10]]},
			{"op": "stroke", "points": [[10, 30], [40, 30]]},
			{"op": "stroke", "points": [[10, 50], [40, 50]]},
			{"op": "revoke"}
		]
	}`)

	b := r.Board()
	assert.Equal(t, 2, b.PaintCount())
	assert.Len(t, b.History(), 1)
}

func TestReplayRotateAndClear(t *testing.T) {
	r := replay(t, `{
		"width": 100, "height": 80,
		"steps": [
			{"op": "stroke", "points": [[10, 10]]},
			{"op": "rotate", "direction": 1},
			{"op": "stroke", "points": [[5, 5], [6, 6]]},
			{"op": "clear"},
			{"op": "pen", "color": "green", "width": 3},
			{"op": "size", "width": 50}
		]
	}`)

	b := r.Board()
	w, h := b.Size()
	assert.Equal(t, [2]int{50, 100}, [2]int{w, h})
	assert.Equal(t, 90, b.Rotation())
	assert.Equal(t, 0, b.PaintCount())
	assert.Equal(t, "green", b.Config().PenColor)
}

func TestReplayTouchMode(t *testing.T) {
	s := parse(t, `{"mode": "touch", "steps": [{"op": "stroke", "points": [[1, 1]]}]}`)
	r, err := NewReplayer(s)
	require.NoError(t, err)
	defer r.Close()
	assert.Error(t, r.Run(context.Background(), s))

	r2 := replay(t, `{"mode": "touch", "steps": [{"op": "touchstroke", "points": [[1, 1], [9, 9]]}]}`)
	assert.Equal(t, 1, r2.Board().PaintCount())
}

func TestReplayErrors(t *testing.T) {
	for _, js := range []string{
		`{"steps": [{"op": "explode"}]}`,
		`{"steps": [{"op": "rotate", "direction": 2}]}`,
		`{"steps": [{"op": "stroke"}]}`,
	} {
		s := parse(t, js)
		r, err := NewReplayer(s)
		require.NoError(t, err)
		assert.Error(t, r.Run(context.Background(), s), js)
		r.Close()
	}
}

func TestReplayBackgroundAndDownload(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < 4; i++ {
		img.Set(i%2, i/2, color.RGBA{B: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	dir := t.TempDir()
	r := replay(t, `{"width": 20, "height": 10, "background": "`+uri+`",
		"steps": [{"op": "background", "src": "missing-file.png"}, {"op": "background", "src": "`+uri+`"}]}`,
		board.WithDownloadDir(dir))

	_, _, bl, _ := r.Board().Image().At(10, 5).RGBA()
	assert.Greater(t, bl, uint32(0x8000))

	path, err := r.Board().Download("png", 1, "out")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out.png"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 10), decoded.Bounds())
}
