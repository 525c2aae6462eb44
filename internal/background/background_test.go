package background

import (
	"errors"
	"image"
	"image/color"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchboard/internal/surface"
	"sketchboard/pkg/geometry"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

// halves returns a w x h image whose left half is red and right half blue.
func halves(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				img.Set(x, y, red)
			} else {
				img.Set(x, y, blue)
			}
		}
	}
	return img
}

func dominant(c color.Color) string {
	r, g, b, a := c.RGBA()
	switch {
	case a < 0x8000:
		return "blank"
	case r > b && r > g:
		return "red"
	case b > r && b > g:
		return "blue"
	default:
		return "other"
	}
}

func TestDestinationSize(t *testing.T) {
	assert.Equal(t, geometry.NewSize(40, 20), DestinationSize(40, 20, 0))
	assert.Equal(t, geometry.NewSize(20, 40), DestinationSize(40, 20, 90))
	assert.Equal(t, geometry.NewSize(40, 20), DestinationSize(40, 20, 180))
	assert.Equal(t, geometry.NewSize(20, 40), DestinationSize(40, 20, 270))
}

func TestPlacementFillsSurfaceAtEveryRotation(t *testing.T) {
	src := image.Rect(0, 0, 8, 4)
	for _, rot := range []int{0, 90, 180, 270} {
		m := Placement(40, 20, rot, src)

		var pts []geometry.Point2D
		for _, c := range geometry.NewRect(0, 0, 8, 4).Corners() {
			pts = append(pts, m.Apply(c))
		}
		box := geometry.BoundingBox(pts)
		assert.InDelta(t, 0, box.X, 1e-9, "rotation %d", rot)
		assert.InDelta(t, 0, box.Y, 1e-9, "rotation %d", rot)
		assert.InDelta(t, 40, box.Width, 1e-9, "rotation %d", rot)
		assert.InDelta(t, 20, box.Height, 1e-9, "rotation %d", rot)
	}
}

func TestPlacementHonoursSourceOrigin(t *testing.T) {
	m := Placement(10, 10, 0, image.Rect(5, 5, 15, 15))
	p := m.Apply(geometry.NewPoint2D(5, 5))
	assert.InDelta(t, 0, p.X, 1e-9)
	assert.InDelta(t, 0, p.Y, 1e-9)
}

func TestRedrawRotations(t *testing.T) {
	tests := []struct {
		rotation    int
		left, right string
		top, bottom string
	}{
		{rotation: 0, left: "red", right: "blue"},
		{rotation: 180, left: "blue", right: "red"},
		{rotation: 90, top: "red", bottom: "blue"},
		{rotation: 270, top: "blue", bottom: "red"},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.rotation), func(t *testing.T) {
			s, err := surface.NewRaster(40, 40)
			require.NoError(t, err)

			m := NewManager(tt.rotation, nil)
			m.Set(halves(40, 40), 0, 0)
			m.Redraw(s)

			out := s.Image()
			if tt.left != "" {
				assert.Equal(t, tt.left, dominant(out.At(5, 20)))
				assert.Equal(t, tt.right, dominant(out.At(34, 20)))
			}
			if tt.top != "" {
				assert.Equal(t, tt.top, dominant(out.At(20, 5)))
				assert.Equal(t, tt.bottom, dominant(out.At(20, 34)))
			}
		})
	}
}

func TestRedrawIgnoresRecordedDimensions(t *testing.T) {
	s, err := surface.NewRaster(40, 20)
	require.NoError(t, err)

	m := NewManager(0, nil)
	m.Set(halves(8, 4), 16, 8)
	m.Redraw(s)

	out := s.Image()
	assert.Equal(t, "red", dominant(out.At(5, 10)))
	assert.Equal(t, "blue", dominant(out.At(35, 10)))
	assert.Equal(t, "blue", dominant(out.At(38, 18)))
	assert.Equal(t, 16, m.State().OriginalWidth)
	assert.Equal(t, 8, m.State().OriginalHeight)
}

func TestRedrawWithoutImageIsNoop(t *testing.T) {
	s, err := surface.NewRaster(4, 4)
	require.NoError(t, err)
	before := s.Snapshot()

	NewManager(0, nil).Redraw(s)
	assert.True(t, before.Equal(s.Snapshot()))
}

func TestRotate(t *testing.T) {
	m := NewManager(0, nil)
	assert.Equal(t, 90, m.Rotate(1))
	assert.Equal(t, 0, m.Rotate(-1))
	assert.Equal(t, 270, m.Rotate(-1))

	m.SetRotation(450)
	assert.Equal(t, 90, m.Rotation())
}

func TestResolveDimensions(t *testing.T) {
	m := NewManager(0, nil)
	gen := m.Begin()
	require.True(t, m.Resolve(gen, halves(8, 4), 0, 0))
	assert.Equal(t, 8, m.State().OriginalWidth)
	assert.Equal(t, 4, m.State().OriginalHeight)

	gen = m.Begin()
	require.True(t, m.Resolve(gen, halves(8, 4), 16, 0))
	assert.Equal(t, 16, m.State().OriginalWidth)
	assert.Equal(t, 4, m.State().OriginalHeight)
}

func TestStaleGenerationIsDropped(t *testing.T) {
	m := NewManager(0, nil)
	stale := m.Begin()
	current := m.Begin()

	assert.False(t, m.Resolve(stale, halves(2, 2), 0, 0))
	assert.False(t, m.HasImage())
	assert.False(t, m.Fail(stale, errors.New("boom")))

	assert.True(t, m.Resolve(current, halves(2, 2), 0, 0))
	assert.True(t, m.HasImage())
}

func TestFailClearsImage(t *testing.T) {
	m := NewManager(90, nil)
	m.Set(halves(2, 2), 0, 0)
	require.True(t, m.HasImage())

	gen := m.Begin()
	assert.True(t, m.Fail(gen, errors.New("decode error")))
	assert.False(t, m.HasImage())
	assert.Equal(t, 90, m.Rotation())
}

func TestSourceIsZero(t *testing.T) {
	assert.True(t, Source{}.IsZero())
	assert.False(t, FromURL("x").IsZero())
	assert.False(t, FromImage(halves(2, 2)).IsZero())
}
