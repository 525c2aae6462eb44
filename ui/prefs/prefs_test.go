package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchboard/internal/config"
)

func TestLoadMissingFile(t *testing.T) {
	p := LoadFrom(filepath.Join(t.TempDir(), "none.json"))
	assert.Equal(t, "", p.String(KeyPenColor))
	assert.Equal(t, 2.5, p.FloatWithFallback(KeyPenWidth, 2.5))
	assert.True(t, p.Bool("missing", true))
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "preferences.json")
	p := LoadFrom(path)
	p.RememberPen("#00f", 9)
	p.SetString(KeyMode, "both")
	p.SetFloat(KeyMaxRevokeSteps, 999)
	p.SetBool("toolbar", false)
	require.NoError(t, p.Save())

	q := LoadFrom(path)
	assert.Equal(t, "#00f", q.String(KeyPenColor))
	assert.Equal(t, 9.0, q.Float(KeyPenWidth))
	assert.False(t, q.Bool("toolbar", true))

	cfg := config.New(q.BoardOptions()...)
	assert.Equal(t, "#00f", cfg.PenColor)
	assert.Equal(t, 9.0, cfg.PenWidth)
	assert.Equal(t, config.ModeBoth, cfg.Mode)
	assert.Equal(t, config.MaxRevokeSteps, cfg.MaxRevokeSteps)
}

func TestBoardOptionsTolerateBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"penWidth": "thick",
		"mode": "stylus",
		"maxRevokeSteps": "lots"
	}`), 0o644))

	cfg := config.New(LoadFrom(path).BoardOptions()...)
	assert.Equal(t, config.DefaultPenWidth, cfg.PenWidth)
	assert.Equal(t, config.ModeMouse, cfg.Mode)
	assert.Equal(t, config.DefaultMaxRevokeSteps, cfg.MaxRevokeSteps)
}

func TestMalformedFileYieldsEmptyPrefs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	p := LoadFrom(path)
	assert.Empty(t, p.BoardOptions())
}
