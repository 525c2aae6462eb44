package app

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"
)

func TestThemeFollowsPenColour(t *testing.T) {
	th := NewTheme("#0000ff")
	assert.Equal(t, color.NRGBA{B: 0xFF, A: 0xFF}, th.Color(theme.ColorNamePrimary, theme.VariantDark))
	assert.Equal(t, color.NRGBA{B: 0xFF, A: 0x40}, th.Color(theme.ColorNameSelection, theme.VariantLight))
}

func TestThemeFallsBackToBoardInk(t *testing.T) {
	for _, pen := range []string{"", "not-a-colour", "transparent"} {
		assert.Equal(t, boardInk, NewTheme(pen).Color(theme.ColorNamePrimary, theme.VariantLight), pen)
	}
}

func TestThemeIsAlwaysLight(t *testing.T) {
	th := NewTheme("red")
	assert.Equal(t,
		theme.DefaultTheme().Color(theme.ColorNameBackground, theme.VariantLight),
		th.Color(theme.ColorNameBackground, theme.VariantDark))
	assert.Less(t, th.Size(theme.SizeNameScrollBar), theme.DefaultTheme().Size(theme.SizeNameScrollBar))
}
