package app

import (
	"image/color"

	"sketchboard/internal/stroke"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// boardInk is used when the pen colour cannot be parsed.
var boardInk = color.NRGBA{R: 0xD3, G: 0x2F, B: 0x2F, A: 0xFF}

// SketchboardTheme tints the chrome with the pen colour and always renders
// the light variant, so the toolbar sits on the same white as a fresh board.
// Scroll bars are thinned because they overlay the drawing surface.
type SketchboardTheme struct {
	ink color.NRGBA
}

var _ fyne.Theme = (*SketchboardTheme)(nil)

// NewTheme returns a theme whose primary colour is penColor.
func NewTheme(penColor string) *SketchboardTheme {
	t := &SketchboardTheme{ink: boardInk}
	if c, err := stroke.ParseColor(penColor); err == nil {
		if n := color.NRGBAModel.Convert(c).(color.NRGBA); n.A > 0 {
			n.A = 0xFF
			t.ink = n
		}
	}
	return t
}

func (t *SketchboardTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return t.ink
	case theme.ColorNameSelection:
		sel := t.ink
		sel.A = 0x40
		return sel
	default:
		return theme.DefaultTheme().Color(name, theme.VariantLight)
	}
}

func (t *SketchboardTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *SketchboardTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *SketchboardTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 4
	case theme.SizeNameScrollBar:
		return 8
	case theme.SizeNameScrollBarSmall:
		return 2
	default:
		return theme.DefaultTheme().Size(name)
	}
}
