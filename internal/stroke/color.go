package stroke

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/gogpu/gg"
	"golang.org/x/image/colornames"
)

// ParseColor parses a CSS colour name or a #rgb, #rgba, #rrggbb or
// #rrggbbaa hex string.
func ParseColor(s string) (color.Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return nil, fmt.Errorf("empty colour")
	}
	if name == "transparent" {
		return color.RGBA{}, nil
	}
	if c, ok := colornames.Map[name]; ok {
		return c, nil
	}

	hex, ok := strings.CutPrefix(name, "#")
	if !ok {
		return nil, fmt.Errorf("unknown colour %q", s)
	}
	switch len(hex) {
	case 3, 4, 6, 8:
	default:
		return nil, fmt.Errorf("invalid hex colour %q", s)
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return nil, fmt.Errorf("invalid hex colour %q", s)
		}
	}
	return gg.Hex(hex).Color(), nil
}
