package styles

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Glyphs shared across components.
const (
	Selected = "❯"
	Check    = "✓"
	Cross    = "✗"
	Bullet   = "•"
)

// ParseHex converts a "#rrggbb" string to a color. Invalid input
// returns black rather than an error, since theme definitions are
// compile-time constants.
func ParseHex(s string) color.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.Black
	}
	return c
}

// ApplyForegroundGrad renders input with a horizontal foreground
// gradient from c1 to c2. Multi-line input gets the gradient applied
// per line so each line spans the full color range.
func ApplyForegroundGrad(input string, c1, c2 color.Color) string {
	if input == "" {
		return ""
	}

	lines := strings.Split(input, "\n")
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = applyLineGrad(line, c1, c2)
	}
	return strings.Join(out, "\n")
}

func applyLineGrad(line string, c1, c2 color.Color) string {
	if line == "" {
		return ""
	}

	var clusters []string
	gr := uniseg.NewGraphemes(line)
	for gr.Next() {
		clusters = append(clusters, string(gr.Runes()))
	}

	ramp := blendColors(len(clusters), c1, c2)
	var b strings.Builder
	for i, c := range ramp {
		b.WriteString(lipgloss.NewStyle().Foreground(c).Render(clusters[i]))
	}
	return b.String()
}

// blendColors interpolates size colors between c1 and c2. Blending is
// done in Hcl space to stay in gamut.
func blendColors(size int, c1, c2 color.Color) []color.Color {
	if size < 1 {
		return nil
	}

	from, _ := colorful.MakeColor(c1)
	to, _ := colorful.MakeColor(c2)

	blended := make([]color.Color, 0, size)
	for i := range size {
		t := float64(i) / float64(max(1, size-1))
		blended = append(blended, from.BlendHcl(to, t).Clamped())
	}
	return blended
}
