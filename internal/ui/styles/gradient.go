package styles

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Brand renders text bold, shading from Primary at the edges to Secondary
// in the middle and back.
func (t *Theme) Brand(text string) string {
	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}

	shades := waveShades(len(clusters), t.Primary, t.Secondary)
	var b strings.Builder
	for i, c := range clusters {
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(shades[i]).Render(c))
	}
	return b.String()
}

// waveShades returns n colors blended in HCL space, crest at the center.
func waveShades(n int, edge, crest lipgloss.Color) []lipgloss.Color {
	if n <= 0 {
		return nil
	}
	a, b := hclColor(edge), hclColor(crest)
	mid := float64(n-1) / 2

	out := make([]lipgloss.Color, n)
	for i := range out {
		var pos float64
		if mid > 0 {
			pos = 1 - math.Abs(float64(i)-mid)/mid
		}
		out[i] = lipgloss.Color(a.BlendHcl(b, pos).Clamped().Hex())
	}
	return out
}

// hclColor parses a #rrggbb color. ANSI palette indices have no fixed RGB
// value and map to mid gray.
func hclColor(c lipgloss.Color) colorful.Color {
	if col, err := colorful.Hex(string(c)); err == nil {
		return col
	}
	return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
}
