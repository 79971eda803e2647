package palette

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"column3d/internal/scene/models"
)

// ============================================================
// RGB
// ============================================================

type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// RGBA собирает строку rgba с заданной альфой.
func (c RGB) RGBA(alpha float64) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(alpha, 'f', -1, 64))
}

// ============================================================
// Scheme Generator
// ============================================================

// Generate возвращает count цветов схемы, от ratio=0 до ratio=1.
func Generate(scheme models.Scheme, count int) []RGB {
	if count <= 0 {
		return []RGB{}
	}

	colors := make([]RGB, count)
	for i := range colors {
		ratio := 0.0
		if count > 1 {
			ratio = float64(i) / float64(count-1)
		}
		colors[i] = At(scheme, ratio)
	}
	return colors
}

// At вычисляет цвет схемы в точке ratio ∈ [0, 1].
func At(scheme models.Scheme, ratio float64) RGB {
	var r, g, b float64

	switch scheme {
	case models.SchemeFire:
		r, g, b = 255, 50+ratio*205, ratio*100
	case models.SchemeOcean:
		r, g, b = ratio*100, 100+ratio*155, 255
	case models.SchemeNature:
		r, g, b = ratio*150, 255, ratio*100
	case models.SchemeSunset:
		r, g, b = 255, 150+ratio*105, 200-ratio*150
	case models.SchemeGalaxy:
		r, g, b = 150+ratio*105, 50+ratio*100, 255
	case models.SchemeRainbow:
		hue := ratio * 300
		r = 255 * (1 + math.Cos(radians(hue))) / 2
		g = 255 * (1 + math.Cos(radians(hue+120))) / 2
		b = 255 * (1 + math.Cos(radians(hue+240))) / 2
	case models.SchemeIce:
		r, g, b = 200+ratio*55, 230+ratio*25, 255
	case models.SchemeAutumn:
		r, g, b = 139+ratio*116, 69+ratio*100, 19+ratio*31
	default:
		r, g, b = 0, 100+ratio*155, 255
	}

	return RGB{R: channel(r), G: channel(g), B: channel(b)}
}

// Repeat возвращает count копий одного цвета (режим single).
func Repeat(c RGB, count int) []RGB {
	if count <= 0 {
		return []RGB{}
	}
	out := make([]RGB, count)
	for i := range out {
		out[i] = c
	}
	return out
}

// ============================================================
// Parsing
// ============================================================

// Parse понимает "#RRGGBB", "#RGB" и "rgb(r, g, b)".
func Parse(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RGB{}, fmt.Errorf("empty color")
	}

	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}

	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "rgb(") && strings.HasSuffix(lower, ")") {
		parts := strings.Split(lower[4:len(lower)-1], ",")
		if len(parts) != 3 {
			return RGB{}, fmt.Errorf("invalid rgb color %q", s)
		}
		var vals [3]int
		for i, p := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return RGB{}, fmt.Errorf("invalid rgb channel %q: %w", p, err)
			}
			vals[i] = clampChannel(v)
		}
		return RGB{R: vals[0], G: vals[1], B: vals[2]}, nil
	}

	return RGB{}, fmt.Errorf("unsupported color %q", s)
}

func parseHex(hex string) (RGB, error) {
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("invalid hex color %q", "#"+hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", "#"+hex, err)
	}
	return RGB{R: int(v >> 16 & 0xFF), G: int(v >> 8 & 0xFF), B: int(v & 0xFF)}, nil
}

// ============================================================
// Helpers
// ============================================================

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// channel отбрасывает дробную часть и держит значение в [0, 255].
func channel(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return clampChannel(int(v))
}

func clampChannel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
