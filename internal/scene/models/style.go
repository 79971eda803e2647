package models

import "math"

// ============================================================
// Style Config
// ============================================================

type StyleOptions struct {
	ShowGrid       bool `json:"showGrid" yaml:"showGrid"`
	ShowAxes       bool `json:"showAxes" yaml:"showAxes"`
	DarkBackground bool `json:"darkBackground" yaml:"darkBackground"`
	ShowBorders    bool `json:"showBorders" yaml:"showBorders"`
	ShowValues     bool `json:"showValues" yaml:"showValues"`
}

// StyleConfig описывает один проход рендера. Значение, без идентичности.
type StyleConfig struct {
	Layout        Layout       `json:"layout" yaml:"layout"`
	ColorMode     ColorMode    `json:"colorMode" yaml:"colorMode"`
	Scheme        Scheme       `json:"colorScheme" yaml:"colorScheme"`
	SingleColor   string       `json:"singleColor" yaml:"singleColor"`
	Marker        Marker       `json:"marker" yaml:"marker"`
	MarkerSize    float64      `json:"markerSize" yaml:"markerSize"`
	Density       float64      `json:"density" yaml:"density"`
	VerticalScale float64      `json:"verticalScale" yaml:"verticalScale"`
	Opacity       float64      `json:"opacity" yaml:"opacity"`
	Camera        Camera       `json:"camera" yaml:"camera"`
	Title         string       `json:"title" yaml:"title"`
	Font          string       `json:"font" yaml:"font"`
	FontSize      int          `json:"fontSize" yaml:"fontSize"`
	ChartHeight   int          `json:"chartHeight" yaml:"chartHeight"`
	RenderStyle   RenderStyle  `json:"renderStyle" yaml:"renderStyle"`
	Options       StyleOptions `json:"options" yaml:"options"`
}

const (
	DefaultTitle       = "Custom 3D Chart"
	DefaultSingleColor = "#0066CC"
	DefaultFont        = "Arial"
)

// Допустимые диапазоны контролов.
const (
	MinMarkerSize    = 5.0
	MaxMarkerSize    = 30.0
	MinDensity       = 2.0
	MaxDensity       = 15.0
	MinVerticalScale = 0.3
	MaxVerticalScale = 3.0
	MinFontSize      = 8
	MaxFontSize      = 24
	MinChartHeight   = 400
	MaxChartHeight   = 900
)

// DefaultStyle: состояние контролов после сброса.
func DefaultStyle() StyleConfig {
	return StyleConfig{
		Layout:        LayoutCircular,
		ColorMode:     ColorModeScheme,
		Scheme:        SchemeGalaxy,
		SingleColor:   DefaultSingleColor,
		Marker:        MarkerCircle,
		MarkerSize:    12,
		Density:       6,
		VerticalScale: 1.0,
		Opacity:       0.8,
		Camera:        Camera{X: 1.2, Y: 1.2, Z: 1.2},
		Title:         DefaultTitle,
		Font:          DefaultFont,
		FontSize:      12,
		ChartHeight:   700,
		RenderStyle:   RenderPoints,
		Options: StyleOptions{
			ShowGrid:    true,
			ShowAxes:    true,
			ShowBorders: true,
		},
	}
}

// Normalize подставляет значения по умолчанию вместо пустых и невалидных полей
// и прижимает числовые поля к диапазонам контролов.
// Флаги Options не трогаются: false является допустимым значением.
func (s StyleConfig) Normalize() StyleConfig {
	def := DefaultStyle()

	if s.Layout == "" {
		s.Layout = def.Layout
	}
	if s.ColorMode == "" {
		s.ColorMode = def.ColorMode
	}
	if s.Scheme == "" {
		s.Scheme = def.Scheme
	}
	if s.SingleColor == "" {
		s.SingleColor = def.SingleColor
	}
	if s.Marker == "" {
		s.Marker = def.Marker
	}
	if !positive(s.MarkerSize) {
		s.MarkerSize = def.MarkerSize
	}
	if !positive(s.Density) {
		s.Density = def.Density
	}
	if !positive(s.VerticalScale) {
		s.VerticalScale = def.VerticalScale
	}
	if !positive(s.Opacity) {
		s.Opacity = def.Opacity
	}
	if s.Opacity > 1 {
		s.Opacity = 1
	}
	if s.Camera == (Camera{}) || !finite(s.Camera.X) || !finite(s.Camera.Y) || !finite(s.Camera.Z) {
		s.Camera = def.Camera
	}
	if s.Title == "" {
		s.Title = def.Title
	}
	if s.Font == "" {
		s.Font = def.Font
	}
	if s.FontSize <= 0 {
		s.FontSize = def.FontSize
	}
	if s.ChartHeight <= 0 {
		s.ChartHeight = def.ChartHeight
	}
	if s.RenderStyle == "" {
		s.RenderStyle = def.RenderStyle
	}

	s.MarkerSize = clamp(s.MarkerSize, MinMarkerSize, MaxMarkerSize)
	s.Density = clamp(s.Density, MinDensity, MaxDensity)
	s.VerticalScale = clamp(s.VerticalScale, MinVerticalScale, MaxVerticalScale)
	s.FontSize = clamp(s.FontSize, MinFontSize, MaxFontSize)
	s.ChartHeight = clamp(s.ChartHeight, MinChartHeight, MaxChartHeight)
	return s
}

func clamp[T int | float64](v, lo, hi T) T {
	return min(max(v, lo), hi)
}

func positive(v float64) bool {
	return finite(v) && v > 0
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
