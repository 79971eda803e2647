package assembler

import (
	"errors"
	"fmt"

	"column3d/internal/scene/geometry"
	"column3d/internal/scene/layout"
	"column3d/internal/scene/models"
	"column3d/internal/scene/palette"
)

// ============================================================
// Scene Assembler
// ============================================================

var (
	ErrEmptyDataset  = errors.New("dataset is empty")
	ErrSceneTooLarge = errors.New("scene too large")
)

// MaxSceneElements ограничивает число точек (или граней) в одной сцене.
const MaxSceneElements = 200_000

const (
	axisTitleX = "Position X"
	axisTitleY = "Position Y"
	axisTitleZ = "Values"
)

type Assembler struct{}

func New() *Assembler {
	return &Assembler{}
}

// Assemble собирает сцену из набора данных и стиля. Чистая функция:
// одинаковые входы дают одинаковую сцену.
func (a *Assembler) Assemble(ds models.Dataset, style models.StyleConfig) (*models.Scene, error) {
	if len(ds) == 0 {
		return nil, ErrEmptyDataset
	}
	style = style.Normalize()

	colors, err := a.resolveColors(len(ds), style)
	if err != nil {
		return nil, err
	}
	if n := elementCount(ds, style); n > MaxSceneElements {
		return nil, fmt.Errorf("%w: %d elements, limit %d", ErrSceneTooLarge, n, MaxSceneElements)
	}
	bases := layout.Points(len(ds), style.Layout)

	scene := a.metadata(style)
	scene.Columns = len(ds)

	columnStyle := geometry.ColumnStyle{
		Marker:  style.Marker,
		Size:    style.MarkerSize,
		Density: style.Density,
		Opacity: style.Opacity,
	}

	for i, entry := range ds {
		height := entry.Value * style.VerticalScale
		label := HoverLabel(entry)

		switch style.RenderStyle {
		case models.RenderBars:
			faces := geometry.BoxAt(bases[i], height, colors[i], style.Opacity)
			for j := range faces {
				faces[j].Label = label
			}
			scene.Faces = append(scene.Faces, faces...)

		default:
			points := geometry.Column(bases[i], height, colors[i], columnStyle)
			for j := range points {
				points[j].Label = label
			}
			scene.Points = append(scene.Points, points...)
		}
	}

	return scene, nil
}

// elementCount считает размер сцены до построения геометрии.
func elementCount(ds models.Dataset, style models.StyleConfig) int {
	if style.RenderStyle == models.RenderBars {
		return len(ds) * geometry.FacesPerBox
	}
	total := 0
	for _, e := range ds {
		total += geometry.PointCount(e.Value*style.VerticalScale, style.Density)
		if total > MaxSceneElements {
			break
		}
	}
	return total
}

// HoverLabel подписывает точку исходным (не масштабированным) значением.
func HoverLabel(e models.Entry) string {
	return fmt.Sprintf("%s: %.1f", e.Label, e.Value)
}

func (a *Assembler) resolveColors(n int, style models.StyleConfig) ([]palette.RGB, error) {
	if style.ColorMode != models.ColorModeSingle {
		return palette.Generate(style.Scheme, n), nil
	}

	c, err := palette.Parse(style.SingleColor)
	if err != nil {
		return nil, fmt.Errorf("single color: %w", err)
	}
	return palette.Repeat(c, n), nil
}

// ============================================================
// Figure metadata
// ============================================================

func (a *Assembler) metadata(style models.StyleConfig) *models.Scene {
	dark := style.Options.DarkBackground

	appearance := models.Appearance{
		Background:      "white",
		PaperBackground: "white",
		AxisBackground:  "white",
		GridColor:       "lightgray",
		LineColor:       "black",
		ShowGrid:        style.Options.ShowGrid,
		ShowAxes:        style.Options.ShowAxes,
		ShowValues:      style.Options.ShowValues,
	}
	fontColor := "black"

	if dark {
		appearance.Background = "rgba(0,0,0,0.9)"
		appearance.PaperBackground = "rgba(0,0,0,0.8)"
		appearance.AxisBackground = "rgba(0,0,0,0.1)"
		appearance.GridColor = "rgba(255,255,255,0.4)"
		appearance.LineColor = "white"
		fontColor = "white"
	}
	if style.Options.ShowBorders {
		appearance.BorderWidth = 2
	}

	return &models.Scene{
		Title:         style.Title,
		TitleFontSize: style.FontSize + 6,
		Axes:          models.AxisTitles{X: axisTitleX, Y: axisTitleY, Z: axisTitleZ},
		Camera:        style.Camera,
		Font:          models.Font{Family: style.Font, Size: style.FontSize, Color: fontColor},
		Appearance:    appearance,
		Height:        style.ChartHeight,
		Marker:        style.Marker,
		Opacity:       style.Opacity,
		Style:         style.RenderStyle,
		Points:        []models.ColumnPoint{},
		Faces:         []models.Face{},
	}
}
