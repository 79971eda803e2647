package assembler

import (
	"fmt"

	"column3d/internal/scene/models"
)

// ============================================================
// Render boundary
// ============================================================

const (
	fallbackTitle  = "Basic 3D Chart"
	fallbackHeight = 700
	fallbackSize   = 15
	fallbackColor  = "blue"
)

// Render: граница рендера: любая ошибка или паника при сборке сцены
// заменяется заглушкой Fallback. Сцена никогда не nil; err объясняет замену.
func Render(ds models.Dataset, style models.StyleConfig) (scene *models.Scene, err error) {
	defer func() {
		if r := recover(); r != nil {
			scene = Fallback()
			err = fmt.Errorf("render panic: %v", r)
		}
	}()

	scene, err = New().Assemble(ds, style)
	if err != nil {
		return Fallback(), fmt.Errorf("assemble scene: %w", err)
	}
	return scene, nil
}

// Fallback: минимальная сцена из трех точек.
func Fallback() *models.Scene {
	points := make([]models.ColumnPoint, 3)
	for i := range points {
		points[i] = models.ColumnPoint{
			Position: models.Point3D{X: float64(i), Y: 0, Z: float64(i + 1)},
			Color:    fallbackColor,
			Size:     fallbackSize,
			Symbol:   models.MarkerCircle,
		}
	}

	return &models.Scene{
		Title:         fallbackTitle,
		TitleFontSize: 18,
		Axes:          models.AxisTitles{X: axisTitleX, Y: axisTitleY, Z: axisTitleZ},
		Camera:        models.DefaultStyle().Camera,
		Font:          models.Font{Family: models.DefaultFont, Size: 12, Color: "black"},
		Appearance: models.Appearance{
			Background:      "white",
			PaperBackground: "white",
			AxisBackground:  "white",
			GridColor:       "lightgray",
			LineColor:       "black",
			ShowGrid:        true,
			ShowAxes:        true,
		},
		Height:  fallbackHeight,
		Marker:  models.MarkerCircle,
		Opacity: 1,
		Style:   models.RenderPoints,
		Points:  points,
		Faces:   []models.Face{},
	}
}
