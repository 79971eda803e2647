package geometry

import (
	"math"

	"column3d/internal/scene/models"
	"column3d/internal/scene/palette"
)

// ============================================================
// Point-cloud Column
// ============================================================

const (
	minPoints       = 3
	maxPoints       = 100_000
	wobbleAmplitude = 0.1
	wobbleStep      = 0.5
	baseIntensity   = 0.7
	intensityRange  = 0.3
)

// ColumnStyle: параметры маркеров, общие для всех колонн сцены.
type ColumnStyle struct {
	Marker  models.Marker
	Size    float64
	Density float64
	Opacity float64
}

// PointCount возвращает число точек колонны высотой height.
func PointCount(height, density float64) int {
	height = sanitize(height)
	density = sanitize(density)
	n := math.Floor(height * density / 2)
	if n > maxPoints {
		return maxPoints
	}
	return max(minPoints, int(n))
}

// Column строит вертикальную колонну из точек над base.
// Отрицательная или нечисловая высота превращается в 0.
func Column(base models.Point2D, height float64, color palette.RGB, style ColumnStyle) []models.ColumnPoint {
	height = sanitize(height)
	count := PointCount(height, style.Density)

	points := make([]models.ColumnPoint, count)
	for i := 0; i < count; i++ {
		z := height
		if count > 1 {
			z = height * float64(i) / float64(count-1)
		}

		var offsetX, offsetY float64
		if style.Marker.Wobbles() {
			offsetX = wobbleAmplitude * math.Sin(float64(i)*wobbleStep)
			offsetY = wobbleAmplitude * math.Cos(float64(i)*wobbleStep)
		}

		points[i] = models.ColumnPoint{
			Position: models.Point3D{X: base.X + offsetX, Y: base.Y + offsetY, Z: z},
			Color:    color.RGBA(style.Opacity * Intensity(i, count)),
			Size:     style.Size,
			Symbol:   style.Marker,
		}
	}

	return points
}

// Intensity: множитель яркости i-й точки колонны из count.
// Делитель здесь count, а не count-1: верхняя точка не доходит до 1.0.
func Intensity(i, count int) float64 {
	if count <= 1 {
		return 1.0
	}
	return baseIntensity + intensityRange*(float64(i)/float64(count))
}

// ============================================================
// Box Mesh
// ============================================================

const (
	halfWidth   = 0.4
	FacesPerBox = 5
)

// Box строит бокс-столбик для index-й категории: x ∈ [index-0.4, index+0.4], y ∈ [-0.4, 0.4].
func Box(index int, height float64, color palette.RGB, opacity float64) []models.Face {
	return BoxAt(models.Point2D{X: float64(index)}, height, color, opacity)
}

// BoxAt строит 5 граней (front, back, left, right, top) вокруг center.
func BoxAt(center models.Point2D, height float64, color palette.RGB, opacity float64) []models.Face {
	height = sanitize(height)

	x0, x1 := center.X-halfWidth, center.X+halfWidth
	y0, y1 := center.Y-halfWidth, center.Y+halfWidth
	fill := color.String()

	face := func(name string, corners [4]models.Point3D) models.Face {
		return models.Face{Name: name, Corners: corners, Color: fill, Opacity: opacity}
	}

	return []models.Face{
		face("front", [4]models.Point3D{{X: x0, Y: y0, Z: 0}, {X: x1, Y: y0, Z: 0}, {X: x1, Y: y0, Z: height}, {X: x0, Y: y0, Z: height}}),
		face("back", [4]models.Point3D{{X: x0, Y: y1, Z: 0}, {X: x1, Y: y1, Z: 0}, {X: x1, Y: y1, Z: height}, {X: x0, Y: y1, Z: height}}),
		face("left", [4]models.Point3D{{X: x0, Y: y0, Z: 0}, {X: x0, Y: y1, Z: 0}, {X: x0, Y: y1, Z: height}, {X: x0, Y: y0, Z: height}}),
		face("right", [4]models.Point3D{{X: x1, Y: y0, Z: 0}, {X: x1, Y: y1, Z: 0}, {X: x1, Y: y1, Z: height}, {X: x1, Y: y0, Z: height}}),
		face("top", [4]models.Point3D{{X: x0, Y: y0, Z: height}, {X: x1, Y: y0, Z: height}, {X: x1, Y: y1, Z: height}, {X: x0, Y: y1, Z: height}}),
	}
}

// ============================================================
// Helpers
// ============================================================

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
