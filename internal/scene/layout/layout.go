package layout

import (
	"math"

	"column3d/internal/scene/models"
)

// ============================================================
// Layout Positioner
// ============================================================

// Positions раскладывает n колонн на плоскости XY.
// Неизвестный layout обрабатывается как linear.
func Positions(n int, kind models.Layout) ([]float64, []float64) {
	if n <= 0 {
		return []float64{}, []float64{}
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	div := float64(max(1, n))
	center := n / 2

	for i := 0; i < n; i++ {
		fi := float64(i)

		switch kind {
		case models.LayoutCircular:
			radius := Radius(n)
			angle := 2 * math.Pi * fi / div
			xs[i] = radius * math.Cos(angle)
			ys[i] = radius * math.Sin(angle)

		case models.LayoutWave:
			xs[i] = fi * 2
			ys[i] = 3 * math.Sin(2*math.Pi*fi/div)

		case models.LayoutSpiral:
			rho := 2 * (fi + 1) / div
			angle := 3 * math.Pi * fi / div
			xs[i] = rho * math.Cos(angle)
			ys[i] = rho * math.Sin(angle)

		case models.LayoutMountain:
			xs[i] = fi * 1.5
			ys[i] = math.Abs(float64(i-center)) * 0.8

		case models.LayoutDiamond:
			xs[i] = float64(i - center)
			ys[i] = math.Abs(float64(i-center)) - float64(center)

		default: // linear
			xs[i] = fi * 1.5
			ys[i] = 0
		}
	}

	return xs, ys
}

// Points: то же, что Positions, но парами.
func Points(n int, kind models.Layout) []models.Point2D {
	xs, ys := Positions(n, kind)
	out := make([]models.Point2D, len(xs))
	for i := range xs {
		out[i] = models.Point2D{X: xs[i], Y: ys[i]}
	}
	return out
}

// Radius возвращает радиус круговой раскладки для n колонн.
func Radius(n int) float64 {
	return math.Max(3, float64(n)*0.5)
}
