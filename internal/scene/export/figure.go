package export

import (
	"encoding/json"
	"fmt"

	"column3d/internal/scene/models"
)

// ============================================================
// Plotly Figure
// ============================================================

const hoverTemplate = "<b>%{hovertext}</b><br>3D position: (%{x:.1f}, %{y:.1f}, %{z:.1f})<extra></extra>"

// Figure переводит сцену в plotly-фигуру {data, layout}.
func Figure(scene *models.Scene) map[string]any {
	if scene == nil {
		return map[string]any{"data": []any{}, "layout": map[string]any{}}
	}

	data := []any{}
	if len(scene.Points) > 0 {
		data = append(data, pointsTrace(scene))
	}
	if len(scene.Faces) > 0 {
		data = append(data, meshTrace(scene))
	}

	return map[string]any{
		"data":   data,
		"layout": layoutConfig(scene),
	}
}

// FigureJSON сериализует Figure.
func FigureJSON(scene *models.Scene) ([]byte, error) {
	b, err := json.Marshal(Figure(scene))
	if err != nil {
		return nil, fmt.Errorf("marshal figure: %w", err)
	}
	return b, nil
}

func pointsTrace(scene *models.Scene) map[string]any {
	n := len(scene.Points)
	xs, ys, zs := make([]float64, n), make([]float64, n), make([]float64, n)
	colors, sizes, labels := make([]string, n), make([]float64, n), make([]string, n)

	for i, p := range scene.Points {
		xs[i], ys[i], zs[i] = p.Position.X, p.Position.Y, p.Position.Z
		colors[i] = p.Color
		sizes[i] = p.Size
		labels[i] = p.Label
	}

	trace := map[string]any{
		"type":      "scatter3d",
		"x":         xs,
		"y":         ys,
		"z":         zs,
		"mode":      "markers",
		"hovertext": labels,
		"marker": map[string]any{
			"size":    sizes,
			"color":   colors,
			"symbol":  string(scene.Marker),
			"opacity": scene.Opacity,
			"line": map[string]any{
				"width": scene.Appearance.BorderWidth,
				"color": "black",
			},
		},
		"hovertemplate": hoverTemplate,
		"showlegend":    false,
	}

	if scene.Appearance.ShowValues {
		trace["mode"] = "markers+text"
		trace["text"] = labels
		trace["textposition"] = "middle center"
	}
	return trace
}

// meshTrace склеивает все грани в один mesh3d: каждый quad дает два треугольника.
func meshTrace(scene *models.Scene) map[string]any {
	var xs, ys, zs []float64
	var is, js, ks []int
	var faceColors, labels []string

	for _, f := range scene.Faces {
		base := len(xs)
		for _, c := range f.Corners {
			xs = append(xs, c.X)
			ys = append(ys, c.Y)
			zs = append(zs, c.Z)
			labels = append(labels, f.Label)
		}

		is = append(is, base, base)
		js = append(js, base+1, base+2)
		ks = append(ks, base+2, base+3)
		faceColors = append(faceColors, f.Color, f.Color)
	}

	return map[string]any{
		"type":          "mesh3d",
		"x":             xs,
		"y":             ys,
		"z":             zs,
		"i":             is,
		"j":             js,
		"k":             ks,
		"facecolor":     faceColors,
		"opacity":       scene.Opacity,
		"flatshading":   true,
		"hovertext":     labels,
		"hovertemplate": hoverTemplate,
		"showlegend":    false,
	}
}

// ============================================================
// Layout
// ============================================================

func layoutConfig(scene *models.Scene) map[string]any {
	app := scene.Appearance

	axis := func(title string) map[string]any {
		return map[string]any{
			"title":           map[string]any{"text": "<b>" + title + "</b>"},
			"showgrid":        app.ShowGrid,
			"showline":        app.ShowAxes,
			"gridcolor":       app.GridColor,
			"linecolor":       app.LineColor,
			"backgroundcolor": app.AxisBackground,
			"tickfont": map[string]any{
				"size":   scene.Font.Size,
				"family": scene.Font.Family,
			},
		}
	}

	return map[string]any{
		"title": map[string]any{
			"text": "<b>" + scene.Title + "</b>",
			"x":    0.5,
			"font": map[string]any{"size": scene.TitleFontSize, "family": scene.Font.Family},
		},
		"scene": map[string]any{
			"xaxis": axis(scene.Axes.X),
			"yaxis": axis(scene.Axes.Y),
			"zaxis": axis(scene.Axes.Z),
			"camera": map[string]any{
				"eye": map[string]any{"x": scene.Camera.X, "y": scene.Camera.Y, "z": scene.Camera.Z},
			},
			"aspectmode": "cube",
			"bgcolor":    app.Background,
		},
		"height":        scene.Height,
		"margin":        map[string]any{"l": 20, "r": 20, "t": 60, "b": 20},
		"paper_bgcolor": app.PaperBackground,
		"font": map[string]any{
			"family": scene.Font.Family,
			"size":   scene.Font.Size,
			"color":  scene.Font.Color,
		},
	}
}
