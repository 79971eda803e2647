package export

import (
	"fmt"
	"html/template"
	"io"

	"column3d/internal/scene/models"
)

// ============================================================
// HTML Export
// ============================================================

const (
	DefaultPlotlyURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"
	DefaultFilename  = "dashboard_3d.html"
)

type HTMLOptions struct {
	PlotlyURL string
}

var page = template.Must(template.New("figure").Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <script src="{{.PlotlyURL}}"></script>
  <style>body { margin: 0; background: {{.Background}}; }</style>
</head>
<body>
<div id="figure" style="width: 100%; height: {{.Height}}px;"></div>
<script>
  const figure = {{.Figure}};
  Plotly.newPlot('figure', figure.data, figure.layout, {displaylogo: false, responsive: true});
</script>
</body>
</html>
`))

type pageData struct {
	Title      string
	PlotlyURL  string
	Background template.CSS
	Height     int
	Figure     template.JS
}

// WriteHTML пишет автономную HTML-страницу с фигурой сцены.
func WriteHTML(w io.Writer, scene *models.Scene, opts HTMLOptions) error {
	if scene == nil {
		return fmt.Errorf("scene is nil")
	}

	figure, err := FigureJSON(scene)
	if err != nil {
		return err
	}

	url := opts.PlotlyURL
	if url == "" {
		url = DefaultPlotlyURL
	}

	data := pageData{
		Title:      scene.Title,
		PlotlyURL:  url,
		Background: template.CSS(scene.Appearance.PaperBackground),
		Height:     scene.Height,
		Figure:     template.JS(figure),
	}

	if err := page.Execute(w, data); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
