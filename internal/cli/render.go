package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"column3d/internal/scene/assembler"
	"column3d/internal/scene/export"
	"column3d/internal/scene/models"
	"column3d/internal/scene/parser"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// styleFlags: общие флаги render и scene.
type styleFlags struct {
	stylePath string
	layout    string
	scheme    string
	color     string
	marker    string
	title     string
	bars      bool
	dark      bool
}

func (f *styleFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.stylePath, "style", "s", "", "YAML style preset")
	cmd.Flags().StringVar(&f.layout, "layout", "", "Layout: linear, circular, wave, spiral, mountain, diamond")
	cmd.Flags().StringVar(&f.scheme, "scheme", "", "Color scheme: fire, ocean, nature, sunset, galaxy, rainbow, ice, autumn")
	cmd.Flags().StringVar(&f.color, "color", "", "Single color (#RRGGBB), switches color mode to single")
	cmd.Flags().StringVar(&f.marker, "marker", "", "Marker symbol")
	cmd.Flags().StringVar(&f.title, "title", "", "Chart title")
	cmd.Flags().BoolVar(&f.bars, "bars", false, "Render solid bars instead of point columns")
	cmd.Flags().BoolVar(&f.dark, "dark", false, "Dark background")
}

// resolve читает пресет поверх DefaultStyle и применяет явные флаги.
func (f *styleFlags) resolve() (models.StyleConfig, error) {
	style := models.DefaultStyle()

	if f.stylePath != "" {
		data, err := os.ReadFile(f.stylePath)
		if err != nil {
			return style, fmt.Errorf("read style preset: %w", err)
		}
		if err := yaml.Unmarshal(data, &style); err != nil {
			return style, fmt.Errorf("parse style preset: %w", err)
		}
	}

	if f.layout != "" {
		style.Layout = models.Layout(f.layout)
	}
	if f.scheme != "" {
		style.ColorMode = models.ColorModeScheme
		style.Scheme = models.Scheme(f.scheme)
	}
	if f.color != "" {
		style.ColorMode = models.ColorModeSingle
		style.SingleColor = f.color
	}
	if f.marker != "" {
		style.Marker = models.Marker(f.marker)
	}
	if f.title != "" {
		style.Title = f.title
	}
	if f.bars {
		style.RenderStyle = models.RenderBars
	}
	if f.dark {
		style.Options.DarkBackground = true
	}
	return style, nil
}

type renderOptions struct {
	styleFlags
	output    string
	plotlyURL string
}

func (a *App) newRenderCmd() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <data-file>",
		Short: "Render a dataset to a standalone HTML page",
		Long: `Render a "label,value" file (comma, tab or whitespace separated) into a
self-contained HTML page with an interactive 3D chart.

Examples:
  # Default style, writes dashboard_3d.html
  column3d render sales.csv

  # Spiral layout with the fire scheme
  column3d render sales.csv --layout spiral --scheme fire -o sales.html

  # Style preset plus solid bars
  column3d render sales.csv --style preset.yaml --bars`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.render(args[0], opts)
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", export.DefaultFilename, "Output HTML file")
	cmd.Flags().StringVar(&opts.plotlyURL, "plotly-url", export.DefaultPlotlyURL, "Plotly script URL embedded in the page")

	return cmd
}

func (a *App) render(path string, opts *renderOptions) error {
	scene, err := a.buildScene(path, &opts.styleFlags)
	if err != nil {
		return err
	}

	f, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	if err := export.WriteHTML(f, scene, export.HTMLOptions{PlotlyURL: opts.plotlyURL}); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Chart saved as '%s' (%d columns)\n", opts.output, scene.Columns)
	return nil
}

func (a *App) newSceneCmd() *cobra.Command {
	opts := &styleFlags{}

	cmd := &cobra.Command{
		Use:   "scene <data-file>",
		Short: "Print the assembled scene as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scene, err := a.buildScene(args[0], opts)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(a.stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(scene)
		},
	}

	opts.bind(cmd)
	return cmd
}

// buildScene разбирает файл и собирает сцену. Ошибка сборки не фатальна:
// печатается предупреждение и используется заглушка.
func (a *App) buildScene(path string, flags *styleFlags) (*models.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := parser.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	style, err := flags.resolve()
	if err != nil {
		return nil, err
	}

	scene, err := assembler.Render(ds, style)
	if err != nil {
		fmt.Fprintf(a.stderr, "warning: %v, using fallback chart\n", err)
	}
	return scene, nil
}
