package cli

import (
	"fmt"
	"text/tabwriter"

	"column3d/internal/scene/models"

	"github.com/spf13/cobra"
)

func (a *App) newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List layouts, color schemes, markers, fonts and render styles",
		RunE: func(cmd *cobra.Command, args []string) error {
			groups := []struct {
				title string
				items []models.Option
			}{
				{"LAYOUTS", models.Layouts()},
				{"SCHEMES", models.Schemes()},
				{"SWATCHES", models.Swatches()},
				{"MARKERS", models.Markers()},
				{"FONTS", models.Fonts()},
				{"RENDER STYLES", models.RenderStyles()},
			}

			w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			for i, g := range groups {
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "%s\n", g.title)
				for _, o := range g.items {
					fmt.Fprintf(w, "  %s\t%s\n", o.Value, o.Label)
				}
			}
			return w.Flush()
		},
	}
}
