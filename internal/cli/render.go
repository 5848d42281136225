package cli

import (
	"github.com/spf13/cobra"

	"github.com/schemline/schemline/pkg/pipeline"
)

// renderCommand creates the render command for generating diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [document.toml]",
		Short: "Render a constraint document as a diagram",
		Long: `Render a constraint document as a diagram.

The render command solves the document and draws its constraint graph with
Graphviz: nodes pinned at their solved positions, fixed constraints as solid
edges, stretchy ones dashed, links dotted. Output defaults to SVG; DOT and
PNG are also available.

Results are cached locally for faster subsequent runs.

Use 'solve' instead when you only need the placement coordinates.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr, pipeline.FormatSVG)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runPipeline(cmd.Context(), args[0], opts, output, noCache, "render")
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png, json (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the placement cache and re-solve")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "include coordinates in node labels")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "diagram points per layout unit (default 72)")

	return cmd
}
