package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/schemline/schemline/pkg/pipeline"
	"github.com/schemline/schemline/pkg/schema"
)

// solveCommand creates the solve command for computing placements.
func (c *CLI) solveCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "solve [document.toml]",
		Short: "Solve a constraint document into node positions",
		Long: `Solve a constraint document into node positions.

The solve command reads a TOML constraint document, merges linked nodes,
solves both axes, and writes a placement document with every node's
coordinates and the overall width and height.

Solving is deterministic, so results are cached locally by document hash.
Use --refresh to bypass the cache, or --no-cache to disable it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr, pipeline.FormatJSON)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runPipeline(cmd.Context(), args[0], opts, output, noCache, "solve")
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), dot, svg, png (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the placement cache and re-solve")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "include coordinates in diagram labels")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "diagram points per layout unit (default 72)")

	return cmd
}

// runPipeline loads the document, runs the solve → render pipeline, and
// writes the requested artifacts. Both solve and render funnel here; they
// differ only in default formats and next-step hints.
func (c *CLI) runPipeline(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool, verb string) error {
	ctx = withLogger(ctx, c.Logger)
	logger := loggerFromContext(ctx)

	doc, err := schema.Load(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}
	if doc.Title != "" {
		logger.Debugf("Loaded %q", doc.Title)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = logger

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Solving %s...", filepath.Base(input)))
	spinner.Start()

	result, err := runner.Execute(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Solve failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Solved %d nodes", result.Stats.NodeCount))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	printSuccess("Placement solved")
	printKeyValue("Size", fmt.Sprintf("%g x %g", result.Placement.Width, result.Placement.Height))
	for _, w := range result.Placement.Warnings {
		printWarning("%s", w)
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.NodeCount, result.Stats.ConstraintCount, result.CacheInfo.SolveHit)

	if verb == "solve" && len(paths) > 0 {
		printNewline()
		printNextStep("Render", "schemline render "+input)
	}
	return nil
}

// =============================================================================
// Artifact Output
// =============================================================================

// writeFile writes data to path, or to stdout when path is "-".
func writeFile(data []byte, path string) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifacts writes one file per requested format and returns the paths.
// A single format honors output as the exact file name; multiple formats use
// it as a base path. "-" as output streams the single format to stdout.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	if len(formats) == 1 {
		path := output
		if path == "" {
			path = basePath("", input) + "." + formats[0]
		}
		if err := writeFile(artifacts[formats[0]], path); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		if path == "-" {
			return nil, nil
		}
		return []string{path}, nil
	}

	base := basePath(output, input)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + "." + format
		if err := writeFile(artifacts[format], path); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
