package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackup/pkg/errors"
	"github.com/matzehuels/stackup/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string  // output directory
	formats    string  // comma-separated formats, empty for the configured ones
	scale      float64 // SVG units per mm
	resolution float64 // PNG pixels per mm
	shadow     bool    // SVG drop shadow
	workers    int     // concurrent net meshing
	noCache    bool    // bypass the artifact cache
	refresh    bool    // re-render and overwrite cached artifacts
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <board.json>",
		Short: "Render a board document to views and solid models",
		Long: `Render builds the layer stack of a board document and writes the requested
artifacts into the output directory:

  svg   top.svg, bottom.svg
  png   top.png, bottom.png
  obj   board.obj, board.mtl
  stl   board.stl
  json  summary.json
  nets  nets.dot, nets.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", ".", "output directory")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg, png, obj, stl, json, nets (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "SVG units per mm (default from config)")
	cmd.Flags().Float64Var(&opts.resolution, "resolution", 0, "PNG pixels per mm (default from config)")
	cmd.Flags().BoolVar(&opts.shadow, "shadow", false, "add a drop shadow to SVG views")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "nets meshed concurrently (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts renderOpts) error {
	ctx := cmd.Context()
	if err := errors.ValidatePath(opts.output); err != nil {
		return err
	}
	data, err := readDocument(path)
	if err != nil {
		return err
	}

	popts, err := c.pipelineOptions()
	if err != nil {
		return err
	}
	popts.Document = data
	popts.Formats = parseFormats(opts.formats, popts.Formats)
	if err := pipeline.ValidateFormats(popts.Formats); err != nil {
		return err
	}
	if opts.scale != 0 {
		popts.Scale = opts.scale
	}
	if opts.resolution != 0 {
		popts.Resolution = opts.resolution
	}
	if opts.workers != 0 {
		popts.Workers = opts.workers
	}
	if cmd.Flags().Changed("shadow") {
		popts.Shadow = opts.shadow
	}
	popts.Refresh = opts.refresh

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := c.execute(ctx, runner, popts)
	if err != nil {
		return err
	}

	files, err := writeArtifacts(opts.output, res.Artifacts)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", StyleHighlight.Render(res.Board.Name()))
	printStats(res.Stats, res.CacheInfo.RenderHit)
	for _, f := range files {
		printFile(f)
	}
	printNewline()
	printNextStep("Explore the layer stack", fmt.Sprintf("%s inspect %s", appName, path))
	return nil
}

// execute runs the pipeline behind a spinner.
func (c *CLI) execute(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	spinner := newSpinner(ctx, os.Stderr, "Rendering board...")
	restore := withStageHooks(spinner)
	defer restore()
	spinner.Start()
	prog := newProgress(loggerFromContext(ctx))

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return nil, err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %d artifacts", len(res.Artifacts)))
	return res, nil
}

// readDocument reads a board document, mapping a missing file to
// FILE_NOT_FOUND.
func readDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "board document %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return data, nil
}

// writeArtifacts writes every artifact into dir and returns the written
// paths in name order.
func writeArtifacts(dir string, artifacts map[string][]byte) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create output directory %s", dir)
	}
	names := make([]string, 0, len(artifacts))
	for name := range artifacts {
		names = append(names, name)
	}
	sort.Strings(names)

	paths := make([]string, 0, len(names))
	for _, name := range names {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, artifacts[name], 0o644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", p)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
