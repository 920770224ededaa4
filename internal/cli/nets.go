package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackup/pkg/errors"
	"github.com/matzehuels/stackup/pkg/pipeline"
	"github.com/matzehuels/stackup/pkg/render/netgraph"
)

// netsOpts holds the command-line flags for the nets command.
type netsOpts struct {
	output   string // diagram path, empty to only list nets
	dot      bool   // write Graphviz DOT instead of SVG
	detailed bool   // shape and via counts in labels
	floating bool   // include nets without planar copper
}

// netsCommand creates the nets command.
func (c *CLI) netsCommand() *cobra.Command {
	var opts netsOpts

	cmd := &cobra.Command{
		Use:   "nets <board.json>",
		Short: "List the electrical nets of a board",
		Long: `Nets extracts the physical netlist of a board document, names nets from the
document's probes and lists them. With --output it also writes a net diagram
that links each net to the copper layers it spans.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readDocument(args[0])
			if err != nil {
				return err
			}
			doc, b, err := pipeline.Parse(data, c.Config.Stackup)
			if err != nil {
				return err
			}
			nl := pipeline.Nets(doc, b)
			s := pipeline.Summarize(b, nl)

			printSuccess("%s has %d nets", StyleHighlight.Render(s.Name), len(s.Nets))
			for _, n := range s.Nets {
				printDetail("%-16s copper %s · %d shapes · %d vias", n.Name, joinInts(n.Layers), n.Shapes, n.Vias)
			}

			if opts.output == "" {
				return nil
			}
			dot := netgraph.ToDOT(nl, pipeline.CopperNames(b), netgraph.Options{
				Detailed:     opts.detailed,
				SkipFloating: !opts.floating,
			})
			out := []byte(dot)
			if !opts.dot {
				if out, err = netgraph.RenderSVG(cmd.Context(), dot); err != nil {
					return err
				}
			}
			if err := os.WriteFile(opts.output, out, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", opts.output)
			}
			printNewline()
			printFile(opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write a net diagram to this file")
	cmd.Flags().BoolVar(&opts.dot, "dot", false, "write Graphviz DOT instead of SVG")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "add shape and via counts to net labels")
	cmd.Flags().BoolVar(&opts.floating, "floating", false, "include nets without planar copper")

	return cmd
}
