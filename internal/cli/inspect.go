package cli

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackup/pkg/pipeline"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect <board.json>",
		Short: "Browse the layer stack and nets of a board",
		Long: `Inspect builds a board document and opens an interactive browser over its
layer stack and nets. Use --plain to print the layer table instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.summarize(args[0])
			if err != nil {
				return err
			}
			if plain {
				fmt.Println(plainSummary(s))
				return nil
			}
			_, err = tea.NewProgram(NewInspectModel(s), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the layer table without the interactive browser")

	return cmd
}

// summarize builds the board document at path with the configured stackup.
func (c *CLI) summarize(path string) (pipeline.Summary, error) {
	data, err := readDocument(path)
	if err != nil {
		return pipeline.Summary{}, err
	}
	doc, b, err := pipeline.Parse(data, c.Config.Stackup)
	if err != nil {
		return pipeline.Summary{}, err
	}
	return pipeline.Summarize(b, pipeline.Nets(doc, b)), nil
}

// plainSummary renders the layer stack top first as a static table.
func plainSummary(s pipeline.Summary) string {
	rows := make([][]string, 0, len(s.Layers))
	for i := len(s.Layers) - 1; i >= 0; i-- {
		l := s.Layers[i]
		rows = append(rows, []string{
			strconv.Itoa(l.Index),
			l.Name,
			l.Kind,
			fmt.Sprintf("%.3f", l.Z),
			fmt.Sprintf("%.3f", l.Thickness),
			fmt.Sprintf("%.2f", l.Area),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Layer", "Kind", "Z (mm)", "Thick (mm)", "Area (mm²)").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		})

	return fmt.Sprintf("%s  %.2f × %.2f × %.3f mm, %d vias, %d nets\n%s",
		StyleTitle.Render(s.Name), s.Width, s.Height, s.Thickness, s.Vias, len(s.Nets), t.Render())
}
