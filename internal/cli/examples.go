package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pipeviz/pkg/catalog"
)

// examplesCommand lists the built-in example pipelines.
func (c *CLI) examplesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "examples",
		Aliases: []string{"ls"},
		Short:   "List the built-in example pipelines",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := examplesTable()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// examplesTable builds every example to report its size.
func examplesTable() (string, error) {
	var rows [][]string
	for _, e := range catalog.Entries() {
		p, err := catalog.Build(e.Name)
		if err != nil {
			return "", err
		}
		d, err := p.Layout()
		if err != nil {
			return "", err
		}
		cycles := "-"
		if lo, hi, ok := d.XRange(); ok {
			cycles = strconv.Itoa(hi - lo + 1)
		}
		rows = append(rows, []string{
			e.Name,
			strconv.Itoa(len(p.Ops())),
			strconv.Itoa(len(p.Edges())),
			cycles,
			e.Description,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Instrs", "Edges", "Cycles", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle.Padding(0, 1)
			case col == 0:
				return cell.Foreground(colorCyan)
			case col == 4:
				return cell.Foreground(colorGray)
			}
			return cell.Align(lipgloss.Right)
		})

	return t.Render(), nil
}
