package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"edachat/dataset"
)

var summarySource sourceFlags

// summaryCmd prints the statistics the model receives
var summaryCmd = &cobra.Command{
	Use:   "summary [FILE]",
	Short: "Print the dataset summary sent with every question",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSummary,
}

func init() {
	summarySource.bind(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	src := summarySource
	if len(args) == 1 {
		src.file = args[0]
	}

	ctx := cmd.Context()
	app, err := newApp(ctx, globalOptions())
	if err != nil {
		return err
	}
	defer app.Close()

	ds, err := app.loadSource(ctx, src)
	if err != nil {
		return WrapOperationError("load dataset", err)
	}
	renderSummary(cmd, dataset.Summarize(ds))
	return nil
}

func renderSummary(cmd *cobra.Command, s *dataset.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "shape: (%d, %d)\n", s.Rows, len(s.Columns))

	header, rows := s.Table()
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(toRow(header))
	for _, r := range rows {
		t.AppendRow(toRow(r))
	}
	t.Render()
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
