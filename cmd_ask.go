package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"edachat/agent"
	"edachat/i18n"
)

var (
	askSource sourceFlags
	askX      string
	askY      string
	askOut    string
)

// askCmd answers one question about one dataset
var askCmd = &cobra.Command{
	Use:   "ask QUESTION",
	Short: "Answer a single question about a dataset",
	Long: `Loads the dataset, asks the model and prints the answer. Charts are
written as PNG files to --out.

Examples:
  edachat ask -f people.csv "How is age distributed?"
  edachat ask --db sqlite --dsn shop.db --table orders "Plot amount vs discount" --x discount --y amount`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askSource.bind(askCmd)
	askCmd.Flags().StringVar(&askX, "x", "", "Scatter x column")
	askCmd.Flags().StringVar(&askY, "y", "", "Scatter y column")
	askCmd.Flags().StringVarP(&askOut, "out", "o", "charts", "Directory for chart images")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, err := newApp(ctx, globalOptions())
	if err != nil {
		return err
	}
	defer app.Close()

	ds, err := app.loadSource(ctx, askSource)
	if err != nil {
		return WrapOperationError("load dataset", err)
	}

	sess := agent.NewSession("")
	app.agent.LoadDataset(sess, ds)

	var opts []agent.AskOption
	if askX != "" || askY != "" {
		opts = append(opts, agent.WithAxes(askX, askY))
	}
	ans, err := app.agent.AnswerQuestion(ctx, sess, strings.Join(args, " "), opts...)
	if err != nil {
		return WrapOperationError("answer question", err)
	}
	return printAnswer(cmd.OutOrStdout(), app.tr, ans, askOut, "ask")
}

// printAnswer prints the answer text and saves its charts.
func printAnswer(w io.Writer, tr *i18n.Translator, ans *agent.Answer, dir, prefix string) error {
	fmt.Fprintln(w, ans.Text)
	paths, err := saveArtifacts(dir, prefix, ans.Artifacts)
	for _, p := range paths {
		fmt.Fprintln(w, tr.T("cli.chart_saved", p))
	}
	if err != nil {
		return WrapOperationError("save chart", err)
	}
	return nil
}
