package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"edachat/agent"
	"edachat/export"
)

var (
	chatSource sourceFlags
	chatOut    string
)

// chatCmd runs an interactive question loop
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive questions about a dataset",
	Long: `Reads one question per line from stdin and answers them in order.

Lines starting with ':' are commands:
  :load FILE         replace the dataset
  :memory            print the conclusions so far
  :export FILE.pdf   save the conversation as a PDF report
  :help              list commands
  :quit              leave`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatSource.bind(chatCmd)
	chatCmd.Flags().StringVarP(&chatOut, "out", "o", "charts", "Directory for chart images")
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	app, err := newApp(ctx, globalOptions())
	if err != nil {
		return err
	}
	defer app.Close()

	c := newChat(app, cmd.OutOrStdout(), chatOut)
	if !chatSource.empty() {
		ds, err := app.loadSource(ctx, chatSource)
		if err != nil {
			return WrapOperationError("load dataset", err)
		}
		app.agent.LoadDataset(c.session, ds)
		fmt.Fprintln(c.out, c.app.tr.T("cli.loaded", ds.Name))
	}
	return c.run(ctx, cmd.InOrStdin())
}

// chat is one interactive session plus the transcript for :export.
type chat struct {
	app        *App
	session    *agent.Session
	out        io.Writer
	chartDir   string
	transcript []export.Entry
}

func newChat(app *App, out io.Writer, chartDir string) *chat {
	return &chat{app: app, session: agent.NewSession(""), out: out, chartDir: chartDir}
}

func (c *chat) run(ctx context.Context, in io.Reader) error {
	tr := c.app.tr
	fmt.Fprintln(c.out, tr.T("cli.welcome"))
	fmt.Fprintln(c.out, tr.T("cli.help"))

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for {
		fmt.Fprint(c.out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			quit, err := c.command(ctx, line)
			if err != nil {
				fmt.Fprintln(c.out, err)
			}
			if quit {
				return nil
			}
			continue
		}
		if err := c.ask(ctx, line); err != nil {
			// Gateway failures end the turn, not the session.
			fmt.Fprintln(c.out, err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
	return scanner.Err()
}

func (c *chat) ask(ctx context.Context, question string) error {
	fmt.Fprintln(c.out, c.app.tr.T("cli.processing"))
	ans, err := c.app.agent.AnswerQuestion(ctx, c.session, question)
	if err != nil {
		return WrapOperationError("answer question", err)
	}

	n := len(c.transcript) + 1
	charts := make([]export.Chart, 0, len(ans.Artifacts))
	for _, a := range ans.Artifacts {
		charts = append(charts, export.Chart{Title: a.Title, PNG: a.PNG})
	}
	c.transcript = append(c.transcript, export.Entry{Question: question, Answer: ans.Text, Charts: charts})
	return printAnswer(c.out, c.app.tr, ans, c.chartDir, fmt.Sprintf("q%d", n))
}

// command handles a ':' line and reports whether the loop should end.
func (c *chat) command(ctx context.Context, line string) (bool, error) {
	tr := c.app.tr
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case ":quit", ":q", ":exit":
		return true, nil
	case ":help":
		fmt.Fprintln(c.out, tr.T("cli.help"))
	case ":load":
		ds, err := c.app.loadSource(ctx, sourceFlags{file: arg})
		if err != nil {
			return false, WrapOperationError("load dataset", err)
		}
		c.app.agent.LoadDataset(c.session, ds)
		fmt.Fprintln(c.out, tr.T("cli.loaded", ds.Name))
	case ":memory":
		conclusions := c.session.Memory().Conclusions()
		if len(conclusions) == 0 {
			fmt.Fprintln(c.out, tr.T("cli.no_memory"))
		}
		for i, s := range conclusions {
			fmt.Fprintf(c.out, "%d. %s\n", i+1, s)
		}
	case ":export":
		if arg == "" {
			arg = "report.pdf"
		}
		if err := c.export(arg); err != nil {
			return false, WrapOperationError("export report", err)
		}
		fmt.Fprintln(c.out, tr.T("cli.exported", arg))
	default:
		fmt.Fprintln(c.out, tr.T("cli.unknown", name))
	}
	return false, nil
}

func (c *chat) export(path string) error {
	t := export.Transcript{Entries: c.transcript, Created: time.Now()}
	if ds := c.session.Dataset(); ds != nil {
		t.Dataset = ds.Name
	}
	pdf, err := c.app.exporter.ExportTranscript(t)
	if err != nil {
		return err
	}
	return os.WriteFile(path, pdf, 0o644)
}
