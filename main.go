package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	configFile string
	storageDir string
	verbose    bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "edachat",
	Short: "Ask questions about a dataset and get charts back",
	Long: `edachat loads a tabular dataset (CSV, Excel or a SQL query), sends each
question together with a statistical summary of the data to a language model,
and renders the chart the model asks for.

Examples:
  edachat ask -f sales.csv "Which numeric columns are skewed?"
  edachat chat -f sales.csv
  edachat summary sales.csv
  edachat serve`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: <storage>/config.json)")
	rootCmd.PersistentFlags().StringVar(&storageDir, "storage", "", "Storage directory (default: ~/EDAChat)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to stderr at debug level")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
