package main

import "github.com/spf13/cobra"

// sourceFlags selects where a dataset comes from: a file, or a SQL query
// against one of the dbpool engines.
type sourceFlags struct {
	file   string
	engine string
	dsn    string
	query  string
	table  string
	limit  int
}

func (f *sourceFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.file, "file", "f", "", "Dataset file (.csv, .tsv, .txt, .xlsx, .xls)")
	fs.StringVar(&f.engine, "db", "", "Database engine for --dsn: sqlite, mysql or snowflake")
	fs.StringVar(&f.dsn, "dsn", "", "SQLite file path, or MySQL/Snowflake DSN")
	fs.StringVar(&f.query, "query", "", "SQL query producing the dataset")
	fs.StringVar(&f.table, "table", "", "Table to read when --query is not given")
	fs.IntVar(&f.limit, "limit", 0, "Row limit for --table (0 = all rows)")
}

func (f sourceFlags) empty() bool {
	return f.file == "" && f.dsn == ""
}
