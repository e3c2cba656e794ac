package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cuemby/graphdb/pkg/config"
	"github.com/cuemby/graphdb/pkg/session"
)

// readQueryDocument resolves the "<file|-e TEXT>" argument convention
// shared by `graphdb query` and `graphdb explain`: a positional file
// path, or inline text via -e/--execute.
func readQueryDocument(cmd *cobra.Command, args []string) ([]byte, error) {
	inline, _ := cmd.Flags().GetString("execute")
	if inline != "" {
		return []byte(inline), nil
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("provide a query document file or -e TEXT")
	}
	return os.ReadFile(args[0])
}

// openDatabase builds a session.Database from the command's
// --database-path/--in-memory flags, the embedded-connection
// counterpart to serveCmd's daemon form.
func openDatabase(cmd *cobra.Command) (*session.Database, error) {
	path, _ := cmd.Flags().GetString("database-path")
	inMemory, _ := cmd.Flags().GetBool("in-memory")

	cfg := config.Config{
		Database: config.DatabaseConfig{DatabasePath: path, InMemoryMode: inMemory},
		System:   config.DefaultSystemConfig(),
	}
	return session.Open(cfg)
}

func addDatabaseFlags(cmd *cobra.Command) {
	cmd.Flags().String("database-path", "", "On-disk data directory")
	cmd.Flags().Bool("in-memory", false, "Run against a temporary in-memory data directory")
}

// printTable renders a query result the way `graphdb query` prints to
// stdout: a header row followed by one line per result row, tab-
// aligned the way teacher CLI commands print fmt.Printf tables.
func printTable(columns []string, rows [][]any) {
	for i, c := range columns {
		if i > 0 {
			fmt.Print("\t")
		}
		fmt.Print(c)
	}
	fmt.Println()

	for _, row := range rows {
		for i, v := range row {
			if i > 0 {
				fmt.Print("\t")
			}
			fmt.Printf("%v", v)
		}
		fmt.Println()
	}
	fmt.Printf("(%d rows)\n", len(rows))
}
