package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/graphdb/pkg/querydoc"
)

var queryCmd = &cobra.Command{
	Use:   "query <file|-e TEXT>",
	Short: "Run one statement against an embedded database and print its result",
	Long: `Opens a local embedded connection (per --database-path/--in-memory),
compiles and runs one query document, and prints the result as a
tab-separated table.

Examples:
  graphdb query --in-memory -e 'match: [{nodes: [{name: p, label: person}]}]
return: [{expr: {var: p}, alias: p}]'
  graphdb query --database-path ./data statement.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuery,
}

func init() {
	addDatabaseFlags(queryCmd)
	queryCmd.Flags().StringP("execute", "e", "", "Inline query document text instead of a file")
}

func runQuery(cmd *cobra.Command, args []string) error {
	raw, err := readQueryDocument(cmd, args)
	if err != nil {
		return err
	}

	doc, err := querydoc.Parse(raw)
	if err != nil {
		return err
	}
	bq, err := doc.Bind()
	if err != nil {
		return err
	}

	db, err := openDatabase(cmd)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	conn := db.Connect()

	if len(doc.ParamValues()) > 0 {
		stmt, err := conn.Prepare(bq)
		if err != nil {
			return err
		}
		res, err := conn.ExecuteWithParams(context.Background(), stmt, doc.ParamValues())
		if err != nil {
			return err
		}
		printTable(res.Columns, res.Rows)
		return nil
	}

	res, err := conn.Query(context.Background(), bq)
	if err != nil {
		return err
	}
	printTable(res.Columns, res.Rows)
	return nil
}
