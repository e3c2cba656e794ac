package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/graphdb/pkg/querydoc"
)

var explainCmd = &cobra.Command{
	Use:   "explain <file|-e TEXT>",
	Short: "Print the plan enumerator's chosen candidate for a query document",
	Long: `Compiles a query document the same way "graphdb query" does, but
instead of running the statement, prints the enumerate_plans output:
the operator chain the physical mapper would turn into a pipeline,
annotated with its estimated cardinality and cost.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExplain,
}

func init() {
	addDatabaseFlags(explainCmd)
	explainCmd.Flags().StringP("execute", "e", "", "Inline query document text instead of a file")
}

func runExplain(cmd *cobra.Command, args []string) error {
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

	plans, err := db.Connect().EnumeratePlans(bq)
	if err != nil {
		return err
	}
	for _, p := range plans {
		fmt.Println(p.Description)
	}
	return nil
}
