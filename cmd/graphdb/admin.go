package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative operations against an embedded database",
}

var adminResizeBufferCmd = &cobra.Command{
	Use:   "resize-buffer",
	Short: "Resize the buffer manager's default and large page pools",
	Long: `Sets the buffer manager's default and large-page pool capacities
to the given byte sizes; a size of 0 leaves that pool unchanged. Each
pool holds its lock for the duration of its resize, so pins against it
wait until the resize finishes. Dirty unpinned pages are written back
first, and shrinking evicts unpinned frames only, never a pinned one.`,
	RunE: runAdminResizeBuffer,
}

func init() {
	adminCmd.AddCommand(adminResizeBufferCmd)

	addDatabaseFlags(adminResizeBufferCmd)
	adminResizeBufferCmd.Flags().Uint64("default-pool", 0, "Default page pool size in bytes")
	adminResizeBufferCmd.Flags().Uint64("large-pool", 0, "Large page pool size in bytes")
	adminResizeBufferCmd.MarkFlagRequired("default-pool")
	adminResizeBufferCmd.MarkFlagRequired("large-pool")
}

func runAdminResizeBuffer(cmd *cobra.Command, args []string) error {
	defaultPool, _ := cmd.Flags().GetUint64("default-pool")
	largePool, _ := cmd.Flags().GetUint64("large-pool")

	db, err := openDatabase(cmd)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.ResizeBufferManager(defaultPool, largePool); err != nil {
		return err
	}

	fmt.Printf("buffer manager resized: default=%d bytes large=%d bytes\n", defaultPool, largePool)
	return nil
}
