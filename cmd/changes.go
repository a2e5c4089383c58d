package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flashpoint-tracker/flashpoint/pkg/archive"
)

var changesCmd = &cobra.Command{
	Use:   "changes",
	Short: "Show recent store changes from the archive (default 50)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		archivePath, _ := cmd.Flags().GetString("archive")
		limit, _ := cmd.Flags().GetInt("limit")
		if _, err := os.Stat(archivePath); err != nil {
			return fmt.Errorf("archive not found: %s", archivePath)
		}
		db, err := archive.Open(archivePath)
		if err != nil {
			return err
		}
		defer db.Close()
		changes, err := db.ListRecent(context.Background(), limit)
		if err != nil {
			return err
		}
		for _, c := range changes {
			ts := c.OccurredAt.Format("2006-01-02 15:04:05")
			fmt.Printf("%s  %-6s  %-10s  %-7s  %s\n", ts, c.ChangeType, c.Type, c.Country, c.Title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(changesCmd)
	changesCmd.Flags().String("archive", "flashpoint.sqlite", "Path to SQLite archive DB")
	changesCmd.Flags().Int("limit", 50, "Number of recent changes to show")
}
