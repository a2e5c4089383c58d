package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flashpoint-tracker/flashpoint/pkg/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty store document",
	Long: `Creates the store document for a first run. fetch and ticker refuse to
run against a missing store rather than risk overwriting history, so the
initial empty document has to be created explicitly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := storePath(cmd)
		if err := store.Init(path); err != nil {
			return err
		}
		fmt.Printf("Created empty store at %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
