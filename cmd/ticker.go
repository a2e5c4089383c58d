package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flashpoint-tracker/flashpoint/internal/utils"
	"github.com/flashpoint-tracker/flashpoint/pkg/bird"
	"github.com/flashpoint-tracker/flashpoint/pkg/reconcile"
	"github.com/flashpoint-tracker/flashpoint/pkg/store"
)

var tickerCmd = &cobra.Command{
	Use:   "ticker",
	Short: "Refresh the rolling ticker without touching events",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := storePath(cmd)
		lock, err := utils.NewStoreLock(path)
		if err != nil {
			return err
		}
		if err := lock.Lock(); err != nil {
			return err
		}
		defer lock.Unlock()

		doc, err := store.Load(path)
		if err != nil {
			return err
		}

		count, _ := cmd.Flags().GetInt("count")
		news, err := bird.New().News(cmd.Context(), count)
		if err != nil {
			return err
		}

		texts := reconcile.BuildTicker(news)
		updated := reconcile.Ticker(doc, texts)

		if err := store.Save(path, updated); err != nil {
			return err
		}
		fmt.Printf("Ticker refreshed: %d entries\n", len(updated.TickerTexts))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tickerCmd)
	tickerCmd.Flags().Int("count", 20, "Number of trending items to fetch")
}
