package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flashpoint-tracker/flashpoint/internal/server"
	"github.com/flashpoint-tracker/flashpoint/pkg/feed"
	"github.com/flashpoint-tracker/flashpoint/pkg/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the live feed view over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := storePath(cmd)
		doc, err := store.Load(path)
		if err != nil {
			return err
		}

		model := feed.New()
		model.ApplySnapshot(doc)

		simSeconds, _ := cmd.Flags().GetInt("sim-interval")
		if simSeconds > 0 {
			go model.Run(cmd.Context(), time.Duration(simSeconds)*time.Second)
		}

		listenAddr, _ := cmd.Flags().GetString("listen")
		srv := server.New(model, doc,
			viper.GetString("server.username"),
			viper.GetString("server.password"))
		return srv.Start(listenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().Int("sim-interval", 30, "Seconds between simulated appends (0 to disable)")
}
