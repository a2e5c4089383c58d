package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flashpoint-tracker/flashpoint/internal/utils"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	LOGO = `	  __ _           _                 _       _
	 / _| | __ _ ___| |__  _ __   ___ (_)_ __ | |_
	| |_| |/ _` + "`" + ` / __| '_ \| '_ \ / _ \| | '_ \| __|
	|  _| | (_| \__ \ | | | |_) | (_) | | | | | |_
	|_| |_|\__,_|___/_| |_| .__/ \___/|_|_| |_|\__|
	                      |_|

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "flashpoint",
	Short: "A conflict event tracker for the Middle East region.",
	Long: LOGO + `flashpoint ingests short-form event and headline records from external
sources on a schedule, reconciles them into a canonical event store, and
serves a live, filterable feed. Existing events are never lost and duplicates
are never shown.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.flashpoint.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("store", "s", "", "Path to the events store document (default is data/events.json)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".flashpoint")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.flashpoint.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Set default values for all keys
	viper.SetDefault("store.path", "data/events.json")
	viper.SetDefault("keywords", []string{
		"israel iran war",
		"tel aviv missile",
		"tehran strike",
		"hormuz blockade",
		"airspace closed",
	})
	viper.SetDefault("accounts", []string{
		"IDF",
		"Osinttechnical",
		"sentdefender",
	})
	viper.SetDefault("feeds.urls", []string{})
	viper.SetDefault("deploy.hook", "")
	viper.SetDefault("server.username", "")
	viper.SetDefault("server.password", "")

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}

// storePath resolves the store document path: flag first, then config.
func storePath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("store"); path != "" {
		return path
	}
	return viper.GetString("store.path")
}
