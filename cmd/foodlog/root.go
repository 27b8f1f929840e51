package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "foodlog",
	Short: "Meal photo scan-flow service.",
	Long: `foodlog serves the scan flow of the FoodLog app over HTTP and WebSocket:
open the camera screen, pick or drop a photo, watch the analysis progress and
read the nutrition breakdown.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is configs/config.yml)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "", "Set log level. Available: debug, info, warn, error")
	rootCmd.PersistentFlags().String("logformat", "", "Set log format. Available: console, json")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("loglevel"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("logformat"))
}

// initConfig points viper at the config file. Reading happens in config.Load.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		return
	}
	viper.AddConfigPath("configs") // configs/config.yml
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
}
