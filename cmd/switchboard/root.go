// Package main provides the switchboard broker's command-line entry point.
package main

import (
	stdlog "log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	// verbose enables debug-level logging regardless of the config file.
	verbose bool

	rootCmd = &cobra.Command{
		Use:   "switchboard",
		Short: "A lightweight request/response message broker",
		Long:  "switchboard mediates request/response traffic between clients and workers over a single multiplexed socket.",
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		stdlog.Fatal(err)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config", "",
		"config file (default is $HOME/.config/switchboard/broker.yaml)",
	)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	if err := viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")); err != nil {
		stdlog.Fatal(err)
	}
	viper.SetDefault("verbose", false)
}
