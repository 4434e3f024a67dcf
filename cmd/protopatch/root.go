package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	// go-json token driver
	_ "github.com/reoring/protopatch/source"
)

// errReported signals that the command already printed its failures.
var errReported = errors.New("protopatch: issues reported")

var rootCmd = &cobra.Command{
	Use:           "protopatch",
	Short:         "Check and preview prototype patch files",
	Long:          "protopatch decodes prototype patch files, applies them to a content fixture and shows the result.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default .protopatch.yaml)")
	pf.String("content", "", "content fixture file")
	pf.String("log-level", "", "log level (trace, debug, info, warn, error)")
	pf.String("color", "", "colored output: auto, always or never")
	pf.Bool("strict-duplicates", false, "reject entries containing duplicate keys")
	pf.Bool("fail-fast", false, "stop loading a file at the first rejected entry")
	_ = viper.BindPFlag("content", pf.Lookup("content"))
	_ = viper.BindPFlag("log_level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("color", pf.Lookup("color"))
	_ = viper.BindPFlag("strict_duplicates", pf.Lookup("strict-duplicates"))
	_ = viper.BindPFlag("fail_fast", pf.Lookup("fail-fast"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".protopatch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("PROTOPATCH")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}
