// Package cmd implements the CLI commands for bookpipe using Cobra.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "bookpipe",
	Short: "Convert EPUB and DOCX files into clean Markdown",
	Long: `bookpipe is a deterministic conversion pipeline that turns EPUB ebooks and
DOCX documents into Markdown, JSON, or PDF.

Usage:
  bookpipe convert <file> [flags]`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./bookpipe.yaml or ~/.config/bookpipe/config.yaml)")
}

// initConfig layers an optional config file and BOOKPIPE_* environment
// variables under the flags.
func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bookpipe")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "bookpipe"))
		}
	}

	viper.SetEnvPrefix("BOOKPIPE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
