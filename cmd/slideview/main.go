// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the slideview CLI.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd generates a viewer from the PDF paths given as arguments.
var rootCmd = &cobra.Command{
	Use:   "slideview [flags] PATH...",
	Short: "Convert PDFs to a browsable slide viewer",
	Long: `slideview renders every page of one or more PDF files to an image, derives
thumbnails, and writes a static HTML viewer that browses the slides with
search, grid/list layouts, and a full-size modal.

Arguments may be PDF files or directories; directories contribute their
*.pdf and *.PDF files without descending into subdirectories. With
--single-file every image is embedded in index.html as a data URI.`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runGenerate,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./slideview.yaml or ~/.config/slideview/slideview.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "diagnostic log level: debug, info, warn, or error")
	registerPersistentFlags(rootCmd.PersistentFlags())
	registerFlags(rootCmd.Flags())

	_ = viper.BindPFlags(rootCmd.Flags())
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("container-image", rootCmd.PersistentFlags().Lookup("container-image"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("slideview")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "slideview"))
		}
	}

	configureEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// configureEnv maps SLIDEVIEW_THUMBNAIL_SIZE and friends onto flag keys.
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("SLIDEVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// newLogger builds the diagnostic logger. Unknown levels fall back to warn.
func newLogger(level string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
