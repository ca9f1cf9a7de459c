// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/slideview/internal/raster"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List rasterizer backends and whether each is usable here",
	Long: `Backends checks each rasterizer without rendering anything: pdfium and
mupdf are linked in, poppler needs pdftoppm on PATH, and poppler-container
needs docker or podman plus the configured image.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := raster.Options{ContainerImage: viper.GetString("container-image")}
		printBackends(cmd.OutOrStdout(), opts, raster.Check)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backendsCmd)
}

// printBackends writes one line per backend, marking the default.
func printBackends(w io.Writer, opts raster.Options, check func(string, raster.Options) error) {
	for _, name := range raster.Backends() {
		marker := " "
		if name == raster.DefaultBackend {
			marker = "*"
		}
		if err := check(name, opts); err != nil {
			fmt.Fprintf(w, "%s %-18s unavailable: %v\n", marker, name, err)
			continue
		}
		fmt.Fprintf(w, "%s %-18s ok\n", marker, name)
	}
}
