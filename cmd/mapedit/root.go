package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "mapedit",
	Short: "Terminal map editor and traffic simulator",
	Long:  "mapedit loads a city map, runs a traffic simulation over it and lets you\nedit lanes, intersections, neighborhoods and scenarios while it runs.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
	RunE:         runEditor,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("map", "", "map TOML file, or grid:COLSxROWS (default: a small grid)")
	f.Bool("debug", false, "enable debug tools")
	f.String("kml", "", "KML overlay to display (not supported, ignored)")
	f.Int64("seed", 42, "simulation RNG seed")
	f.Bool("savestate", false, "resume the run from its latest savestate")
	f.String("run", "unnamed", "run name used for savestates")
	f.String("log-level", "info", "log level (debug, info, warn, error)")
	f.String("db", "", "sqlite database path")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
