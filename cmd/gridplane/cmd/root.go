// Package cmd implements the gridplane command line tool.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "gridplane",
	Short: "Rectify symbol grids out of perspective-distorted images",
	Long: `gridplane extracts clean module grids from raster images: it thresholds
an image to black and white, projects a quadrilateral region back onto a
rectangular grid, and reads one bit per module.

Examples:
  gridplane rectify photo.jpg --corners 102,48,390,60,401,352,95,344 --grid 21x21
  gridplane binarize scan.png --format png --output bw.png
  gridplane matrix info fixture.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command, exiting nonzero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches ., $HOME, /etc/gridplane)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	if err := viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		panic(err)
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		var level slog.Level
		switch viper.GetString("log_level") {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
		slog.SetDefault(logger)
	}
}

// initConfig reads the config file and GRIDPLANE_* environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("gridplane")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath("/etc/gridplane")
	}

	viper.SetEnvPrefix("GRIDPLANE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}
	}
}

// bindFlags binds the named flags of cmd into viper under their dashed names
// with dashes replaced by underscores. Binding at execution time keeps
// subcommands with same-named flags from clobbering each other.
func bindFlags(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		key := strings.ReplaceAll(name, "-", "_")
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
}
