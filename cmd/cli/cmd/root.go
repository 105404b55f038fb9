package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/heap-browser/pkg/config"
	"github.com/heap-browser/pkg/utils"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger utils.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "heap-browser",
	Short: "A heap snapshot browsing tool",
	Long: `heap-browser explores object graphs captured in heap snapshots.

It loads snapshot files, walks object fields, array items and inbound
references lazily, collapses large collections into expandable buckets,
and merges views across all instances of a class. Results are available
interactively over a JSON API or directly on the command line.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		level := utils.ParseLogLevel(cfg.Log.Level)
		if verbose {
			level = utils.LevelDebug
		}
		logger = utils.NewDefaultLogger(level, os.Stdout)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	binName := BinName()
	rootCmd.Example = `  # Start the browse server over a directory of snapshots
  ` + binName + ` serve -d ./snapshots -p 8080

  # Show the summary of one snapshot
  ` + binName + ` browse -d ./snapshots mydump

  # Show the fields of an object
  ` + binName + ` browse -d ./snapshots mydump 0x1a2b

  # Show the inbound references of an object
  ` + binName + ` browse -d ./snapshots mydump 0x1a2b --property references`
}

// GetLogger returns the configured logger
func GetLogger() utils.Logger {
	return logger
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}

// BinName returns the base name of the current executable
func BinName() string {
	return filepath.Base(os.Args[0])
}
