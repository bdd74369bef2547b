package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/waxworks/sidecut/pkg/config"
)

var (
	cfgFile   string
	appConfig *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sidecut",
	Short: "Vinyl side recordings to tagged FLAC tracks",
	Long: `sidecut turns whole-side vinyl recordings into tagged per-track files.

Point it at a library of album folders full of WAV side captures and it
walks each album through the pipeline: catalog lookup, track boundary
analysis, splitting, FLAC conversion with tags, and archiving of the
original captures.

Boundary analysis prefers expected track durations from MusicBrainz and
falls back to silence detection when the catalog has nothing.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd returns the root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./sidecut.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

// loadConfig initializes configuration lazily, only for commands that need it
func loadConfig() error {
	cfg, err := config.Init(cfgFile)
	if err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	if verbose, _ := rootCmd.PersistentFlags().GetBool("verbose"); verbose {
		cfg.Database.Verbose = true
	}
	appConfig = cfg
	return nil
}
