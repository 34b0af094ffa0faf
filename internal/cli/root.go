package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cueline/internal/config"
	"github.com/mgpai22/cueline/internal/logging"
)

// set by the linker
var Version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
	logger     *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cueline",
	Short: "Caption media files against a waveform in the browser",
	Long: `Cueline is a small caption editor. It serves a local editing page that
plays a media file, lets you drop captions at the playhead, and downloads
the result as SubRip.

The same caption store is available from the command line for scripting:
list, add, edit, delete, convert and translate caption files.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if cfg.Path() != "" {
			logger.Debugw("config loaded", "path", cfg.Path())
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Close()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version

	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file (default is the user config dir's cueline/config.yaml)")
}
