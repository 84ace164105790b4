package cli

import (
	"github.com/samuelmuabia/ytchapters/internal/config"
	"github.com/samuelmuabia/ytchapters/internal/ffmpeg"
	"github.com/samuelmuabia/ytchapters/internal/logging"
	"github.com/spf13/cobra"
)

// commands carrying this annotation run without loading the config file
const skipConfigAnnotation = "skip-config"

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ytchapters",
	Short: "Download videos and split them into chapters",
	Long: `ytchapters downloads a video with yt-dlp, reads the chapter
timestamps from its description and cuts one file per chapter with ffmpeg.

Chapter files are bundled into a zip archive. Videos without chapter
timestamps are kept as a single file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, skip := cmd.Annotations[skipConfigAnnotation]; skip {
			logger = logging.NewLogger(verbose)
			return nil
		}

		loaded, path, exists, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		if verbose {
			logger = logging.NewLogger(true)
		} else {
			logger = logging.NewLoggerWithLevel(cfg.Logging.Level)
		}
		logger.Debugw("Loaded configuration",
			"path", path,
			"exists", exists,
		)

		ffmpeg.SetOverrides(ffmpeg.Paths{
			FFmpeg:  cfg.Download.FFmpegPath,
			FFprobe: cfg.Download.FFprobePath,
		})
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file path (default ~/.config/ytchapters/config.toml)")
	rootCmd.PersistentFlags().
		StringP("output", "o", "", "Output directory (overrides paths.output_dir)")
}
