package cli

import (
	"fmt"

	"github.com/samuelmuabia/ytchapters/internal/pipeline"
	"github.com/spf13/cobra"
)

var downloadCmd = &cobra.Command{
	Use:   "download [url]",
	Short: "Download a video and split it into chapters",
	Long: `Download a video with yt-dlp and split it into one file per chapter
using the timestamps in its description.

Videos without chapter timestamps are saved as a single file.

Examples:
  ytchapters download https://www.youtube.com/watch?v=VIDEO_ID
  ytchapters download URL -o ~/clips --no-archive
  ytchapters download URL --full
  ytchapters download URL --subs en`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().
		Bool("full", false, "Only download the full video, skip chapter splitting")
	downloadCmd.Flags().
		Bool("discard-source", false, "Don't keep the full video when chapters were found")
	downloadCmd.Flags().
		StringP("format", "f", "", "yt-dlp format selector (default from config)")
	addSplitFlags(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	url := args[0]

	opts, err := pipelineOptions(cmd, cfg)
	if err != nil {
		return err
	}
	opts.FullOnly, _ = cmd.Flags().GetBool("full")
	if discard, _ := cmd.Flags().GetBool("discard-source"); discard {
		opts.KeepSource = false
	}

	c := *cfg
	if format, _ := cmd.Flags().GetString("format"); format != "" {
		c.Download.Format = format
	}
	c.Download.Subtitles = subtitleLangs(cmd, cfg)

	logger.Infow("Starting download",
		"url", url,
		"output", opts.OutputDir,
		"archive", opts.Archive,
		"concurrency", opts.Concurrency,
	)

	p := pipeline.New(newFetcher(&c), newProcessor(&c), logger, opts)
	result, err := p.Run(cmd.Context(), url)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Video: %s\n", result.Title)
	printResult(cmd, result)
	return nil
}
