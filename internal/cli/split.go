package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/samuelmuabia/ytchapters/internal/pipeline"
	"github.com/samuelmuabia/ytchapters/internal/video"
	"github.com/spf13/cobra"
)

var splitCmd = &cobra.Command{
	Use:   "split [media_file]",
	Short: "Split a local media file using a chapter description",
	Long: `Split a media file that is already on disk, reading chapter
timestamps from a text file (or stdin with "-").

The media duration is read with ffprobe. The input file is left untouched.

Examples:
  ytchapters split talk.mp4 --description chapters.txt
  pbpaste | ytchapters split talk.mkv -d - --no-archive
  ytchapters split talk.mp4 -d chapters.txt --subs en   # uses talk.en.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runSplit,
}

func init() {
	rootCmd.AddCommand(splitCmd)

	splitCmd.Flags().
		StringP("description", "d", "", "File containing the chapter description, or - for stdin")
	_ = splitCmd.MarkFlagRequired("description")
	addSplitFlags(splitCmd)
}

func runSplit(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}
	if !video.IsMediaFile(mediaPath) {
		return fmt.Errorf("unsupported file type: %s (expected audio or video file)", filepath.Ext(mediaPath))
	}

	descPath, _ := cmd.Flags().GetString("description")
	description, err := readDescription(descPath, cmd.InOrStdin())
	if err != nil {
		return err
	}

	opts, err := pipelineOptions(cmd, cfg)
	if err != nil {
		return err
	}

	logger.Infow("Splitting local file",
		"input", mediaPath,
		"output", opts.OutputDir,
	)

	p := pipeline.New(newFetcher(cfg), newProcessor(cfg), logger, opts)
	result, err := p.SplitLocal(cmd.Context(), mediaPath, description)
	if err != nil {
		return fmt.Errorf("split failed: %w", err)
	}

	printResult(cmd, result)
	return nil
}
