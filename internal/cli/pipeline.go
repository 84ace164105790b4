package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/samuelmuabia/ytchapters/internal/config"
	"github.com/samuelmuabia/ytchapters/internal/fetch"
	"github.com/samuelmuabia/ytchapters/internal/pipeline"
	"github.com/samuelmuabia/ytchapters/internal/video"
	"github.com/spf13/cobra"
)

func addSplitFlags(cmd *cobra.Command) {
	cmd.Flags().
		Int("concurrency", 0, "Number of chapters cut in parallel (default from config)")
	cmd.Flags().
		Bool("no-archive", false, "Leave chapter files in a folder instead of a zip archive")
	cmd.Flags().
		Bool("keep-work-dir", false, "Keep the scratch directory for inspection")
	cmd.Flags().
		StringSlice("subs", nil, "Subtitle languages to cut per chapter, e.g. en,de (default from config)")
}

// subtitle languages from --subs, falling back to the config
func subtitleLangs(cmd *cobra.Command, c *config.Config) []string {
	if langs, _ := cmd.Flags().GetStringSlice("subs"); len(langs) > 0 {
		return langs
	}
	return c.Download.Subtitles
}

// applies command flags on top of the loaded config
func pipelineOptions(cmd *cobra.Command, c *config.Config) (pipeline.Options, error) {
	opts := pipeline.Options{
		OutputDir:   c.Paths.OutputDir,
		WorkRoot:    c.WorkRoot(),
		Concurrency: c.Split.Concurrency,
		Archive:     c.Split.Archive,
		KeepSource:  c.Split.KeepSource,
	}

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		expanded, err := config.ExpandPath(output)
		if err != nil {
			return opts, err
		}
		opts.OutputDir = expanded
	}
	if concurrency, _ := cmd.Flags().GetInt("concurrency"); concurrency > 0 {
		opts.Concurrency = concurrency
	}
	if noArchive, _ := cmd.Flags().GetBool("no-archive"); noArchive {
		opts.Archive = false
	}
	opts.KeepWorkDir, _ = cmd.Flags().GetBool("keep-work-dir")
	opts.Subtitles = len(subtitleLangs(cmd, c)) > 0

	return opts, nil
}

func newFetcher(c *config.Config) *fetch.Fetcher {
	return fetch.New(fetch.Options{
		Binary:      c.Download.YtDlpPath,
		Format:      c.Download.Format,
		MergeFormat: c.Download.MergeFormat,
		FFmpegPath:  c.Download.FFmpegPath,
		SubLangs:    c.Download.Subtitles,
	})
}

func newProcessor(c *config.Config) *video.DefaultProcessor {
	return video.NewProcessor(c.Download.FFmpegPath, c.Download.FFprobePath)
}

func printResult(cmd *cobra.Command, result *pipeline.Result) {
	out := cmd.OutOrStdout()

	if len(result.Segments) == 0 {
		fmt.Fprintln(out, "No chapters found in description. Only full video available.")
	} else {
		fmt.Fprintf(out, "Chapters: %d\n", len(result.Segments))
	}
	if result.ArchivePath != "" {
		fmt.Fprintf(out, "Chapter archive: %s (%s)\n",
			result.ArchivePath,
			humanize.Bytes(uint64(result.ArchiveSize)),
		)
	}
	if result.ChapterDir != "" {
		fmt.Fprintf(out, "Chapter folder: %s (%d files)\n",
			result.ChapterDir,
			len(result.ChapterFiles),
		)
	}
	if result.SourcePath != "" {
		fmt.Fprintf(out, "Full video: %s\n", result.SourcePath)
	}
}
