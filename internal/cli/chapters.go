package cli

import (
	"fmt"

	"github.com/samuelmuabia/ytchapters/internal/chapters"
	"github.com/samuelmuabia/ytchapters/internal/pipeline"
	"github.com/spf13/cobra"
)

var chaptersCmd = &cobra.Command{
	Use:   "chapters [url]",
	Short: "List the chapters found in a video description",
	Long: `Fetch a video's metadata and list the chapters parsed from its
description, without downloading the video.

With --description the text is read from a file (or stdin with "-") and
--duration supplies the media length, so no network access is needed.

Examples:
  ytchapters chapters https://www.youtube.com/watch?v=VIDEO_ID
  ytchapters chapters --description notes.txt --duration 1:07:30`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChapters,
}

func init() {
	rootCmd.AddCommand(chaptersCmd)

	chaptersCmd.Flags().
		StringP("description", "d", "", "Read the description from a file, or - for stdin")
	chaptersCmd.Flags().
		String("duration", "", "Media duration in seconds or H:MM:SS (with --description)")
	chaptersCmd.Flags().
		Bool("plain", false, "Print tab separated lines even on a terminal")
}

func runChapters(cmd *cobra.Command, args []string) error {
	descPath, _ := cmd.Flags().GetString("description")
	durationStr, _ := cmd.Flags().GetString("duration")
	plain, _ := cmd.Flags().GetBool("plain")

	var (
		title    string
		segments []chapters.Segment
	)

	switch {
	case descPath != "":
		if len(args) > 0 {
			return fmt.Errorf("pass either a url or --description, not both")
		}
		if durationStr == "" {
			return fmt.Errorf("--duration is required with --description")
		}
		duration, err := parseDuration(durationStr)
		if err != nil {
			return err
		}
		description, err := readDescription(descPath, cmd.InOrStdin())
		if err != nil {
			return err
		}
		markers := chapters.Extract(description)
		segments = chapters.Resolve(markers, duration)
		logger.Debugw("Parsed description",
			"markers", len(markers),
			"segments", len(segments),
		)
	case len(args) == 1:
		p := pipeline.New(newFetcher(cfg), newProcessor(cfg), logger, pipeline.Options{})
		info, resolved, err := p.Chapters(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		title = info.Title
		segments = resolved
	default:
		return fmt.Errorf("a url or --description is required")
	}

	out := cmd.OutOrStdout()
	if title != "" {
		fmt.Fprintf(out, "Video found: %s\n", title)
	}
	if len(segments) == 0 {
		fmt.Fprintln(out, "No chapters found in description.")
		return nil
	}

	renderChapters(out, segments, !plain && isTerminal(out))
	return nil
}
