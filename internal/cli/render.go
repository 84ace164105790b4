package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/samuelmuabia/ytchapters/internal/chapters"
)

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// prints a rounded table on terminals and tab separated lines otherwise
func renderChapters(w io.Writer, segments []chapters.Segment, pretty bool) {
	if !pretty {
		for _, seg := range segments {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
				seg.Index+1,
				chapters.FormatTimestamp(seg.StartSeconds),
				chapters.FormatTimestamp(seg.EndSeconds),
				seg.Title,
			)
		}
		return
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Start", "End", "Length", "Title"})
	for _, seg := range segments {
		tw.AppendRow(table.Row{
			strconv.Itoa(seg.Index + 1),
			chapters.FormatTimestamp(seg.StartSeconds),
			chapters.FormatTimestamp(seg.EndSeconds),
			chapters.FormatTimestamp(seg.EndSeconds - seg.StartSeconds),
			seg.Title,
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	fmt.Fprintln(w, tw.Render())
}

// accepts plain seconds or a timestamp such as 1:02:15
func parseDuration(value string) (int, error) {
	value = strings.TrimSpace(value)
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0, fmt.Errorf("duration must not be negative: %s", value)
		}
		return secs, nil
	}
	if secs, ok := chapters.ParseTimestamp(value); ok {
		return secs, nil
	}
	return 0, fmt.Errorf("invalid duration %q: use seconds or H:MM:SS", value)
}

func readDescription(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read description from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read description: %w", err)
	}
	return string(data), nil
}
