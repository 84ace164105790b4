// Package fetch retrieves video metadata and media through yt-dlp.
package fetch

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
)

const EnvYtDlpPath = "YTCHAPTERS_YTDLP_PATH"

var ErrNoOutput = errors.New("yt-dlp reported no output file")

// video metadata as reported by yt-dlp
type Info struct {
	ID          string
	Title       string
	Description string
	Uploader    string
	WebpageURL  string
	// whole seconds, 0 when unknown
	Duration int
}

// Options configures how media is downloaded
type Options struct {
	Binary      string // yt-dlp executable, resolved from env or PATH when empty
	Format      string // yt-dlp format selector
	MergeFormat string // container for merged video+audio
	FFmpegPath  string // handed to yt-dlp for merging
	// subtitle languages to fetch next to the media, none when empty
	SubLangs []string
}

func DefaultOptions() Options {
	return Options{
		Format:      "bestvideo+bestaudio/best",
		MergeFormat: "mp4",
	}
}

type Fetcher struct {
	opts Options
}

func New(opts Options) *Fetcher {
	defaults := DefaultOptions()
	if opts.Format == "" {
		opts.Format = defaults.Format
	}
	if opts.MergeFormat == "" {
		opts.MergeFormat = defaults.MergeFormat
	}
	return &Fetcher{opts: opts}
}

func (f *Fetcher) binary() (string, error) {
	if f.opts.Binary != "" {
		return f.opts.Binary, nil
	}
	if env := os.Getenv(EnvYtDlpPath); env != "" {
		return env, nil
	}
	path, err := exec.LookPath("yt-dlp")
	if err != nil {
		return "", fmt.Errorf("yt-dlp is not installed or not in PATH (or set %s): %w", EnvYtDlpPath, err)
	}
	return path, nil
}

// Info fetches metadata only, without downloading media.
func (f *Fetcher) Info(ctx context.Context, url string) (*Info, error) {
	out, err := f.run(ctx,
		"--dump-single-json",
		"--no-playlist",
		"--skip-download",
		"--no-warnings",
		url,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch info: %w", err)
	}
	return parseInfo(out)
}

func parseInfo(raw []byte) (*Info, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.New("yt-dlp returned invalid JSON")
	}
	doc := gjson.ParseBytes(raw)

	info := &Info{
		ID:          doc.Get("id").String(),
		Title:       doc.Get("title").String(),
		Description: doc.Get("description").String(),
		Uploader:    doc.Get("uploader").String(),
		WebpageURL:  doc.Get("webpage_url").String(),
	}

	// live streams and some extractors report no or fractional durations
	if d := doc.Get("duration").Float(); d > 0 && !math.IsInf(d, 0) {
		info.Duration = int(math.Floor(d))
	}

	if info.Title == "" {
		info.Title = info.ID
	}

	return info, nil
}

// Download saves the media into dir and returns the final file path.
func (f *Fetcher) Download(ctx context.Context, url, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	args := []string{
		"--format", f.opts.Format,
		"--merge-output-format", f.opts.MergeFormat,
		"--output", filepath.Join(dir, "%(id)s.%(ext)s"),
		"--no-playlist",
		"--no-warnings",
		"--no-progress",
		"--quiet",
		"--print", "after_move:filepath",
	}
	if f.opts.FFmpegPath != "" {
		args = append(args, "--ffmpeg-location", f.opts.FFmpegPath)
	}
	if len(f.opts.SubLangs) > 0 {
		args = append(args,
			"--write-subs",
			"--write-auto-subs",
			"--sub-langs", strings.Join(f.opts.SubLangs, ","),
			"--sub-format", "srt/vtt/best",
		)
	}
	args = append(args, url)

	out, err := f.run(ctx, args...)
	if err != nil {
		return "", fmt.Errorf("failed to download video: %w", err)
	}

	path := lastLine(out)
	if path == "" {
		return "", ErrNoOutput
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("downloaded file missing: %w", err)
	}
	return path, nil
}

func (f *Fetcher) run(ctx context.Context, args ...string) ([]byte, error) {
	bin, err := f.binary()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

func lastLine(out []byte) string {
	var last string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			last = line
		}
	}
	return last
}
