package video

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/samuelmuabia/ytchapters/internal/ffmpeg"
)

// media file information
type Info struct {
	Path      string
	Duration  time.Duration
	Width     int
	Height    int
	FrameRate float64
	Codec     string
	HasAudio  bool
}

// whole seconds of playback, rounded down
func (i *Info) DurationSeconds() int {
	return int(i.Duration / time.Second)
}

// defines interface for media operations used while splitting
type Processor interface {
	// retrieves media file information
	GetInfo(ctx context.Context, path string) (*Info, error)

	// copies [start, start+length) of src into dst without re-encoding
	Cut(ctx context.Context, src, dst string, start, length time.Duration) error
}

// default implementation using ffprobe and ffmpeg
type DefaultProcessor struct {
	ffmpegPath  string
	ffprobePath string
}

// binaries are resolved lazily through the ffmpeg package when empty
func NewProcessor(ffmpegPath, ffprobePath string) *DefaultProcessor {
	return &DefaultProcessor{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
	}
}

func (p *DefaultProcessor) ffprobe() (string, error) {
	if p.ffprobePath != "" {
		return p.ffprobePath, nil
	}
	return ffmpegbin.FFprobePath()
}

func (p *DefaultProcessor) ffmpeg() (string, error) {
	if p.ffmpegPath != "" {
		return p.ffmpegPath, nil
	}
	return ffmpegbin.FFmpegPath()
}

// retrieves media file information
func (p *DefaultProcessor) GetInfo(ctx context.Context, path string) (*Info, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("media file not found: %s", path)
	}

	ffprobePath, err := p.ffprobe()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseProbe(path, out.Bytes())
}

func parseProbe(path string, raw []byte) (*Info, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("failed to parse ffprobe output for %s", path)
	}
	doc := gjson.ParseBytes(raw)

	info := &Info{Path: path}

	duration := doc.Get("format.duration")
	if !duration.Exists() {
		return nil, fmt.Errorf("ffprobe reported no duration for %s", path)
	}
	seconds := duration.Float()
	if seconds < 0 || math.IsNaN(seconds) {
		return nil, fmt.Errorf("invalid duration %q for %s", duration.String(), path)
	}
	info.Duration = time.Duration(seconds * float64(time.Second))

	doc.Get("streams").ForEach(func(_, stream gjson.Result) bool {
		switch stream.Get("codec_type").String() {
		case "video":
			if info.Codec == "" {
				info.Codec = stream.Get("codec_name").String()
				info.Width = int(stream.Get("width").Int())
				info.Height = int(stream.Get("height").Int())
				info.FrameRate = parseRate(stream.Get("avg_frame_rate").String())
			}
		case "audio":
			info.HasAudio = true
		}
		return true
	})

	return info, nil
}

// ffprobe reports rates as "30000/1001"
func parseRate(rate string) float64 {
	num, den, ok := strings.Cut(rate, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !ok {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

// copies one time range of src into dst
func (p *DefaultProcessor) Cut(
	ctx context.Context,
	src, dst string,
	start, length time.Duration,
) error {
	if length <= 0 {
		return fmt.Errorf("cut length must be positive, got %v", length)
	}
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return fmt.Errorf("media file not found: %s", src)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := p.ffmpeg()
	if err != nil {
		return err
	}

	kwargs := ffmpeg.KwArgs{
		"ss": start.Seconds(),
		"t":  length.Seconds(),
		"c":  "copy", // stream copy, no re-encode
		"y":  "",
	}

	err = ffmpeg.Input(src).
		Output(dst, kwargs).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()
	if err != nil {
		return fmt.Errorf("ffmpeg cut failed: %w", err)
	}

	return nil
}
