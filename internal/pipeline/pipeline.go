// Package pipeline wires fetching, chapter resolution, splitting and
// archiving into the per-request flow used by the cli.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/samuelmuabia/ytchapters/internal/archive"
	"github.com/samuelmuabia/ytchapters/internal/chapters"
	"github.com/samuelmuabia/ytchapters/internal/fetch"
	"github.com/samuelmuabia/ytchapters/internal/fileutil"
	"github.com/samuelmuabia/ytchapters/internal/logging"
	"github.com/samuelmuabia/ytchapters/internal/split"
	"github.com/samuelmuabia/ytchapters/internal/subtitle"
	"github.com/samuelmuabia/ytchapters/internal/video"
)

// Source is the upstream media collaborator, satisfied by *fetch.Fetcher.
type Source interface {
	Info(ctx context.Context, url string) (*fetch.Info, error)
	Download(ctx context.Context, url, dir string) (string, error)
}

type Options struct {
	OutputDir   string
	WorkRoot    string
	Concurrency int
	Archive     bool // zip chapter files instead of leaving a folder
	KeepSource  bool // keep the full video next to the chapters
	FullOnly    bool // skip chapter splitting entirely
	KeepWorkDir bool
	Subtitles   bool // slice subtitle tracks found next to the media per chapter
}

// what a run produced; paths are final locations under OutputDir
type Result struct {
	Title        string
	Duration     int
	Segments     []chapters.Segment
	SourcePath   string
	ChapterDir   string
	ChapterFiles []string
	ArchivePath  string
	ArchiveSize  int64
}

type Pipeline struct {
	source    Source
	processor video.Processor
	splitter  *split.Splitter
	logger    *logging.Logger
	opts      Options
}

func New(
	source Source,
	processor video.Processor,
	logger *logging.Logger,
	opts Options,
) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		source:    source,
		processor: processor,
		splitter:  split.New(processor, opts.Concurrency),
		logger:    logger,
		opts:      opts,
	}
}

// Chapters fetches metadata and resolves the description's chapters
// without downloading anything.
func (p *Pipeline) Chapters(ctx context.Context, url string) (*fetch.Info, []chapters.Segment, error) {
	info, err := p.source.Info(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	return info, p.resolve(info.Description, info.Duration), nil
}

func (p *Pipeline) resolve(description string, duration int) []chapters.Segment {
	markers := chapters.Extract(description)
	segments := chapters.Resolve(markers, duration)

	p.logger.Debugw("Resolved chapters",
		"markers", len(markers),
		"segments", len(segments),
		"dropped", len(markers)-len(segments),
		"duration", duration,
	)
	if len(markers) > 0 && duration <= 0 {
		p.logger.Infow("Media duration unknown, chapters unavailable")
	}
	return segments
}

// Run downloads url and splits it into chapters when the description has any.
func (p *Pipeline) Run(ctx context.Context, url string) (*Result, error) {
	info, err := p.source.Info(ctx, url)
	if err != nil {
		return nil, err
	}

	p.logger.Infow("Video found",
		"title", info.Title,
		"duration", info.Duration,
	)

	workDir, cleanup, err := p.workDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	p.logger.Infow("Downloading video", "work_dir", workDir)
	mediaPath, err := p.source.Download(ctx, url, filepath.Join(workDir, "download"))
	if err != nil {
		return nil, err
	}

	duration := info.Duration
	if duration <= 0 && !p.opts.FullOnly {
		duration, err = p.probeDuration(ctx, mediaPath)
		if err != nil {
			return nil, err
		}
	}

	return p.finish(ctx, info.Title, info.Description, duration, mediaPath, workDir, true)
}

// SplitLocal splits an existing media file using the given description.
// The source file is never moved or removed.
func (p *Pipeline) SplitLocal(ctx context.Context, mediaPath, description string) (*Result, error) {
	duration, err := p.probeDuration(ctx, mediaPath)
	if err != nil {
		return nil, err
	}

	workDir, cleanup, err := p.workDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	title := baseName(mediaPath)
	return p.finish(ctx, title, description, duration, mediaPath, workDir, false)
}

func (p *Pipeline) finish(
	ctx context.Context,
	title, description string,
	duration int,
	mediaPath, workDir string,
	ownsMedia bool,
) (*Result, error) {
	result := &Result{Title: title, Duration: duration}
	safeTitle := split.SanitizeTitle(title)
	if safeTitle == "" {
		safeTitle = baseName(mediaPath)
	}

	if !p.opts.FullOnly {
		result.Segments = p.resolve(description, duration)
	}

	if len(result.Segments) == 0 {
		if !p.opts.FullOnly {
			p.logger.Infow("No chapters found in description, keeping full video")
		}
		if ownsMedia {
			dst, err := p.keepSource(mediaPath, safeTitle)
			if err != nil {
				return nil, err
			}
			result.SourcePath = dst
		} else {
			result.SourcePath = mediaPath
		}
		return result, nil
	}

	p.logger.Infow("Splitting chapters",
		"count", len(result.Segments),
	)

	outputs, err := p.splitter.Split(ctx, mediaPath, result.Segments, filepath.Join(workDir, "chapters"))
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(outputs))
	for _, out := range outputs {
		files = append(files, out.Path)
	}

	if p.opts.Subtitles {
		subs, err := p.sliceSubtitles(mediaPath, outputs)
		if err != nil {
			return nil, err
		}
		files = append(files, subs...)
	}

	if p.opts.Archive {
		zipPath := fileutil.UniquePath(filepath.Join(p.opts.OutputDir, safeTitle+"_chapters.zip"))
		size, err := archive.Build(zipPath, files)
		if err != nil {
			return nil, fmt.Errorf("failed to build archive: %w", err)
		}
		result.ArchivePath = zipPath
		result.ArchiveSize = size
		p.logger.Infow("Archive written", "path", zipPath, "bytes", size)
	} else {
		dir := fileutil.UniquePath(filepath.Join(p.opts.OutputDir, safeTitle))
		for _, f := range files {
			dst := filepath.Join(dir, filepath.Base(f))
			if err := fileutil.MoveFile(f, dst); err != nil {
				return nil, fmt.Errorf("failed to move chapter: %w", err)
			}
			result.ChapterFiles = append(result.ChapterFiles, dst)
		}
		result.ChapterDir = dir
	}

	if ownsMedia && p.opts.KeepSource {
		dst, err := p.keepSource(mediaPath, safeTitle)
		if err != nil {
			return nil, err
		}
		result.SourcePath = dst
	}

	return result, nil
}

// writes "<chapter>.<lang>.srt" next to every chapter file for each
// subtitle track found beside mediaPath
func (p *Pipeline) sliceSubtitles(mediaPath string, outputs []split.Output) ([]string, error) {
	tracks, err := subtitle.Discover(mediaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to look for subtitles: %w", err)
	}
	if len(tracks) == 0 {
		p.logger.Infow("No subtitles found for video")
		return nil, nil
	}

	var written []string
	for _, track := range tracks {
		sub, err := subtitle.Open(track.Path)
		if err != nil {
			p.logger.Warnw("Skipping unreadable subtitles", "path", track.Path, "error", err)
			continue
		}

		for _, out := range outputs {
			part := subtitle.Slice(sub, out.Segment.Start(), out.Segment.End())
			if len(part.Entries) == 0 {
				continue
			}
			dst := strings.TrimSuffix(out.Path, filepath.Ext(out.Path)) + "." + track.Language + subtitle.FormatSRT.Extension()
			if err := subtitle.Write(part, dst); err != nil {
				return nil, fmt.Errorf("failed to write subtitles for chapter %d: %w", out.Segment.Index, err)
			}
			written = append(written, dst)
		}

		p.logger.Debugw("Sliced subtitles",
			"language", track.Language,
			"entries", len(sub.Entries),
		)
	}
	return written, nil
}

func (p *Pipeline) keepSource(mediaPath, safeTitle string) (string, error) {
	dst := fileutil.UniquePath(filepath.Join(p.opts.OutputDir, safeTitle+filepath.Ext(mediaPath)))
	if err := fileutil.MoveFile(mediaPath, dst); err != nil {
		return "", fmt.Errorf("failed to save video: %w", err)
	}
	return dst, nil
}

func (p *Pipeline) probeDuration(ctx context.Context, mediaPath string) (int, error) {
	info, err := p.processor.GetInfo(ctx, mediaPath)
	if err != nil {
		return 0, fmt.Errorf("failed to get media duration: %w", err)
	}
	return info.DurationSeconds(), nil
}

func (p *Pipeline) workDir() (string, func(), error) {
	root := p.opts.WorkRoot
	if root == "" {
		root = os.TempDir()
	}
	dir := filepath.Join(root, "ytchapters-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	cleanup := func() {
		if p.opts.KeepWorkDir {
			p.logger.Debugw("Keeping work directory", "path", dir)
			return
		}
		if err := os.RemoveAll(dir); err != nil && !errors.Is(err, os.ErrNotExist) {
			p.logger.Warnw("Failed to remove work directory", "path", dir, "error", err)
		}
	}
	return dir, cleanup, nil
}

func baseName(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
