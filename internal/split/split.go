package split

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/samuelmuabia/ytchapters/internal/chapters"
	"github.com/samuelmuabia/ytchapters/internal/video"
)

const defaultConcurrency = 4

// returned when there is nothing to cut; callers keep the whole file
var ErrNoSegments = errors.New("no chapter segments to split")

// one cut file
type Output struct {
	Segment chapters.Segment
	Path    string
}

type Splitter struct {
	processor   video.Processor
	concurrency int
}

// If concurrency is 0 or negative, it defaults to 4 concurrent cuts.
func New(processor video.Processor, concurrency int) *Splitter {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Splitter{
		processor:   processor,
		concurrency: concurrency,
	}
}

// Split cuts src into one file per segment under outDir. The first failure
// stops scheduling further cuts and is returned. Outputs are ordered by
// segment index.
func (s *Splitter) Split(
	ctx context.Context,
	src string,
	segments []chapters.Segment,
	outDir string,
) ([]Output, error) {
	if len(segments) == 0 {
		return nil, ErrNoSegments
	}

	ext := filepath.Ext(src)
	jobs := make([]Output, 0, len(segments))
	for _, seg := range segments {
		jobs = append(jobs, Output{
			Segment: seg,
			Path:    filepath.Join(outDir, FileName(seg, ext)),
		})
	}

	var (
		mu       sync.Mutex
		outputs  []Output
		firstErr error
		wg       sync.WaitGroup
	)

	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	sem := make(chan struct{}, s.concurrency)

schedule:
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			fail(err)
			break
		}

		select {
		case <-ctx.Done():
			fail(ctx.Err())
			break schedule
		case sem <- struct{}{}:
		}

		if failed() {
			<-sem
			break
		}

		wg.Add(1)
		go func(j Output) {
			defer wg.Done()
			defer func() { <-sem }()

			err := s.processor.Cut(
				ctx,
				src,
				j.Path,
				j.Segment.Start(),
				j.Segment.Length(),
			)

			if err != nil {
				fail(fmt.Errorf(
					"failed to cut chapter %d (%s): %w",
					j.Segment.Index,
					j.Segment.Title,
					err,
				))
				return
			}

			mu.Lock()
			outputs = append(outputs, j)
			mu.Unlock()
		}(job)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(outputs, func(i, j int) bool {
		return outputs[i].Segment.Index < outputs[j].Segment.Index
	})

	return outputs, nil
}
