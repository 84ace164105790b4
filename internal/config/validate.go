package config

import (
	"errors"
	"fmt"
	"strings"
)

var mergeFormats = map[string]bool{
	"mp4":  true,
	"mkv":  true,
	"webm": true,
	"mov":  true,
	"flv":  true,
	"avi":  true,
}

var logLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Download.Format == "" {
		return errors.New("download.format must be set")
	}
	if !mergeFormats[c.Download.MergeFormat] {
		return fmt.Errorf("download.merge_format %q is not supported", c.Download.MergeFormat)
	}
	for _, lang := range c.Download.Subtitles {
		if strings.ContainsAny(lang, ", ") {
			return fmt.Errorf("download.subtitles entry %q must be a single language code", lang)
		}
	}
	if c.Split.Concurrency < 1 || c.Split.Concurrency > 32 {
		return fmt.Errorf("split.concurrency must be between 1 and 32, got %d", c.Split.Concurrency)
	}
	if !logLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}
