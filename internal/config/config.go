package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains output and scratch directories.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	WorkDir   string `toml:"work_dir"`
}

// Download contains yt-dlp settings.
type Download struct {
	Format      string `toml:"format"`
	MergeFormat string `toml:"merge_format"`
	YtDlpPath   string `toml:"ytdlp_path"`
	FFmpegPath  string `toml:"ffmpeg_path"`
	FFprobePath string `toml:"ffprobe_path"`
	// subtitle languages to fetch and slice per chapter, e.g. ["en", "de"]
	Subtitles []string `toml:"subtitles"`
}

// Split contains chapter splitting settings. Archive zips the chapter files
// instead of leaving them in a folder; KeepSource also keeps the full video
// when chapters were found.
type Split struct {
	Concurrency int  `toml:"concurrency"`
	Archive     bool `toml:"archive"`
	KeepSource  bool `toml:"keep_source"`
}

// Logging contains log output settings.
type Logging struct {
	Level string `toml:"level"`
}

// Config encapsulates all configuration values for ytchapters.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Download Download `toml:"download"`
	Split    Split    `toml:"split"`
	Logging  Logging  `toml:"logging"`
}

const defaultConfigPath = "~/.config/ytchapters/config.toml"

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. A missing file
// is not an error; defaults are returned and exists reports false.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = defaultConfigPath
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", expanded)
	}
	return expanded, true, nil
}

func (c *Config) normalize() error {
	var err error
	c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir))
	if err != nil {
		return err
	}
	c.Paths.WorkDir, err = expandPath(strings.TrimSpace(c.Paths.WorkDir))
	if err != nil {
		return err
	}
	for _, p := range []*string{
		&c.Download.YtDlpPath,
		&c.Download.FFmpegPath,
		&c.Download.FFprobePath,
	} {
		*p = strings.TrimSpace(*p)
		if strings.ContainsRune(*p, filepath.Separator) || strings.HasPrefix(*p, "~") {
			if *p, err = expandPath(*p); err != nil {
				return err
			}
		}
	}
	langs := c.Download.Subtitles[:0]
	for _, lang := range c.Download.Subtitles {
		if lang = strings.TrimSpace(lang); lang != "" {
			langs = append(langs, lang)
		}
	}
	c.Download.Subtitles = langs
	c.Download.Format = strings.TrimSpace(c.Download.Format)
	c.Download.MergeFormat = strings.ToLower(strings.TrimSpace(c.Download.MergeFormat))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

// WorkRoot returns the directory under which per-run scratch directories are created.
func (c *Config) WorkRoot() string {
	if c.Paths.WorkDir != "" {
		return c.Paths.WorkDir
	}
	return os.TempDir()
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
