package config

const (
	defaultOutputDir   = "~/Videos/ytchapters"
	defaultFormat      = "bestvideo+bestaudio/best"
	defaultMergeFormat = "mp4"
	defaultConcurrency = 4
	defaultLogLevel    = "info"
)

// Default returns a Config populated with built-in defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
		},
		Download: Download{
			Format:      defaultFormat,
			MergeFormat: defaultMergeFormat,
		},
		Split: Split{
			Concurrency: defaultConcurrency,
			Archive:     true,
			KeepSource:  true,
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
	}
}
