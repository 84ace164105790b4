package ffmpeg

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

const (
	bundleVersion = "6.1"
	bundleBaseURL = "https://github.com/ffbinaries/ffbinaries-prebuilt/releases/download"

	EnvFFmpegPath  = "YTCHAPTERS_FFMPEG_PATH"
	EnvFFprobePath = "YTCHAPTERS_FFPROBE_PATH"

	installLockTimeout = 10 * time.Minute
)

// locations of the ffmpeg and ffprobe executables
type Paths struct {
	FFmpeg  string
	FFprobe string
}

var (
	ensureOnce  sync.Once
	ensureErr   error
	ensurePaths Paths

	overrideMu sync.Mutex
	overrides  Paths
)

// SetOverrides pins explicit executable paths, typically from config. It
// must be called before the first Ensure to have any effect.
func SetOverrides(p Paths) {
	overrideMu.Lock()
	defer overrideMu.Unlock()
	overrides = p
}

// Ensure locates ffmpeg and ffprobe once per process. Lookup order is
// explicit overrides, environment, PATH, then the user cache where a
// release bundle is installed on demand.
func Ensure() (Paths, error) {
	ensureOnce.Do(func() {
		overrideMu.Lock()
		p := overrides
		overrideMu.Unlock()
		ensurePaths, ensureErr = locate(p, os.Getenv, exec.LookPath)
		if ensureErr == nil && (ensurePaths.FFmpeg == "" || ensurePaths.FFprobe == "") {
			ensurePaths, ensureErr = installBundle()
		}
	})
	return ensurePaths, ensureErr
}

func FFmpegPath() (string, error) {
	p, err := Ensure()
	if err != nil {
		return "", err
	}
	return p.FFmpeg, nil
}

func FFprobePath() (string, error) {
	p, err := Ensure()
	if err != nil {
		return "", err
	}
	return p.FFprobe, nil
}

// fills in whatever can be found without touching the network; a partially
// empty result means the bundle has to be installed
func locate(
	p Paths,
	getenv func(string) string,
	lookPath func(string) (string, error),
) (Paths, error) {
	if p.FFmpeg == "" {
		p.FFmpeg = getenv(EnvFFmpegPath)
	}
	if p.FFprobe == "" {
		p.FFprobe = getenv(EnvFFprobePath)
	}
	if p.FFmpeg == "" {
		if found, err := lookPath("ffmpeg"); err == nil {
			p.FFmpeg = found
		}
	}
	if p.FFprobe == "" {
		if found, err := lookPath("ffprobe"); err == nil {
			p.FFprobe = found
		}
	}
	if p.FFmpeg != "" && p.FFprobe != "" {
		return p, nil
	}
	return Paths{}, nil
}

func installDir() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil || cacheDir == "" {
		cacheDir = os.TempDir()
	}
	return filepath.Join(
		cacheDir,
		"ytchapters",
		"ffmpeg",
		bundleVersion,
		runtime.GOOS+"-"+runtime.GOARCH,
	)
}

func installBundle() (Paths, error) {
	asset, err := assetForPlatform(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return Paths{}, err
	}

	dir := installDir()
	p := Paths{
		FFmpeg:  filepath.Join(dir, "ffmpeg"+exeSuffix(runtime.GOOS)),
		FFprobe: filepath.Join(dir, "ffprobe"+exeSuffix(runtime.GOOS)),
	}
	if usable(p.FFmpeg) && usable(p.FFprobe) {
		return p, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("create ffmpeg cache dir: %w", err)
	}

	// another run may be installing into the same cache dir
	lock := flock.New(filepath.Join(dir, ".install.lock"))
	ctx, cancel := context.WithTimeout(context.Background(), installLockTimeout)
	defer cancel()
	locked, err := lock.TryLockContext(ctx, 250*time.Millisecond)
	if err != nil {
		return Paths{}, fmt.Errorf("lock ffmpeg cache dir: %w", err)
	}
	if !locked {
		return Paths{}, errors.New("lock ffmpeg cache dir: not acquired")
	}
	defer func() { _ = lock.Unlock() }()

	if usable(p.FFmpeg) && usable(p.FFprobe) {
		return p, nil
	}

	src, embedded, err := openEmbeddedAsset(asset)
	if err != nil {
		return Paths{}, err
	}
	if !embedded {
		src, err = download(asset)
		if err != nil {
			return Paths{}, err
		}
	}
	defer func() { _ = src.Close() }()

	if err := unpack(src, dir); err != nil {
		return Paths{}, fmt.Errorf("install %s: %w", asset, err)
	}

	if !usable(p.FFmpeg) || !usable(p.FFprobe) {
		return Paths{}, errors.New("ffmpeg binaries missing after install")
	}
	if runtime.GOOS != "windows" {
		for _, bin := range []string{p.FFmpeg, p.FFprobe} {
			if err := os.Chmod(bin, 0o755); err != nil {
				return Paths{}, fmt.Errorf("chmod %s: %w", filepath.Base(bin), err)
			}
		}
	}
	return p, nil
}

func assetForPlatform(goos, goarch string) (string, error) {
	var platform string
	switch goos + "/" + goarch {
	case "linux/amd64":
		platform = "linux-64"
	case "linux/arm64":
		platform = "linux-arm-64"
	case "darwin/amd64":
		platform = "macos-64"
	case "windows/amd64":
		platform = "win-64"
	default:
		return "", fmt.Errorf("no ffmpeg bundle for %s/%s: install ffmpeg or set %s", goos, goarch, EnvFFmpegPath)
	}
	return "ffmpeg-" + bundleVersion + "-" + platform + ".zip", nil
}

func download(asset string) (io.ReadCloser, error) {
	url := fmt.Sprintf("%s/v%s/%s", bundleBaseURL, bundleVersion, asset)
	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("download ffmpeg bundle: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("download ffmpeg bundle: unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

// zip needs random access, so the stream is spooled to a temp file first
func unpack(src io.Reader, dir string) error {
	tmp, err := os.CreateTemp("", "ytchapters-ffmpeg-*.zip")
	if err != nil {
		return fmt.Errorf("create temp archive: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp archive: %w", err)
	}

	zr, err := zip.OpenReader(tmp.Name())
	if err != nil {
		return fmt.Errorf("open ffmpeg archive: %w", err)
	}
	defer func() { _ = zr.Close() }()

	found := map[string]bool{}
	for _, f := range zr.File {
		name := binaryName(f.Name)
		if name == "" {
			continue
		}
		if err := writeEntry(f, filepath.Join(dir, name+exeSuffix(runtime.GOOS))); err != nil {
			return err
		}
		found[name] = true
	}
	if !found["ffmpeg"] || !found["ffprobe"] {
		return errors.New("ffmpeg archive missing required binaries")
	}
	return nil
}

func writeEntry(f *zip.File, dest string) error {
	r, err := f.Open()
	if err != nil {
		return fmt.Errorf("open archive entry %s: %w", f.Name, err)
	}
	defer func() { _ = r.Close() }()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, r); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return nil
}

// maps an archive entry to "ffmpeg" or "ffprobe", or "" for anything else
func binaryName(entry string) string {
	name := strings.TrimSuffix(strings.ToLower(filepath.Base(entry)), ".exe")
	switch name {
	case "ffmpeg", "ffprobe":
		return name
	}
	return ""
}

func usable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Size() > 0
}

func exeSuffix(goos string) string {
	if goos == "windows" {
		return ".exe"
	}
	return ""
}
