package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Build writes files into a new zip at zipPath, each stored at the archive
// root under its base name, and returns the archive size in bytes.
func Build(zipPath string, files []string) (int64, error) {
	if len(files) == 0 {
		return 0, fmt.Errorf("no files to archive")
	}

	names := make(map[string]bool, len(files))
	for _, f := range files {
		name := filepath.Base(f)
		if names[name] {
			return 0, fmt.Errorf("duplicate archive entry %q", name)
		}
		names[name] = true
	}

	if err := os.MkdirAll(filepath.Dir(zipPath), 0755); err != nil {
		return 0, fmt.Errorf("failed to create archive directory: %w", err)
	}

	tmpPath := zipPath + ".partial"
	out, err := os.Create(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create archive: %w", err)
	}
	defer func() { _ = os.Remove(tmpPath) }()

	zw := zip.NewWriter(out)
	for _, f := range files {
		if err := addFile(zw, f); err != nil {
			_ = zw.Close()
			_ = out.Close()
			return 0, err
		}
	}

	if err := zw.Close(); err != nil {
		_ = out.Close()
		return 0, fmt.Errorf("failed to finish archive: %w", err)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("failed to close archive: %w", err)
	}

	if err := os.Rename(tmpPath, zipPath); err != nil {
		return 0, fmt.Errorf("failed to finalize archive: %w", err)
	}

	info, err := os.Stat(zipPath)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func addFile(zw *zip.Writer, path string) error {
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer in.Close()

	stat, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	header, err := zip.FileInfoHeader(stat)
	if err != nil {
		return fmt.Errorf("failed to build header for %s: %w", path, err)
	}
	header.Name = filepath.Base(path)
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", header.Name, err)
	}
	if _, err := io.Copy(w, in); err != nil {
		return fmt.Errorf("failed to write %s: %w", header.Name, err)
	}
	return nil
}
