//go:build ffmpeg_embedded

package ffmpeg

import (
	"embed"
	"errors"
	"io"
	"io/fs"
	"path"
)

// release zips placed under bundle/ before building with -tags ffmpeg_embedded
//
//go:embed bundle/*.zip
var bundleFS embed.FS

func openEmbeddedAsset(name string) (io.ReadCloser, bool, error) {
	f, err := bundleFS.Open(path.Join("bundle", name))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return f, true, nil
}
