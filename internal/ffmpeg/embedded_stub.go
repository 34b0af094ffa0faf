//go:build !ffmpeg_embedded

package ffmpeg

import "io"

// builds without the bundle fall through to the download
func openEmbeddedAsset(string) (io.ReadCloser, bool, error) {
	return nil, false, nil
}
