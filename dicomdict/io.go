package dicomdict

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// OpenSource opens from, streaming an HTTP/HTTPS URL's body directly into
// the caller or opening it as a local file otherwise. The caller must Close
// the returned reader.
func OpenSource(from string) (io.ReadCloser, error) {
	if strings.HasPrefix(from, "http://") || strings.HasPrefix(from, "https://") {
		resp, err := http.Get(from)
		if err != nil {
			return nil, fmt.Errorf("dicomdict: fetching %s: %w", from, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("dicomdict: fetching %s: status %s", from, resp.Status)
		}
		return resp.Body, nil
	}

	f, err := os.Open(from)
	if err != nil {
		return nil, fmt.Errorf("dicomdict: opening %s: %w", from, err)
	}
	return f, nil
}

// CreateOutput creates path's parent directories if missing, then creates
// path for writing, mirroring leo-cydar's opendcm-util file output
// handling.
func CreateOutput(path string) (io.WriteCloser, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("dicomdict: creating %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("dicomdict: creating %s: %w", path, err)
	}
	return f, nil
}
