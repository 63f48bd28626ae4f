// Package export downloads the server's data export to a local file.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Downloader is the piece of the API client export needs.
type Downloader interface {
	Export(ctx context.Context) ([]byte, error)
}

// Filename returns the dated export filename for a point in time.
func Filename(now time.Time) string {
	return fmt.Sprintf("langmate-export-%s.json", now.Format("2006-01-02"))
}

// Download fetches the export blob and writes it into dir, returning the
// written path. The blob is opaque to the client and written verbatim.
func Download(ctx context.Context, d Downloader, dir string, now time.Time) (string, error) {
	data, err := d.Export(ctx)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, Filename(now))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return path, nil
}
