package snapshot

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"strings"
)

// ZipSource reads the files of a zip archive
type ZipSource struct {
	name   string
	reader *zip.ReadCloser
}

// OpenZip opens the archive at path. The caller must Close it.
func OpenZip(name, path string) (*ZipSource, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	return &ZipSource{name: name, reader: r}, nil
}

func (s *ZipSource) Name() string { return s.name }

// Close releases the archive
func (s *ZipSource) Close() error {
	return s.reader.Close()
}

// Blobs lists the regular files of the archive. Entries whose name starts
// with a dot, such as .git/, are skipped.
func (s *ZipSource) Blobs(ctx context.Context) ([]Blob, error) {
	var blobs []Blob
	for _, f := range s.reader.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			continue
		}
		if strings.HasPrefix(f.Name, ".") {
			continue
		}
		if err := CheckPath(f.Name); err != nil {
			return nil, err
		}
		file := f
		blobs = append(blobs, Blob{
			Path: file.Name,
			Read: func() ([]byte, error) {
				rc, err := file.Open()
				if err != nil {
					return nil, fmt.Errorf("failed to open %s: %w", file.Name, err)
				}
				defer rc.Close()
				return io.ReadAll(rc)
			},
		})
	}
	return blobs, nil
}
