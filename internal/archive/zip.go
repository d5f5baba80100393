package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
)

type zipDecoder struct {
	files   []*zip.File
	idx     int
	topName string
	current io.ReadCloser
}

func newZipDecoder(data []byte, fileName string) (*zipDecoder, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("malformed zip archive: %w", err)
	}

	d := &zipDecoder{
		files:   zr.File,
		topName: fallbackTopName(fileName),
	}
	if len(zr.File) > 0 {
		d.topName = topNameFromEntry(zr.File[0].Name, fileName)
	}
	return d, nil
}

func (d *zipDecoder) TopLevelName() string {
	return d.topName
}

func (d *zipDecoder) Next() (*Entry, error) {
	if d.current != nil {
		d.current.Close()
		d.current = nil
	}

	for d.idx < len(d.files) {
		f := d.files[d.idx]
		d.idx++

		name := strings.ReplaceAll(f.Name, `\`, "/")
		if name == "" || strings.HasSuffix(name, "/") {
			// directory entry
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open zip entry %q: %w", f.Name, err)
		}
		d.current = rc

		return &Entry{Path: name, Reader: rc}, nil
	}

	return nil, io.EOF
}
