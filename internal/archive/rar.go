package archive

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/nwaples/rardecode/v2"
)

type rarDecoder struct {
	rr      *rardecode.Reader
	topName string
}

func newRarDecoder(data []byte, fileName string) (*rarDecoder, error) {
	// One header read up front both validates the container and pins the
	// top-level name before iteration starts.
	peek, err := rardecode.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("malformed rar archive: %w", err)
	}

	topName := fallbackTopName(fileName)
	hdr, err := peek.Next()
	switch {
	case err == nil:
		topName = topNameFromEntry(hdr.Name, fileName)
	case err == io.EOF:
		// empty archive, keep the fallback name
	default:
		return nil, fmt.Errorf("malformed rar archive: %w", err)
	}

	rr, err := rardecode.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("malformed rar archive: %w", err)
	}

	return &rarDecoder{rr: rr, topName: topName}, nil
}

func (d *rarDecoder) TopLevelName() string {
	return d.topName
}

func (d *rarDecoder) Next() (*Entry, error) {
	for {
		hdr, err := d.rr.Next()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read rar entry: %w", err)
		}
		if hdr.IsDir {
			continue
		}

		return &Entry{
			Path:   strings.ReplaceAll(hdr.Name, `\`, "/"),
			Reader: d.rr,
		}, nil
	}
}
