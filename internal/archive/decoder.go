// Package archive decodes student submission archives (zip and rar) behind
// a single entry-iteration contract and owns the path conventions used to
// turn untrusted archive-internal names into storage keys.
package archive

import (
	"errors"
	"io"
	"path"
	"path/filepath"
	"strings"
)

// SolutionArtifactName is the inner artifact extracted per student.
const SolutionArtifactName = "solution.zip"

var ErrUnsupportedFormat = errors.New("only .zip or .rar archives are supported")

// Entry is a single file inside an archive. Reader is only valid until the
// next call to Decoder.Next.
type Entry struct {
	Path   string
	Reader io.Reader
}

// Decoder yields archive file entries in stored order, directories already
// filtered out. Next returns io.EOF when the archive is exhausted.
type Decoder interface {
	Next() (*Entry, error)
	TopLevelName() string
}

// NewDecoder picks the container format from the file extension. Corrupt
// archive bytes surface as a wrapped format error from the constructor.
func NewDecoder(data []byte, fileName string) (Decoder, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".zip":
		return newZipDecoder(data, fileName)
	case ".rar":
		return newRarDecoder(data, fileName)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// IsSolutionArtifact reports whether an entry's base file name matches the
// target artifact, case-insensitively.
func IsSolutionArtifact(name string) bool {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	return strings.EqualFold(base, SolutionArtifactName)
}

// RelativePath removes the top-level segment from an entry path,
// case-insensitively, tolerating both the sanitized and raw forms of the
// top-level name.
func RelativePath(fullName, topName string) string {
	normalized := strings.ReplaceAll(fullName, `\`, "/")
	for _, candidate := range []string{SanitizeSegment(topName), topName} {
		prefix := candidate + "/"
		if len(normalized) > len(prefix) && strings.EqualFold(normalized[:len(prefix)], prefix) {
			return normalized[len(prefix):]
		}
	}
	return normalized
}

// topNameFromEntry infers the top-level folder name from the first entry's
// path; archives without a shared folder fall back to the archive's base
// file name without extension.
func topNameFromEntry(entryPath, archiveName string) string {
	normalized := strings.ReplaceAll(entryPath, `\`, "/")
	if idx := strings.Index(normalized, "/"); idx > 0 {
		return normalized[:idx]
	}
	return fallbackTopName(archiveName)
}

func fallbackTopName(archiveName string) string {
	base := filepath.Base(archiveName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
