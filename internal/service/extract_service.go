package service

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/duyktk/exam-archive-service/internal/repository"
)

// ErrScanFormatUnsupported is returned when a non-zip archive is submitted
// for scanning. Unlike ingestion, the scan pipeline accepts zip only.
var ErrScanFormatUnsupported = errors.New("only .zip archives are supported for scanning")

// ExtractService materializes a zip archive into a disposable directory and
// locates the effective project root. The caller owns cleanup of tempRoot.
type ExtractService interface {
	ExtractToTemp(ctx context.Context, zipStream io.Reader, fileName, tempRoot string) (string, error)
}

type extractService struct {
	logger zerolog.Logger
}

func NewExtractService(logger zerolog.Logger) ExtractService {
	return &extractService{logger: logger}
}

func (s *extractService) ExtractToTemp(ctx context.Context, zipStream io.Reader, fileName, tempRoot string) (string, error) {
	if !strings.EqualFold(filepath.Ext(fileName), ".zip") {
		return "", ErrScanFormatUnsupported
	}

	if err := os.MkdirAll(tempRoot, 0o755); err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}

	zipPath := filepath.Join(tempRoot, filepath.Base(fileName))
	if err := writeToFile(zipPath, zipStream); err != nil {
		return "", err
	}

	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", fmt.Errorf("malformed zip archive: %w", err)
	}
	defer zr.Close()

	for _, entry := range zr.File {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if err := extractEntry(entry, tempRoot); err != nil {
			return "", fmt.Errorf("failed to extract entry %q: %w", entry.Name, err)
		}
	}

	return resolveProjectRoot(tempRoot), nil
}

// extractEntry writes one zip entry under destDir. Entry names with ".."
// components that would escape destDir are rejected (zip slip).
func extractEntry(entry *zip.File, destDir string) error {
	target := filepath.Join(destDir, filepath.FromSlash(entry.Name))
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return fmt.Errorf("entry path escapes extraction directory")
	}

	if entry.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := entry.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	return writeToFile(target, rc)
}

func writeToFile(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %q: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("failed to write file %q: %w", path, err)
	}
	return nil
}

// resolveProjectRoot returns the directory containing the first
// appsettings.json anywhere below extractedPath, in lexical walk order.
// When none exists the extraction root itself is returned so downstream
// checks report the configuration as absent.
func resolveProjectRoot(extractedPath string) string {
	projectRoot := extractedPath

	filepath.WalkDir(extractedPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if strings.EqualFold(d.Name(), repository.AppSettingsFileName) {
			projectRoot = filepath.Dir(path)
			return fs.SkipAll
		}
		return nil
	})

	return projectRoot
}
