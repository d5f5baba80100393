package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/duyktk/exam-archive-service/internal/models"
	"github.com/duyktk/exam-archive-service/internal/repository"
)

// ScanService checks an extracted project tree for hardcoded database
// connection strings. The checks form a waterfall: the first failing check
// produces the verdict and later checks never run.
type ScanService interface {
	ScanArchive(ctx context.Context, zipStream io.Reader, fileName string) (*models.ScanResult, error)
	Scan(projectPath string) (*models.ScanResult, error)
}

type scanService struct {
	scanRepo repository.ScanRepository
	extract  ExtractService
	tempDir  string
	logger   zerolog.Logger
}

func NewScanService(scanRepo repository.ScanRepository, extract ExtractService, tempDir string, logger zerolog.Logger) ScanService {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &scanService{
		scanRepo: scanRepo,
		extract:  extract,
		tempDir:  tempDir,
		logger:   logger,
	}
}

// ScanArchive extracts the uploaded zip to a disposable directory, scans
// the resulting project tree and removes the directory on every exit path.
func (s *scanService) ScanArchive(ctx context.Context, zipStream io.Reader, fileName string) (*models.ScanResult, error) {
	tempRoot := filepath.Join(s.tempDir, "scan_"+uuid.New().String())
	defer func() {
		// best-effort: a failed cleanup must not mask a completed scan
		if err := os.RemoveAll(tempRoot); err != nil {
			s.logger.Warn().Err(err).Str("dir", tempRoot).Msg("Failed to remove scan temp directory")
		}
	}()

	projectPath, err := s.extract.ExtractToTemp(ctx, zipStream, fileName, tempRoot)
	if err != nil {
		return nil, err
	}

	return s.Scan(projectPath)
}

func (s *scanService) Scan(projectPath string) (*models.ScanResult, error) {
	if !s.scanRepo.HasAppSettings(projectPath) {
		return &models.ScanResult{
			HasAppSettings:      false,
			HasConnectionString: false,
			IsPassed:            false,
			Reason:              "No appsettings.json file found.",
		}, nil
	}

	hasConnectionString, err := s.scanRepo.HasConnectionStringSection(projectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse appsettings.json: %w", err)
	}
	if !hasConnectionString {
		return &models.ScanResult{
			HasAppSettings:      true,
			HasConnectionString: false,
			IsPassed:            false,
			Reason:              "No connection string found in appsettings.json.",
		}, nil
	}

	finding, err := s.scanRepo.FindHardcodedConnectionString(projectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to scan project files: %w", err)
	}
	if finding != nil {
		return &models.ScanResult{
			HasAppSettings:      true,
			HasConnectionString: true,
			Finding:             finding,
			IsPassed:            false,
			Reason:              fmt.Sprintf("Hardcoded ConnectionString found in '%s' (line %d)", finding.FileName, finding.LineNumber),
		}, nil
	}

	return &models.ScanResult{
		HasAppSettings:      true,
		HasConnectionString: true,
		IsPassed:            true,
	}, nil
}
