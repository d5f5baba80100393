package repository

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/duyktk/exam-archive-service/internal/models"
)

// AppSettingsFileName is the configuration convention checked by the scan.
const AppSettingsFileName = "appsettings.json"

var (
	connStringRegex = regexp.MustCompile(`(?i)(data\s*source|server|initial\s*catalog|database)\s*=`)

	allowedScanExtensions = map[string]bool{
		".cs":     true,
		".json":   true,
		".config": true,
	}

	// Build output is never scanned; a connection string in compiled
	// artifacts is not a source-level finding.
	excludedScanDirs = map[string]bool{
		"bin": true,
		"obj": true,
	}
)

type ScanRepository interface {
	HasAppSettings(projectPath string) bool
	HasConnectionStringSection(projectPath string) (bool, error)
	FindHardcodedConnectionString(projectPath string) (*models.HardCodeFinding, error)
}

type scanRepository struct {
	logger zerolog.Logger
}

func NewScanRepository(logger zerolog.Logger) ScanRepository {
	return &scanRepository{logger: logger}
}

// HasAppSettings checks for the configuration file directly under
// projectPath, non-recursive.
func (r *scanRepository) HasAppSettings(projectPath string) bool {
	info, err := os.Stat(filepath.Join(projectPath, AppSettingsFileName))
	return err == nil && !info.IsDir()
}

// HasConnectionStringSection parses the configuration file and looks for a
// top-level "ConnectionStrings" key, case-insensitively.
func (r *scanRepository) HasConnectionStringSection(projectPath string) (bool, error) {
	data, err := os.ReadFile(filepath.Join(projectPath, AppSettingsFileName))
	if err != nil {
		return false, nil
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return false, err
	}

	for key := range root {
		if strings.EqualFold(key, "ConnectionStrings") {
			return true, nil
		}
	}
	return false, nil
}

// FindHardcodedConnectionString walks the project tree and returns the
// first line matching the connection-string pattern, or nil when the tree
// is clean. Unreadable files are skipped, never fatal.
func (r *scanRepository) FindHardcodedConnectionString(projectPath string) (*models.HardCodeFinding, error) {
	var finding *models.HardCodeFinding

	err := filepath.WalkDir(projectPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if excludedScanDirs[strings.ToLower(d.Name())] {
				return filepath.SkipDir
			}
			return nil
		}

		if !allowedScanExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		// the configuration file itself is the one legitimate place for a
		// connection string
		if strings.EqualFold(d.Name(), AppSettingsFileName) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			r.logger.Debug().Err(err).Str("file", path).Msg("Skipping unreadable file during scan")
			return nil
		}

		for i, line := range strings.Split(string(data), "\n") {
			if connStringRegex.MatchString(line) {
				finding = &models.HardCodeFinding{
					FileName:   d.Name(),
					LineNumber: i + 1,
					Preview:    strings.TrimSpace(line),
				}
				return fs.SkipAll
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return finding, nil
}
