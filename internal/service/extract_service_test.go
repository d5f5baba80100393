package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractToTempResolvesProjectRoot(t *testing.T) {
	svc := NewExtractService(zerolog.Nop())
	tempRoot := filepath.Join(t.TempDir(), "scan")

	data := buildArchive(t,
		"Submission/README.md",
		"Submission/src/App/appsettings.json",
		"Submission/src/App/Program.cs",
	)

	root, err := svc.ExtractToTemp(context.Background(), bytes.NewReader(data), "submission.zip", tempRoot)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tempRoot, "Submission", "src", "App"), root)

	extracted, err := os.ReadFile(filepath.Join(root, "Program.cs"))
	require.NoError(t, err)
	assert.Contains(t, string(extracted), "Submission/src/App/Program.cs")
}

func TestExtractToTempFallsBackToExtractionRoot(t *testing.T) {
	svc := NewExtractService(zerolog.Nop())
	tempRoot := filepath.Join(t.TempDir(), "scan")

	data := buildArchive(t, "Submission/Program.cs")

	root, err := svc.ExtractToTemp(context.Background(), bytes.NewReader(data), "submission.zip", tempRoot)
	require.NoError(t, err)
	assert.Equal(t, tempRoot, root, "without appsettings.json the extraction root is returned")
}

func TestExtractToTempRejectsNonZip(t *testing.T) {
	svc := NewExtractService(zerolog.Nop())

	_, err := svc.ExtractToTemp(context.Background(), bytes.NewReader(nil), "submission.rar", t.TempDir())
	assert.ErrorIs(t, err, ErrScanFormatUnsupported)
}

func TestExtractToTempRejectsMalformedZip(t *testing.T) {
	svc := NewExtractService(zerolog.Nop())

	_, err := svc.ExtractToTemp(context.Background(), bytes.NewReader([]byte("not a zip")), "submission.zip", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed zip archive")
}

func TestExtractToTempRejectsEscapingEntries(t *testing.T) {
	svc := NewExtractService(zerolog.Nop())
	parent := t.TempDir()
	tempRoot := filepath.Join(parent, "scan")

	data := buildArchive(t, "../outside.txt")

	_, err := svc.ExtractToTemp(context.Background(), bytes.NewReader(data), "evil.zip", tempRoot)
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(parent, "outside.txt"))
	assert.True(t, os.IsNotExist(statErr), "entry must not be written outside the extraction directory")
}

func TestExtractToTempStopsOnCancelledContext(t *testing.T) {
	svc := NewExtractService(zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	data := buildArchive(t, "Submission/Program.cs")
	_, err := svc.ExtractToTemp(ctx, bytes.NewReader(data), "submission.zip", filepath.Join(t.TempDir(), "scan"))
	assert.ErrorIs(t, err, context.Canceled)
}
