package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProjectFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newScanRepo() ScanRepository {
	return NewScanRepository(zerolog.Nop())
}

func TestHasAppSettings(t *testing.T) {
	root := t.TempDir()
	repo := newScanRepo()

	assert.False(t, repo.HasAppSettings(root))

	// a nested appsettings.json does not count; the check is non-recursive
	writeProjectFile(t, root, "sub/appsettings.json", "{}")
	assert.False(t, repo.HasAppSettings(root))

	writeProjectFile(t, root, "appsettings.json", "{}")
	assert.True(t, repo.HasAppSettings(root))
}

func TestHasConnectionStringSection(t *testing.T) {
	root := t.TempDir()
	repo := newScanRepo()

	writeProjectFile(t, root, "appsettings.json", `{"Logging": {}}`)
	has, err := repo.HasConnectionStringSection(root)
	require.NoError(t, err)
	assert.False(t, has)

	writeProjectFile(t, root, "appsettings.json", `{"connectionstrings": {"Default": "..."}}`)
	has, err = repo.HasConnectionStringSection(root)
	require.NoError(t, err)
	assert.True(t, has, "key match must be case-insensitive")
}

func TestHasConnectionStringSectionInvalidJSON(t *testing.T) {
	root := t.TempDir()
	repo := newScanRepo()

	writeProjectFile(t, root, "appsettings.json", "{ not json")
	_, err := repo.HasConnectionStringSection(root)
	assert.Error(t, err)
}

func TestFindHardcodedConnectionString(t *testing.T) {
	root := t.TempDir()
	repo := newScanRepo()

	writeProjectFile(t, root, "appsettings.json", `{"ConnectionStrings": {"Default": "Server=db"}}`)
	writeProjectFile(t, root, "Program.cs", "using System;\nvar cs = \"Server=localhost;Database=exams\";\n")

	finding, err := repo.FindHardcodedConnectionString(root)
	require.NoError(t, err)
	require.NotNil(t, finding)
	assert.Equal(t, "Program.cs", finding.FileName)
	assert.Equal(t, 2, finding.LineNumber)
	assert.Contains(t, finding.Preview, "Server=localhost")
}

func TestFindHardcodedConnectionStringCleanTree(t *testing.T) {
	root := t.TempDir()
	repo := newScanRepo()

	writeProjectFile(t, root, "appsettings.json", `{"ConnectionStrings": {}}`)
	writeProjectFile(t, root, "Program.cs", "Console.WriteLine(\"hello\");\n")

	finding, err := repo.FindHardcodedConnectionString(root)
	require.NoError(t, err)
	assert.Nil(t, finding)
}

func TestFindHardcodedConnectionStringSkipsAppSettings(t *testing.T) {
	root := t.TempDir()
	repo := newScanRepo()

	// the configuration file is the legitimate place for connection strings
	writeProjectFile(t, root, "appsettings.json", `{"ConnectionStrings": {"Default": "Data Source=."}}`)

	finding, err := repo.FindHardcodedConnectionString(root)
	require.NoError(t, err)
	assert.Nil(t, finding)
}

func TestFindHardcodedConnectionStringSkipsBuildOutput(t *testing.T) {
	root := t.TempDir()
	repo := newScanRepo()

	writeProjectFile(t, root, "bin/Debug/settings.json", `{"cs": "Server=prod"}`)
	writeProjectFile(t, root, "obj/project.config", "Initial Catalog=exams")

	finding, err := repo.FindHardcodedConnectionString(root)
	require.NoError(t, err)
	assert.Nil(t, finding)
}

func TestFindHardcodedConnectionStringIgnoresOtherExtensions(t *testing.T) {
	root := t.TempDir()
	repo := newScanRepo()

	writeProjectFile(t, root, "notes.txt", "Server=should-not-match")

	finding, err := repo.FindHardcodedConnectionString(root)
	require.NoError(t, err)
	assert.Nil(t, finding)
}

func TestFindHardcodedConnectionStringPatternVariants(t *testing.T) {
	variants := []string{
		"var a = \"Data Source=.;\";",
		"var b = \"data  source = .\";",
		"var c = \"INITIAL CATALOG=exams\";",
		"var d = \"Database=exams\";",
	}

	for _, line := range variants {
		root := t.TempDir()
		repo := newScanRepo()
		writeProjectFile(t, root, "Config.cs", line+"\n")

		finding, err := repo.FindHardcodedConnectionString(root)
		require.NoError(t, err)
		require.NotNil(t, finding, "line %q must match", line)
		assert.Equal(t, 1, finding.LineNumber)
	}
}
