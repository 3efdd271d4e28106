package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/akolanti/DocIngest/internal/domain/commonModels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// keep config.Load away from any config file in the package directory
	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestDirCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rows.csv"), []byte("content\none\ntwo\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.bin"), []byte("?"), 0o644))

	out, err := run(t, "dir", dir, "--workers", "2", "--log-level", "error")
	require.NoError(t, err)

	var stats commonModels.RunStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, commonModels.RunStats{FilesProcessed: 2, DocumentsIngested: 3, Errors: 1}, stats)
}

func TestDirCommand_Filter(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rows.csv"), []byte("content\none\n"), 0o644))

	out, err := run(t, "dir", dir, "--type", "text", "--log-level", "error")
	require.NoError(t, err)

	var stats commonModels.RunStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, int64(1), stats.FilesProcessed)
	assert.Equal(t, int64(1), stats.DocumentsIngested)
}

func TestDirCommand_MissingDirectory(t *testing.T) {
	out, err := run(t, "dir", filepath.Join(t.TempDir(), "missing"), "--log-level", "error")

	assert.ErrorIs(t, err, commonModels.ErrDirectoryNotFound)
	assert.Empty(t, out)
}

func TestFileCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"content": "c", "tag": "x"}]`), 0o644))

	out, err := run(t, "file", path, "--log-level", "error")
	require.NoError(t, err)

	var result commonModels.IngestionResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Success)
	require.Len(t, result.Documents, 1)
	assert.Equal(t, "c", result.Documents[0].Content)
	assert.Equal(t, "x", result.Documents[0].Metadata["tag"])
}

func TestFileCommand_Errors(t *testing.T) {
	_, err := run(t, "file", filepath.Join(t.TempDir(), "missing.txt"), "--log-level", "error")
	assert.ErrorIs(t, err, commonModels.ErrFileNotFound)

	_, err = run(t, "file")
	assert.Error(t, err, "a path argument is required")
}
