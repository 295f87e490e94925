package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenFileAssignsFdAbove2AndCloseRemoves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scratch.txt")

	fd, err := openFile(path, 1) // write/create/truncate
	require.NoError(t, err)
	assert.Greater(t, fd, uint32(2), "fd should not collide with stdin/stdout/stderr")

	_, tracked := openFiles[fd]
	assert.True(t, tracked)

	closeFile(fd)
	_, tracked = openFiles[fd]
	assert.False(t, tracked, "closeFile should remove the descriptor from the table")
}

func TestOpenFileReadOnlyDefaultFailsForMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.txt")

	_, err := openFile(path, 0)
	assert.Error(t, err)
}

func TestOpenFileWriteThenReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundtrip.txt")

	writeFd, err := openFile(path, 1)
	require.NoError(t, err)
	_, err = openFiles[writeFd].Write([]byte("payload"))
	require.NoError(t, err)
	closeFile(writeFd)

	readFd, err := openFile(path, 0)
	require.NoError(t, err)
	defer closeFile(readFd)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(contents))
	assert.NotZero(t, readFd)
}
