package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileLogger(t *testing.T) *ZapLogger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.log")
	return NewZapLogger(path, true)
}

func TestGetLogsNewestFirst(t *testing.T) {
	log := newFileLogger(t)
	log.Info("CHAT", "first", nil)
	log.Info("CHAT", "second", nil)
	log.Error("CHAT", "boom", map[string]interface{}{"error": "provider down"})
	_ = log.Sync()

	entries, err := log.GetLogs("", 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "boom", entries[0].Message)
	assert.Equal(t, "first", entries[2].Message)
	assert.NotEmpty(t, entries[0].Id)
}

func TestGetLogsFiltersByLevel(t *testing.T) {
	log := newFileLogger(t)
	log.Info("CHAT", "fine", nil)
	log.Error("CHAT", "boom", nil)
	_ = log.Sync()

	entries, err := log.GetLogs("ERROR", 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].Message)
}

func TestGetLogsPagination(t *testing.T) {
	log := newFileLogger(t)
	log.Info("CHAT", "first", nil)
	log.Info("CHAT", "second", nil)
	log.Info("CHAT", "third", nil)
	_ = log.Sync()

	page, err := log.GetLogs("", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "second", page[0].Message)

	empty, err := log.GetLogs("", 10, 5)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetLogsMissingFile(t *testing.T) {
	log := &ZapLogger{filePath: filepath.Join(t.TempDir(), "absent.log")}

	entries, err := log.GetLogs("", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGetLogById(t *testing.T) {
	log := newFileLogger(t)
	log.Info("CHAT", "lookup me", nil)
	_ = log.Sync()

	entries, err := log.GetLogs("", 1, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry, err := log.GetLogById(entries[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "lookup me", entry.Message)

	_, err = log.GetLogById("nope")
	assert.Error(t, err)
}
