package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTempDir points the package at a fresh log directory and a fresh session.
func useTempDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	logDirMu.Lock()
	origDir, origLevel := logDir, defaultLevel
	logDir, defaultLevel = dir, LevelInfo
	logDirMu.Unlock()

	origSession := sessionID
	sessionID = ""
	sessionIDOnce = sync.Once{}

	t.Cleanup(func() {
		logDirMu.Lock()
		logDir, defaultLevel = origDir, origLevel
		logDirMu.Unlock()
		sessionID = origSession
		sessionIDOnce = sync.Once{}
	})
	return dir
}

func TestNewLogger(t *testing.T) {
	dir := useTempDir(t)

	logger, err := NewLogger("placer")
	require.NoError(t, err)
	defer logger.Close()

	assert.Equal(t, "placer", logger.component)
	assert.NotEmpty(t, logger.SessionID())
	assert.Equal(t, dir, filepath.Dir(logger.LogPath()))
	assert.FileExists(t, logger.LogPath())
}

func TestLogPathFormat(t *testing.T) {
	useTempDir(t)

	logger, err := NewLogger("placer")
	require.NoError(t, err)
	defer logger.Close()

	name := filepath.Base(logger.LogPath())
	assert.True(t, strings.HasSuffix(name, "-droplink.log"), name)
	assert.True(t, strings.HasPrefix(name, GetSessionID()), name)
}

func TestLoggerFormattingAndLevels(t *testing.T) {
	useTempDir(t)

	logger, err := NewLogger("drop")
	require.NoError(t, err)

	logger.Printf("Printf %d", 1)
	logger.Debugf("hidden debug")
	logger.Infof("info %s", "line")
	logger.Warnf("warn line")
	logger.Errorf("error line")

	logger.SetLevel(LevelDebug)
	logger.Debugf("visible debug")
	require.NoError(t, logger.Close())

	content, err := os.ReadFile(logger.LogPath())
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "[drop] [INFO] Printf 1")
	assert.Contains(t, text, "[drop] [INFO] info line")
	assert.Contains(t, text, "[drop] [WARN] warn line")
	assert.Contains(t, text, "[drop] [ERROR] error line")
	assert.Contains(t, text, "[drop] [DEBUG] visible debug")
	assert.NotContains(t, text, "hidden debug")
}

func TestMultipleComponentsShareSessionFile(t *testing.T) {
	useTempDir(t)

	a, err := NewLogger("a")
	require.NoError(t, err)
	b, err := NewLogger("b")
	require.NoError(t, err)

	a.Infof("from a")
	b.Infof("from b")
	require.NoError(t, a.Close())
	require.NoError(t, b.Close())

	assert.Equal(t, a.LogPath(), b.LogPath())
	content, err := os.ReadFile(a.LogPath())
	require.NoError(t, err)
	assert.Contains(t, string(content), "[a] [INFO] from a")
	assert.Contains(t, string(content), "[b] [INFO] from b")
}

func TestFallbackWhenDirectoryUnusable(t *testing.T) {
	dir := useTempDir(t)
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))
	SetDirectory(filepath.Join(blocker, "logs"))

	logger, err := NewLogger("fallback")
	assert.Error(t, err)
	require.NotNil(t, logger)
	assert.Empty(t, logger.LogPath())
	assert.NoError(t, logger.Close())
}

func TestWriterLogger(t *testing.T) {
	useTempDir(t)

	var buf bytes.Buffer
	logger := NewWriterLogger("cli", &buf)
	logger.Warnf("careful")
	logger.Debugf("quiet")

	assert.Contains(t, buf.String(), "[cli] [WARN] careful")
	assert.NotContains(t, buf.String(), "quiet")
	assert.NoError(t, logger.Close())

	Discard("x").Errorf("dropped")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel(" error "))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
	assert.Equal(t, "WARN", LevelWarn.String())
}

func TestSetDefaultLevel(t *testing.T) {
	useTempDir(t)
	SetDefaultLevel(LevelError)

	var buf bytes.Buffer
	logger := NewWriterLogger("quiet", &buf)
	logger.Warnf("suppressed")
	logger.Errorf("kept")

	assert.NotContains(t, buf.String(), "suppressed")
	assert.Contains(t, buf.String(), "kept")
}

func TestGetLogDirectory(t *testing.T) {
	dir := useTempDir(t)

	got, err := GetLogDirectory()
	require.NoError(t, err)
	assert.Equal(t, dir, got)
}
