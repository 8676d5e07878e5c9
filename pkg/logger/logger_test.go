package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatter(t *testing.T) {
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2022, 7, 4, 9, 30, 0, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "skip article",
		Data:    logrus.Fields{"url": "https://a.example", "attempt": 2},
	}

	out, err := (&Formatter{}).Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "[2022-07-04 09:30:00] [WARN] [] skip article attempt=2 url=https://a.example\n", string(out))
}

func TestFormatterTruncatesLevel(t *testing.T) {
	entry := &logrus.Entry{Logger: logrus.New(), Level: logrus.ErrorLevel, Message: "x"}

	out, err := (&Formatter{}).Format(entry)
	require.NoError(t, err)
	assert.Contains(t, string(out), "[ERRO]")
}

func TestInitLoggerWritesFile(t *testing.T) {
	old := Log
	t.Cleanup(func() { Log = old })

	path := filepath.Join(t.TempDir(), "logs", "radar.log")
	require.NoError(t, InitLogger("debug", path))
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())

	Log.Debug("hello file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
	assert.Contains(t, string(data), "logger_test.go")
}

func TestInitLoggerBadLevel(t *testing.T) {
	old := Log
	t.Cleanup(func() { Log = old })

	require.NoError(t, InitLogger("loud", ""))
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
}
