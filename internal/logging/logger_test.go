package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, GetLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warn"))
	assert.Equal(t, logrus.TraceLevel, GetLevel("trace"))
	assert.Equal(t, logrus.InfoLevel, GetLevel("whatever"))
}

func TestSetup_WritesToRotatedFile(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "logs", "liftlog")
	t.Cleanup(func() { logrus.SetOutput(os.Stderr) })

	Setup(LoggerSetupParams{LogFileName: name, LogLevel: "debug", LogFormatJSON: true})
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	logrus.WithField("workout_id", "abc").Info("session started")

	data, err := os.ReadFile(name + ".log")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"workout_id":"abc"`)
	assert.Contains(t, string(data), `"msg":"session started"`)
}

func TestGormLoggerFollowsLevel(t *testing.T) {
	t.Cleanup(func() { logrus.SetLevel(logrus.InfoLevel) })

	logrus.SetLevel(logrus.InfoLevel)
	assert.NotNil(t, GormLogger())

	logrus.SetLevel(logrus.TraceLevel)
	assert.NotNil(t, GormLogger())
}
