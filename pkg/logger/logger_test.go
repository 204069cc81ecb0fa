package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoggersUsableBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		ErrorLogger.Error("nothing happens")
		SecurityLogger.Warn("nothing happens")
	})
}

func TestInitLoggersWritesCategoryFiles(t *testing.T) {
	saved := []*zap.Logger{ErrorLogger, AuditLogger, RequestLogger, SecurityLogger, SystemLogger}
	t.Cleanup(func() {
		ErrorLogger, AuditLogger, RequestLogger, SecurityLogger, SystemLogger =
			saved[0], saved[1], saved[2], saved[3], saved[4]
	})

	dir := filepath.Join(t.TempDir(), "nested", "logs")
	require.NoError(t, InitLoggers(dir))

	AuditLogger.Info("task created", zap.Int64("task_id", 7))
	SyncLoggers()

	data, err := os.ReadFile(filepath.Join(dir, "audit.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"task created"`)
	assert.Contains(t, string(data), `"task_id":7`)
	assert.Contains(t, string(data), `"timestamp"`)

	for _, name := range []string{"errors", "request", "security", "system"} {
		_, err := os.Stat(filepath.Join(dir, name+".log"))
		assert.NoError(t, err, name)
	}
}
