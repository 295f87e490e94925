package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1whatleytay/titan/logging"
)

func TestSetupWithoutLogFileHasNoOpCloser(t *testing.T) {
	logger, closer, err := logging.Setup("", "info")
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.NoError(t, closer())
}

func TestSetupWritesJSONToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "titan.log")

	logger, closer, err := logging.Setup(path, "debug")
	require.NoError(t, err)
	t.Cleanup(func() { closer() })

	logging.Instruction(logger, 0x00400000, 0x2008000a, [32]uint32{})

	require.NoError(t, closer())

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), `"msg":"instruction"`)
	assert.True(t, strings.Contains(string(contents), "\"pc\":4194304"))
}

func TestDiagnosticSeverityRouting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diag.log")
	logger, closer, err := logging.Setup(path, "warn")
	require.NoError(t, err)
	t.Cleanup(func() { closer() })

	logging.Diagnostic(logger, "error", "unknown instruction", "prog.s", 3, 5)
	logging.Diagnostic(logger, "warning", "unused label", "prog.s", 8, 1)

	require.NoError(t, closer())

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "unknown instruction")
	assert.Contains(t, string(contents), "unused label")
}
