package config_test

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1whatleytay/titan/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, uint32(config.DefaultTextSectionStart), cfg.TextSectionStart)
	assert.Equal(t, uint32(config.DefaultDataSectionStart), cfg.DataSectionStart)
	assert.Equal(t, uint32(config.DefaultKernelTextSectionStart), cfg.KernelTextSectionStart)
	assert.Equal(t, uint32(config.DefaultKernelDataSectionStart), cfg.KernelDataSectionStart)
	assert.Equal(t, uint32(config.DefaultHeapSize), cfg.HeapSize)
	assert.Equal(t, uint32(config.DefaultHeapEnd), cfg.HeapEnd)
	assert.Equal(t, config.DefaultHistoryDepth, cfg.HistoryDepth)
	assert.Equal(t, config.DefaultSyscallTimeout, cfg.SyscallTimeout)
	assert.Equal(t, config.DefaultExecutorBatch, cfg.ExecutorBatch)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadEnvOverridesDefault(t *testing.T) {
	t.Setenv("TITAN_HISTORY_DEPTH", "42")

	cfg, err := config.Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.HistoryDepth)
}

func TestLoadFlagsTakePrecedenceOverEnv(t *testing.T) {
	t.Setenv("TITAN_SYSCALL_TIMEOUT", "10")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.BindCommonFlags(flags)
	require.NoError(t, flags.Parse([]string{"--syscall.timeout=99"}))

	cfg, err := config.Load(flags)
	require.NoError(t, err)
	assert.Equal(t, 99, cfg.SyscallTimeout)
}
