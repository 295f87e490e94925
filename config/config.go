// Package config supplies toolchain-wide defaults (memory map, heap size,
// history depth, syscall timeouts) through a layered viper configuration:
// a titan.yaml/titan.json file, TITAN_-prefixed environment variables, and
// command-line flags bound through pflag, in that order of increasing
// precedence.
package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Default values for the zero-config path: a standard MIPS memory map and
// conservative execution limits.
const (
	DefaultTextSectionStart       = 0x00400000
	DefaultDataSectionStart       = 0x10010000
	DefaultKernelTextSectionStart = 0x80000000
	DefaultKernelDataSectionStart = 0x90000000

	DefaultHeapSize       = 0x100000
	DefaultHeapEnd        = 0x7FFFFFFC
	DefaultHistoryDepth   = 1000
	DefaultSyscallTimeout = 0 // no timeout
	DefaultExecutorBatch  = 140
)

// Config holds the resolved toolchain configuration for one invocation.
type Config struct {
	TextSectionStart       uint32
	DataSectionStart       uint32
	KernelTextSectionStart uint32
	KernelDataSectionStart uint32

	HeapSize uint32
	HeapEnd  uint32

	HistoryDepth   int
	SyscallTimeout int // milliseconds, 0 means unbounded
	ExecutorBatch  int

	LogFile  string
	LogLevel string
}

// Load builds a viper instance layered file < env < flags and decodes it
// into a Config. flags may be nil, in which case only file and environment
// sources apply.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetConfigName("titan")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TITAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}

	return &Config{
		TextSectionStart:       v.GetUint32("section.text"),
		DataSectionStart:       v.GetUint32("section.data"),
		KernelTextSectionStart: v.GetUint32("section.kernel_text"),
		KernelDataSectionStart: v.GetUint32("section.kernel_data"),

		HeapSize: v.GetUint32("heap.size"),
		HeapEnd:  v.GetUint32("heap.end"),

		HistoryDepth:   v.GetInt("history.depth"),
		SyscallTimeout: v.GetInt("syscall.timeout"),
		ExecutorBatch:  v.GetInt("executor.batch"),

		LogFile:  v.GetString("log.file"),
		LogLevel: v.GetString("log.level"),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("section.text", DefaultTextSectionStart)
	v.SetDefault("section.data", DefaultDataSectionStart)
	v.SetDefault("section.kernel_text", DefaultKernelTextSectionStart)
	v.SetDefault("section.kernel_data", DefaultKernelDataSectionStart)

	v.SetDefault("heap.size", DefaultHeapSize)
	v.SetDefault("heap.end", DefaultHeapEnd)

	v.SetDefault("history.depth", DefaultHistoryDepth)
	v.SetDefault("syscall.timeout", DefaultSyscallTimeout)
	v.SetDefault("executor.batch", DefaultExecutorBatch)

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// BindCommonFlags registers the flags Load's BindPFlags call picks up,
// shared by every titan subcommand through the root command's persistent
// flags.
func BindCommonFlags(flags *pflag.FlagSet) {
	flags.Int("syscall.timeout", DefaultSyscallTimeout, "timeout in milliseconds for blocking syscalls (0 = unbounded)")
	flags.Int("history.depth", DefaultHistoryDepth, "number of instructions retained for step-backward")
	flags.String("log.file", "", "write a JSON log stream to this file in addition to the console")
	flags.String("log.level", "info", "minimum log level (debug, info, warn, error)")
}
