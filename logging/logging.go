// Package logging sets up the slog handler tree shared across cmd/. It
// captures the same "what is the program doing right now" register-dump
// spirit — next instruction, register file, stack, queued device output —
// that a debug step needs, routed through log/slog and fanned out with
// github.com/samber/slog-multi so the same event stream can reach a
// human-readable console handler and, when a log file is configured, a
// JSON file handler at the same time.
package logging

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// Setup builds the process-wide logger. logFile may be empty, in which case
// only the console handler is installed. level parses the same names slog
// itself accepts case-insensitively (debug, info, warn, error).
func Setup(logFile string, level string) (*slog.Logger, func() error, error) {
	handlers := []slog.Handler{consoleHandler(parseLevel(level))}

	closer := func() error { return nil }

	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}

		handlers = append(handlers, jsonHandler(file, parseLevel(level)))
		closer = file.Close
	}

	logger := slog.New(slogmulti.Fanout(handlers...))
	slog.SetDefault(logger)

	return logger, closer, nil
}

func consoleHandler(level slog.Level) slog.Handler {
	return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
}

func jsonHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}

func parseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Instruction logs one executed instruction at Debug level, the
// slog-structured replacement for VM.printCurrentState's register dump.
func Instruction(logger *slog.Logger, pc uint32, opcode uint32, registers [32]uint32) {
	logger.Debug("instruction", slog.Uint64("pc", uint64(pc)), slog.Uint64("opcode", uint64(opcode)), slog.Any("registers", registers))
}

// Diagnostic logs an assembler-stage warning or error at the matching slog
// level, with file/line/column fields taken from a Token's position.
func Diagnostic(logger *slog.Logger, severity string, message string, file string, line int, column int) {
	attrs := []any{slog.String("file", file), slog.Int("line", line), slog.Int("column", column)}

	switch severity {
	case "error":
		logger.Error(message, attrs...)
	default:
		logger.Warn(message, attrs...)
	}
}
