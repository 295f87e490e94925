package cmd

import "golang.org/x/sys/unix"

// isTerminal reports whether fd is an interactive TTY, used to decide
// between the full-screen tcell/tview debugger and the line-oriented
// n/r/b REPL. Uses the same ioctl(TCGETS)-based detection term.IsTerminal
// wraps.
func isTerminal(fd int) bool {
	_, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	return err == nil
}
