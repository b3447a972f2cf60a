//go:build unix

package cmd

import (
	"os"
	"syscall"
)

// resumeSignals are delivered when a stopped process is continued.
var resumeSignals = []os.Signal{syscall.SIGCONT}
