//go:build !unix

package cmd

import "os"

var resumeSignals []os.Signal
