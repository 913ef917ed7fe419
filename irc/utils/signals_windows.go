//go:build windows

// Copyright (c) 2020 Shivaram Lingamneni
// released under the MIT license

package utils

import (
	"os"
	"syscall"
)

var (
	// ExitSignals are the signals the client disconnects and exits on.
	ExitSignals = []os.Signal{
		syscall.SIGINT,
		syscall.SIGTERM,
	}
)
