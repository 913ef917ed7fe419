//go:build plan9

// Copyright (c) 2020 Shivaram Lingamneni
// released under the MIT license

package utils

import (
	"os"
)

var (
	// ExitSignals are the signals the client disconnects and exits on.
	// (plan9 only delivers interrupts as notes)
	ExitSignals = []os.Signal{
		os.Interrupt,
	}
)
