//go:build plan9 || solaris

package flock

import (
	"errors"
)

var (
	CouldntAcquire = errors.New("Couldn't acquire flock (is another IRCrobot running?)")
)

// TryAcquireFlock always succeeds: file locking isn't available here.
func TryAcquireFlock(path string) (fl Flocker, err error) {
	return &noopFlocker{}, nil
}
