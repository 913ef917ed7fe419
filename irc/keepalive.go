// Copyright (c) 2017 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// released under the MIT license

package irc

import (
	"context"
	"time"
)

// Some networks never PING an idle client and the connection eventually
// times out somewhere along the path; we send our own PING on a fixed
// schedule to keep traffic flowing.

// Keepalive periodically sends a liveness probe. It runs in its own
// goroutine and shares nothing with the read loop except the output sink.
type Keepalive struct {
	interval time.Duration
	probe    func() error

	// overridable for tests
	newTicker func(time.Duration) (<-chan time.Time, func())
}

func NewKeepalive(interval time.Duration, probe func() error) *Keepalive {
	if interval <= 0 {
		interval = defaultKeepaliveInterval
	}
	return &Keepalive{
		interval:  interval,
		probe:     probe,
		newTicker: realTicker,
	}
}

func realTicker(interval time.Duration) (<-chan time.Time, func()) {
	ticker := time.NewTicker(interval)
	return ticker.C, ticker.Stop
}

// Run sends a probe immediately, then once per interval, until ctx is
// cancelled or a probe fails. A failed probe is returned as-is.
func (ka *Keepalive) Run(ctx context.Context) error {
	ticks, stop := ka.newTicker(ka.interval)
	defer stop()

	for {
		if ctx.Err() != nil {
			return nil
		}
		if err := ka.probe(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticks:
		}
	}
}
