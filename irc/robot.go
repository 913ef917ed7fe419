// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"context"
	"fmt"
	"time"

	"github.com/okzk/sdnotify"

	"github.com/ergochat/ircrobot/irc/flock"
	"github.com/ergochat/ircrobot/irc/logger"
)

// Robot is the whole program: it holds the single-instance lock, dials the
// server and runs one client until the connection ends.
type Robot struct {
	config    *Config
	logger    *logger.Manager
	startTime time.Time

	// overridable for tests
	dial func(ctx context.Context, config *Config) (IRCConn, error)
}

// NewRobot returns a Robot for a loaded and validated config.
func NewRobot(config *Config, logger *logger.Manager) *Robot {
	return &Robot{
		config:    config,
		logger:    logger,
		startTime: time.Now(),
		dial:      Dial,
	}
}

// Run connects and handles traffic until the server closes the connection,
// a fatal error occurs or ctx is cancelled. There is no reconnection.
func (robot *Robot) Run(ctx context.Context) (err error) {
	if robot.config.LockFile != "" {
		lock, err := flock.TryAcquireFlock(robot.config.LockFile)
		if err != nil {
			return fmt.Errorf("failed to acquire flock on %s: %w", robot.config.LockFile, err)
		}
		defer lock.Unlock()
	}

	session := NewSession(robot.config)
	robot.logger.Info("connect", "Connecting to", session.Address())
	conn, err := robot.dial(ctx, robot.config)
	if err != nil {
		return err
	}
	robot.logger.Info("connect", "Connected to", session.Address())

	client := NewClient(ClientConfig{
		Session:           session,
		Conn:              conn,
		Logger:            robot.logger,
		Realname:          robot.config.Identity.Realname,
		ServicesNick:      robot.config.Identity.ServicesNick,
		MaxNickRetries:    robot.config.Identity.MaxNickRetries,
		KeepaliveInterval: robot.config.Keepalive.Interval,
		StartTime:         robot.startTime,
		OnJoined:          robot.notifyReady,
	})
	return client.Run(ctx)
}

// notifyReady tells systemd we're up, if we were started by it.
func (robot *Robot) notifyReady() {
	if err := sdnotify.Ready(); err != nil {
		robot.logger.Debug("internal", "sd_notify failed:", err.Error())
	}
}
