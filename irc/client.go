// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/ergochat/irc-go/ircmsg"
	"golang.org/x/sync/errgroup"

	"github.com/ergochat/ircrobot/irc/logger"
	"github.com/ergochat/ircrobot/irc/utils"
)

// RegistrationState is how far along we are in negotiating our identity
// and joining the channel.
type RegistrationState uint32

const (
	StateConnecting RegistrationState = iota
	StateRegistering
	StateRegistered
	StateJoining
	StateJoined
)

func (state RegistrationState) String() string {
	switch state {
	case StateConnecting:
		return "connecting"
	case StateRegistering:
		return "registering"
	case StateRegistered:
		return "registered"
	case StateJoining:
		return "joining"
	case StateJoined:
		return "joined"
	default:
		return fmt.Sprintf("RegistrationState(%d)", uint32(state))
	}
}

// ClientConfig is everything a Client needs; only Session and Conn are required.
type ClientConfig struct {
	Session *Session
	Conn    IRCConn
	Logger  *logger.Manager

	// Commands defaults to the built-in chat command table.
	Commands *CommandRegistry
	// Rand defaults to a time-seeded source.
	Rand RandSource

	Realname          string
	ServicesNick      string
	MaxNickRetries    int
	KeepaliveInterval time.Duration

	// StartTime is when the process started, for !uptime.
	StartTime time.Time
	Now       func() time.Time

	// OnJoined is called the first time we join the channel.
	OnJoined func()
}

// Client is a single connection to the server, from registration until
// the stream ends.
type Client struct {
	session   *Session
	conn      IRCConn
	socket    *Socket
	logger    *logger.Manager
	commands  *CommandRegistry
	ctcp      *CTCPHandler
	rand      RandSource
	keepalive *Keepalive

	realname       string
	servicesNick   string
	maxNickRetries int
	nickRetries    int // only touched by the read loop

	state atomic.Uint32

	startTime time.Time
	now       func() time.Time
	onJoined  func()
}

// NewClient returns a client for an already established connection.
func NewClient(config ClientConfig) *Client {
	client := &Client{
		session:        config.Session,
		conn:           config.Conn,
		socket:         NewSocket(config.Conn, config.Logger),
		logger:         config.Logger,
		commands:       config.Commands,
		rand:           config.Rand,
		realname:       config.Realname,
		servicesNick:   config.ServicesNick,
		maxNickRetries: config.MaxNickRetries,
		startTime:      config.StartTime,
		now:            config.Now,
		onJoined:       config.OnJoined,
	}
	if client.commands == nil {
		client.commands = NewCommandRegistry(DefaultCommandRules()...)
	}
	if client.rand == nil {
		client.rand = utils.NewTimeSeededRand()
	}
	if client.realname == "" {
		client.realname = client.session.Ident
	}
	if client.servicesNick == "" {
		client.servicesNick = defaultServicesNick
	}
	if client.now == nil {
		client.now = time.Now
	}
	if client.startTime.IsZero() {
		client.startTime = client.now()
	}
	client.ctcp = NewCTCPHandler(Ver, client.now)
	client.keepalive = NewKeepalive(config.KeepaliveInterval, client.sendKeepalive)
	client.setState(StateConnecting)
	return client
}

// State returns the current registration state.
func (client *Client) State() RegistrationState {
	return RegistrationState(client.state.Load())
}

func (client *Client) setState(state RegistrationState) {
	client.state.Store(uint32(state))
	client.logger.Debug("registration", "State is now", state.String())
}

// Run registers with the server, then reads and handles lines until the
// stream ends, a fatal error occurs, or ctx is cancelled. The keepalive runs
// alongside the read loop and both are stopped before Run returns. A clean
// end of stream and cancellation through ctx both return nil.
func (client *Client) Run(ctx context.Context) (err error) {
	defer client.socket.Close()

	if err = client.register(); err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() (err error) {
		defer client.handlePanic(&err)
		return client.keepalive.Run(groupCtx)
	})
	group.Go(func() (err error) {
		defer client.handlePanic(&err)
		err = client.readLoop()
		if err == nil {
			// stop the keepalive
			err = errStreamEnded
		}
		return
	})
	group.Go(func() error {
		// unblocks a pending read
		<-groupCtx.Done()
		client.socket.Close()
		return nil
	})

	err = group.Wait()
	switch {
	case errors.Is(err, errStreamEnded):
		client.logger.Info("connect", "Server closed the connection")
		return nil
	case ctx.Err() != nil:
		client.logger.Info("connect", "Disconnecting")
		return nil
	default:
		client.logger.Error("connect", "Connection failed:", err.Error())
		return err
	}
}

// register sends USER and NICK, then identifies to services.
func (client *Client) register() error {
	client.setState(StateRegistering)
	client.logger.Info("registration", "Registering as", client.session.Nick())
	if err := client.send(makeText("USER", client.session.Ident, "0", "*", client.realname)); err != nil {
		return err
	}
	if err := client.send(makeCommand("NICK", client.session.Nick())); err != nil {
		return err
	}
	return client.identify()
}

// identify sends our credentials to services, if we have any.
func (client *Client) identify() error {
	if !client.session.HasPassword() {
		return nil
	}
	client.logger.Info("registration", "Identifying to", client.servicesNick, "as", client.session.Username)
	return client.send(makeText("PRIVMSG", client.servicesNick, fmt.Sprintf("IDENTIFY %s %s", client.session.Username, client.session.Password)))
}

// joinChannel joins the configured channel once the server has accepted us.
// The server may repeat the end of the MOTD, e.g. after an explicit MOTD
// request; we send JOIN again, which is harmless.
func (client *Client) joinChannel() error {
	alreadyJoined := client.State() == StateJoined
	client.setState(StateRegistered)
	client.setState(StateJoining)
	client.logger.Info("registration", "Joining", client.session.Channel)
	if err := client.send(makeCommand("JOIN", client.session.Channel)); err != nil {
		return err
	}
	client.setState(StateJoined)
	if !alreadyJoined && client.onJoined != nil {
		client.onJoined()
	}
	return nil
}

// readLoop handles lines in the order they arrive, one at a time. It returns
// nil at end of stream.
func (client *Client) readLoop() error {
	for {
		line, err := client.conn.ReadLine()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return &ConnectionError{Op: "read", Err: err}
		}
		if len(line) == 0 {
			continue
		}

		if client.logger.IsLoggingRawIO() {
			client.logger.Debug(logger.TypeRecv, string(line))
		}

		msg, err := ParseLine(string(line))
		if err != nil {
			client.logger.Debug("internal", err.Error())
			continue
		}
		if err := client.handleMessage(msg); err != nil {
			return err
		}
	}
}

func (client *Client) sendKeepalive() error {
	client.logger.Debug("keepalive", "Sending PING")
	return client.send(makeText("PING", client.session.Nick()))
}

func (client *Client) send(msg ircmsg.Message) error {
	return client.socket.Send(msg)
}

// uptime is how long the process has been running.
func (client *Client) uptime() time.Duration {
	return client.now().Sub(client.startTime)
}
