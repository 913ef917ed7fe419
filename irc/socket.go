// Copyright (c) 2020 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// released under the MIT license

package irc

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ergochat/irc-go/ircmsg"
	"github.com/ergochat/irc-go/ircutils"

	"github.com/ergochat/ircrobot/irc/logger"
)

const (
	// maxTextLen caps the human-readable text of outgoing chat lines, leaving
	// room in the 512-byte line for the command, the target and the CRLF.
	maxTextLen = 400
)

// Socket is the single output sink shared by the read loop, the keepalive
// and the chat handlers. Each line is serialized, written and flushed under
// one lock, so concurrent writers never interleave.
type Socket struct {
	sync.Mutex // tier 2

	conn      IRCConn
	logger    *logger.Manager
	err       error
	closed    atomic.Bool
	closeOnce sync.Once
}

func NewSocket(conn IRCConn, logger *logger.Manager) *Socket {
	return &Socket{
		conn:   conn,
		logger: logger,
	}
}

// Send serializes msg and writes it as a single line. Once a write has
// failed, every later Send returns the same error without touching the stream.
func (socket *Socket) Send(msg ircmsg.Message) error {
	line, err := msg.LineBytes()
	if err != nil {
		return err
	}

	socket.Lock()
	defer socket.Unlock()

	if socket.closed.Load() {
		return errSocketClosed
	}
	if socket.err != nil {
		return socket.err
	}
	if err := socket.conn.Write(line); err != nil {
		socket.err = &ConnectionError{Op: "write", Err: err}
		return socket.err
	}
	if socket.logger.IsLoggingRawIO() {
		socket.logger.Debug(logger.TypeSend, strings.TrimSuffix(string(line), "\r\n"))
	}
	return nil
}

// Close closes the underlying connection; only the first call has any effect.
// It doesn't take the write lock, so it can unblock a stalled writer.
func (socket *Socket) Close() (err error) {
	socket.closeOnce.Do(func() {
		socket.closed.Store(true)
		err = socket.conn.Close()
	})
	return
}

// makeText builds a message whose final parameter is human-readable text,
// always sent as a trailing parameter.
func makeText(command string, params ...string) ircmsg.Message {
	if len(params) != 0 {
		last := len(params) - 1
		params[last] = sanitizeText(params[last])
	}
	msg := ircmsg.MakeMessage(nil, "", command, params...)
	msg.ForceTrailing()
	return msg
}

// sanitizeText caps text at maxTextLen. A framed CTCP payload is cut inside
// its delimiters, so the closing one survives.
func sanitizeText(text string) string {
	if _, ok := ParseCTCP(text); ok {
		return EncodeCTCP(ircutils.SanitizeText(text[1:len(text)-1], maxTextLen-2))
	}
	return ircutils.SanitizeText(text, maxTextLen)
}

// makeCommand builds a message with no free-text parameter, e.g. NICK or JOIN.
func makeCommand(command string, params ...string) ircmsg.Message {
	return ircmsg.MakeMessage(nil, "", command, params...)
}
