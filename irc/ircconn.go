// Copyright (c) 2020 Shivaram Lingamneni
// released under the MIT license

package irc

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/gorilla/websocket"
)

const (
	// DefaultMaxReadQ is the longest line we accept from the server.
	DefaultMaxReadQ = 16384
)

var (
	crlf = []byte{'\r', '\n'}
)

// IRCConn abstracts away the distinction between a regular
// net.Conn (which includes both raw TCP and TLS) and a websocket.
// it doesn't expose Read and Write because websockets are message-oriented,
// not stream-oriented.
type IRCConn interface {
	Write([]byte) error
	ReadLine() (line []byte, err error)

	Close() error
}

// IRCStreamConn is an IRCConn over a regular stream connection.
type IRCStreamConn struct {
	conn     io.ReadWriteCloser
	reader   *bufio.Reader
	maxReadQ int
}

func NewIRCStreamConn(conn io.ReadWriteCloser, maxReadQ int) *IRCStreamConn {
	if maxReadQ <= 0 {
		maxReadQ = DefaultMaxReadQ
	}
	return &IRCStreamConn{
		conn:     conn,
		maxReadQ: maxReadQ,
	}
}

func (cc *IRCStreamConn) Write(buf []byte) (err error) {
	_, err = cc.conn.Write(buf)
	return
}

// ReadLine returns the next line without its line ending, or io.EOF once
// the server has closed the stream.
func (cc *IRCStreamConn) ReadLine() (line []byte, err error) {
	if cc.reader == nil {
		cc.reader = bufio.NewReaderSize(cc.conn, cc.maxReadQ)
	}

	var isPrefix bool
	line, isPrefix, err = cc.reader.ReadLine()
	if isPrefix {
		return nil, errReadQ
	}
	line = bytes.TrimSuffix(line, crlf)
	return
}

func (cc *IRCStreamConn) Close() (err error) {
	return cc.conn.Close()
}

// IRCWSConn is an IRCConn over a websocket.
type IRCWSConn struct {
	conn *websocket.Conn
}

func NewIRCWSConn(conn *websocket.Conn) IRCWSConn {
	return IRCWSConn{conn: conn}
}

func (wc IRCWSConn) Write(buf []byte) (err error) {
	buf = bytes.TrimSuffix(buf, crlf)
	// there's not much we can do about this;
	// silently drop the message
	if !utf8.Valid(buf) {
		return nil
	}
	return wc.conn.WriteMessage(websocket.TextMessage, buf)
}

func (wc IRCWSConn) ReadLine() (line []byte, err error) {
	for {
		var messageType int
		messageType, line, err = wc.conn.ReadMessage()
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil, io.EOF
		}
		// on empty message or non-text message, try again, block if necessary
		if err != nil || (messageType == websocket.TextMessage && len(line) != 0) {
			line = bytes.TrimSuffix(line, crlf)
			return
		}
	}
}

func (wc IRCWSConn) Close() (err error) {
	return wc.conn.Close()
}
