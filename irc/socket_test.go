// Copyright (c) 2020 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// released under the MIT license

package irc

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"testing"
)

// byteConn writes one byte at a time, yielding in between, so that
// unsynchronized writers would interleave.
type byteConn struct {
	buf    bytes.Buffer
	err    error
	writes int
	closed bool
}

func (bc *byteConn) Write(line []byte) error {
	bc.writes++
	if bc.err != nil {
		return bc.err
	}
	for _, b := range line {
		bc.buf.WriteByte(b)
		runtime.Gosched()
	}
	return nil
}

func (bc *byteConn) ReadLine() ([]byte, error) {
	return nil, errors.New("not readable")
}

func (bc *byteConn) Close() error {
	bc.closed = true
	return nil
}

func TestSocketSerializesWriters(t *testing.T) {
	conn := new(byteConn)
	socket := NewSocket(conn, nil)

	const writers, perWriter = 8, 50
	expected := make(map[string]bool)
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		for i := 0; i < perWriter; i++ {
			expected[fmt.Sprintf("PRIVMSG #chan :writer %d line %d", w, i)] = true
		}
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				if err := socket.Send(makeText("PRIVMSG", "#chan", fmt.Sprintf("writer %d line %d", w, i))); err != nil {
					t.Error(err)
				}
			}
		}(w)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(conn.buf.String(), "\r\n"), "\r\n")
	assertEqual(len(lines), writers*perWriter, t)
	for _, line := range lines {
		if !expected[line] {
			t.Errorf("corrupted line: %q", line)
		}
		delete(expected, line)
	}
}

func TestSocketStickyWriteError(t *testing.T) {
	failure := errors.New("broken pipe")
	conn := &byteConn{err: failure}
	socket := NewSocket(conn, nil)

	err := socket.Send(makeCommand("NICK", "both"))
	var connErr *ConnectionError
	if !errors.As(err, &connErr) || connErr.Op != "write" || !errors.Is(err, failure) {
		t.Fatalf("unexpected error: %v", err)
	}
	assertEqual(socket.Send(makeCommand("NICK", "both_")), err, t)
	// the second Send never reached the connection
	assertEqual(conn.writes, 1, t)
}

func TestSocketClose(t *testing.T) {
	conn := new(byteConn)
	socket := NewSocket(conn, nil)

	socket.Close()
	socket.Close()
	assertEqual(conn.closed, true, t)
	assertEqual(socket.Send(makeCommand("JOIN", "#chan")), errSocketClosed, t)
	assertEqual(conn.writes, 0, t)
}

func TestMakeText(t *testing.T) {
	msg := makeText("PRIVMSG", "#chan", "one\r\ntwo")
	line, err := msg.Line()
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(line, "PRIVMSG #chan :one  two\r\n", t)

	// single words are still sent as trailing
	msg = makeText("PONG", "token")
	line, _ = msg.Line()
	assertEqual(line, "PONG :token\r\n", t)

	msg = makeText("PRIVMSG", "#chan", strings.Repeat("a", 600))
	line, _ = msg.Line()
	assertEqual(len(line), len("PRIVMSG #chan :\r\n")+maxTextLen, t)

	msg = makeCommand("JOIN", "#chan")
	line, _ = msg.Line()
	assertEqual(line, "JOIN #chan\r\n", t)
}

func TestMakeTextKeepsCTCPFraming(t *testing.T) {
	long := EncodeCTCP("PING " + strings.Repeat("x", 420))
	msg := makeText("NOTICE", "alice", long)
	line, err := msg.Line()
	if err != nil {
		t.Fatal(err)
	}
	text := strings.TrimSuffix(strings.TrimPrefix(line, "NOTICE alice :"), "\r\n")
	assertEqual(len(text), maxTextLen, t)
	assertEqual(text[0], byte('\x01'), t)
	assertEqual(text[len(text)-1], byte('\x01'), t)
	assertEqual(strings.HasPrefix(text, "\x01PING xxx"), true, t)

	// short CTCP text is untouched
	msg = makeText("PRIVMSG", "#chan", EncodeCTCP("ACTION waves too"))
	line, _ = msg.Line()
	assertEqual(line, "PRIVMSG #chan :\x01ACTION waves too\x01\r\n", t)
}
