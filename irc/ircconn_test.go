// Copyright (c) 2020 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// released under the MIT license

package irc

import (
	"bytes"
	"io"
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"time"
)

// mockConn is a fake io.ReadWriteCloser that yields len(counts) lines,
// each consisting of counts[i] 'a' characters and a terminating '\n'
type mockConn struct {
	counts  []int
	written bytes.Buffer
}

func (c *mockConn) Read(b []byte) (n int, err error) {
	for len(b) > 0 {
		if len(c.counts) == 0 {
			return n, io.EOF
		}
		if c.counts[0] == 0 {
			b[0] = '\n'
			c.counts = c.counts[1:]
			b = b[1:]
			n += 1
			continue
		}
		size := min(c.counts[0], len(b))
		for i := 0; i < size; i++ {
			b[i] = 'a'
		}
		c.counts[0] -= size
		b = b[size:]
		n += size
	}
	return n, nil
}

func (c *mockConn) Write(b []byte) (n int, err error) {
	return c.written.Write(b)
}

func (c *mockConn) Close() error {
	c.counts = nil
	return nil
}

func newMockConn(counts []int) *mockConn {
	cpCounts := make([]int, len(counts))
	copy(cpCounts, counts)
	return &mockConn{
		counts: cpCounts,
	}
}

const (
	maxMockReaderLen     = 100
	mockReaderReadQ      = 8192
	maxMockReaderLineLen = 4096 + 511
)

// construct a mock reader with some number of \n-terminated lines,
// verify that IRCStreamConn can read and split them as expected
func doLineReaderTest(counts []int, t *testing.T) {
	c := newMockConn(counts)
	r := NewIRCStreamConn(c, mockReaderReadQ)
	var readCounts []int
	for {
		line, err := r.ReadLine()
		if err == nil {
			readCounts = append(readCounts, len(line))
		} else if err == io.EOF {
			break
		} else {
			t.Fatal(err)
		}
	}

	if !reflect.DeepEqual(counts, readCounts) {
		t.Errorf("expected %#v, got %#v", counts, readCounts)
	}
}

func TestLineReader(t *testing.T) {
	counts := []int{44, 428, 3, 0, 200, 2000, 0, 4044, 33, 3, 2, 1, 0, 1, 2, 3, 48, 555}
	doLineReaderTest(counts, t)

	// fuzz
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := 0; i < 1000; i++ {
		countsLen := r.Intn(maxMockReaderLen) + 1
		counts := make([]int, countsLen)
		for i := 0; i < countsLen; i++ {
			counts[i] = r.Intn(maxMockReaderLineLen)
		}
		doLineReaderTest(counts, t)
	}
}

func TestLineReaderReadQ(t *testing.T) {
	c := newMockConn([]int{10, 600})
	r := NewIRCStreamConn(c, 512)

	line, err := r.ReadLine()
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(len(line), 10, t)

	_, err = r.ReadLine()
	assertEqual(err, errReadQ, t)
}

type stringConn struct {
	*strings.Reader
}

func (s stringConn) Write(b []byte) (int, error) { return len(b), nil }
func (s stringConn) Close() error                { return nil }

func TestLineReaderLineEndings(t *testing.T) {
	input := "PING :irc.example.com\r\n:alice!u@h PRIVMSG #ircrobot :hi\n\r\nNOTICE * :last"
	r := NewIRCStreamConn(stringConn{strings.NewReader(input)}, 0)

	var lines []string
	for {
		line, err := r.ReadLine()
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatal(err)
		}
		lines = append(lines, string(line))
	}

	assertEqual(lines, []string{
		"PING :irc.example.com",
		":alice!u@h PRIVMSG #ircrobot :hi",
		"",
		"NOTICE * :last",
	}, t)
}

func TestStreamConnWrite(t *testing.T) {
	c := newMockConn(nil)
	r := NewIRCStreamConn(c, 0)
	if err := r.Write([]byte("PONG :token\r\n")); err != nil {
		t.Fatal(err)
	}
	assertEqual(c.written.String(), "PONG :token\r\n", t)
}
