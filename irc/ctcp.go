// Copyright (c) 2020 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// released under the MIT license

package irc

import (
	"strings"
	"time"
)

const (
	// ctcpDelimiter frames a CTCP payload inside PRIVMSG or NOTICE text
	ctcpDelimiter = '\x01'
	// sortable UTC timestamp sent in TIME replies
	ctcpTimeFormat = "2006-01-02T15:04:05"
)

// CTCPMessage is a CTCP request extracted from chat text.
type CTCPMessage struct {
	Command     string
	Argument    string
	HasArgument bool
}

// ParseCTCP extracts a CTCP request from chat text that is wrapped in the
// delimiter byte at both ends.
func ParseCTCP(text string) (msg CTCPMessage, ok bool) {
	if len(text) < 2 || text[0] != ctcpDelimiter || text[len(text)-1] != ctcpDelimiter {
		return msg, false
	}
	payload := text[1 : len(text)-1]
	msg.Command, msg.Argument, msg.HasArgument = strings.Cut(payload, " ")
	return msg, true
}

// EncodeCTCP wraps a payload in the CTCP delimiter.
func EncodeCTCP(payload string) string {
	return string(ctcpDelimiter) + payload + string(ctcpDelimiter)
}

// IsAction reports whether text is a CTCP ACTION (/me) and returns what was done.
func IsAction(text string) (action string, ok bool) {
	msg, ok := ParseCTCP(text)
	if !ok || !strings.EqualFold(msg.Command, "ACTION") {
		return "", false
	}
	return msg.Argument, true
}

type ctcpResponder func(handler *CTCPHandler, msg CTCPMessage) string

type ctcpCommand struct {
	name    string
	respond ctcpResponder
}

// ctcpCommands is the ordered set of queries we answer; CLIENTINFO lists them in this order.
var ctcpCommands []ctcpCommand

func init() {
	ctcpCommands = []ctcpCommand{
		{"CLIENTINFO", ctcpClientInfo},
		{"VERSION", ctcpVersion},
		{"PING", ctcpPing},
		{"TIME", ctcpTime},
	}
}

// CTCPHandler answers CTCP queries. Replies go back to the sender as a
// NOTICE, never to the channel, so protocol chatter stays out of the
// conversation. ACTION is the one CTCP that is meant to be seen by everyone;
// we don't answer it here.
type CTCPHandler struct {
	version string
	now     func() time.Time
}

func NewCTCPHandler(version string, now func() time.Time) *CTCPHandler {
	if now == nil {
		now = time.Now
	}
	return &CTCPHandler{
		version: version,
		now:     now,
	}
}

// Reply returns the framed reply to msg, or ok == false for queries we don't support.
func (handler *CTCPHandler) Reply(msg CTCPMessage) (reply string, ok bool) {
	for _, command := range ctcpCommands {
		if strings.EqualFold(msg.Command, command.name) {
			return EncodeCTCP(command.respond(handler, msg)), true
		}
	}
	return "", false
}

func ctcpClientInfo(handler *CTCPHandler, msg CTCPMessage) string {
	names := make([]string, 0, len(ctcpCommands)+1)
	names = append(names, "CLIENTINFO")
	for _, command := range ctcpCommands {
		names = append(names, command.name)
	}
	return strings.Join(names, " ")
}

func ctcpVersion(handler *CTCPHandler, msg CTCPMessage) string {
	return "VERSION " + handler.version
}

func ctcpPing(handler *CTCPHandler, msg CTCPMessage) string {
	if msg.HasArgument {
		return "PING " + msg.Argument
	}
	return "PING"
}

func ctcpTime(handler *CTCPHandler, msg CTCPMessage) string {
	return "TIME " + handler.now().UTC().Format(ctcpTimeFormat)
}
