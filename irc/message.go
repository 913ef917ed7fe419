// Copyright (c) 2021 Shivaram Lingamneni
// released under the MIT license

package irc

import (
	"strings"

	"github.com/ergochat/irc-go/ircmsg"
)

// IncomingMessage is a single line received from the server, split into its
// parts. The trailing parameter is kept apart from the middle parameters.
type IncomingMessage struct {
	Prefix      string
	Command     string
	Params      []string
	Trailing    string
	HasTrailing bool
}

// slice off any amount of ' ' from the front of the string
func trimInitialSpaces(str string) string {
	var i int
	for i = 0; i < len(str) && str[i] == ' '; i++ {
	}
	return str[i:]
}

// ParseLine parses a raw protocol line, without its line ending.
// A line without a command token yields a *ProtocolParseError.
func ParseLine(line string) (msg IncomingMessage, err error) {
	rest := trimInitialSpaces(line)
	if len(rest) == 0 {
		return msg, &ProtocolParseError{Line: line, Err: errCommandMissing}
	}

	// prefix
	if rest[0] == ':' {
		prefixEnd := strings.IndexByte(rest, ' ')
		if prefixEnd == -1 {
			return msg, &ProtocolParseError{Line: line, Err: errPrefixOnly}
		}
		msg.Prefix = rest[1:prefixEnd]
		rest = trimInitialSpaces(rest[prefixEnd+1:])
	}

	// command
	commandEnd := strings.IndexByte(rest, ' ')
	if commandEnd == -1 {
		commandEnd = len(rest)
	}
	msg.Command = rest[:commandEnd]
	if len(msg.Command) == 0 {
		return msg, &ProtocolParseError{Line: line, Err: errCommandMissing}
	}
	rest = rest[commandEnd:]

	for {
		rest = trimInitialSpaces(rest)
		if len(rest) == 0 {
			break
		}
		if rest[0] == ':' {
			msg.Trailing = rest[1:]
			msg.HasTrailing = true
			break
		}
		paramEnd := strings.IndexByte(rest, ' ')
		if paramEnd == -1 {
			msg.Params = append(msg.Params, rest)
			break
		}
		msg.Params = append(msg.Params, rest[:paramEnd])
		rest = rest[paramEnd+1:]
	}

	return msg, nil
}

// Nick returns the nickname (or server name) part of the prefix.
func (msg *IncomingMessage) Nick() string {
	nuh, err := ircmsg.ParseNUH(msg.Prefix)
	if err != nil {
		return ""
	}
	return nuh.Name
}

// ParamCount counts the middle parameters plus the trailing one, if any.
func (msg *IncomingMessage) ParamCount() int {
	if msg.HasTrailing {
		return len(msg.Params) + 1
	}
	return len(msg.Params)
}

// Param returns the i'th parameter, counting the trailing parameter last.
func (msg *IncomingMessage) Param(i int) string {
	if i < len(msg.Params) {
		return msg.Params[i]
	}
	if i == len(msg.Params) && msg.HasTrailing {
		return msg.Trailing
	}
	return ""
}

// Last returns the final parameter, which carries the text of chat messages.
func (msg *IncomingMessage) Last() string {
	count := msg.ParamCount()
	if count == 0 {
		return ""
	}
	return msg.Param(count - 1)
}

// Line serializes the message back into a protocol line, without the line ending.
func (msg *IncomingMessage) Line() (string, error) {
	params := msg.Params
	if msg.HasTrailing {
		params = append(params[:len(params):len(params)], msg.Trailing)
	}
	out := ircmsg.MakeMessage(nil, msg.Prefix, msg.Command, params...)
	if msg.HasTrailing {
		out.ForceTrailing()
	}
	line, err := out.Line()
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(line, "\r\n"), nil
}
