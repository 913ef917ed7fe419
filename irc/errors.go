// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"errors"
	"fmt"
)

// Runtime Errors
var (
	ErrNickRetriesExhausted = errors.New("Nickname is in use and no retries are left")
	ErrProtocolParse        = errors.New("Line could not be parsed")
	errCommandMissing       = errors.New("Line has no command")
	errPrefixOnly           = errors.New("Line has a prefix but no command")
	errNeedMoreParams       = errors.New("Not enough parameters")
	errNoSender             = errors.New("Message has no usable sender")
)

// Casefolding Errors
var (
	errCouldNotStabilize = errors.New("Could not stabilize string while casefolding")
	errStringIsEmpty     = errors.New("String is empty")
	errInvalidCharacter  = errors.New("Invalid character")
)

// Socket Errors
var (
	errReadQ        = errors.New("ReadQ Exceeded")
	errSocketClosed = errors.New("Socket is closed")
	errStreamEnded  = errors.New("Stream ended")
)

// Config Errors
var (
	ErrServerHostMissing   = errors.New("Server host missing")
	ErrPortOutOfRange      = errors.New("Server port must be between 1 and 65535")
	ErrNicknameMissing     = errors.New("Nickname missing")
	ErrUsernameMissing     = errors.New("Username missing")
	ErrIdentMissing        = errors.New("Ident missing")
	ErrChannelMissing      = errors.New("Channel missing")
	ErrKeepaliveTooShort   = errors.New("Keepalive interval must be at least one second")
	ErrNegativeNickRetries = errors.New("max-nick-retries cannot be negative")
	ErrCertKeyMismatch     = errors.New("tls-cert and tls-key must be given together")
	ErrInvalidCertKeyPair  = errors.New("tls cert+key: invalid pair")
)

// ConnectionError is a transport-level failure: dialing, the TLS handshake,
// or reading from or writing to the stream. It is always fatal.
type ConnectionError struct {
	Op  string
	Err error
}

func (ce *ConnectionError) Error() string {
	return fmt.Sprintf("connection %s failed: %v", ce.Op, ce.Err)
}

func (ce *ConnectionError) Unwrap() error {
	return ce.Err
}

// ProtocolParseError reports a line that could not be parsed; the line is skipped.
type ProtocolParseError struct {
	Line string
	Err  error
}

func (pe *ProtocolParseError) Error() string {
	return fmt.Sprintf("could not parse line [%s]: %v", pe.Line, pe.Err)
}

func (pe *ProtocolParseError) Unwrap() error {
	return pe.Err
}

// Is lets errors.Is(err, ErrProtocolParse) match any parse failure.
func (pe *ProtocolParseError) Is(target error) bool {
	return target == ErrProtocolParse
}

// DispatchError reports a single chat command rule that failed;
// the remaining rules are still evaluated.
type DispatchError struct {
	Rule string
	Err  error
}

func (de *DispatchError) Error() string {
	return fmt.Sprintf("command rule %s failed: %v", de.Rule, de.Err)
}

func (de *DispatchError) Unwrap() error {
	return de.Err
}
