// Copyright (c) 2020 Shivaram Lingamneni
// released under the MIT license

package irc

import (
	"net"
	"strconv"
	"sync"
)

// nickSeparator is appended to the nickname each time the server reports a collision.
const nickSeparator = "_"

// Session holds our identity on the network. Everything except the current
// nickname is fixed for the lifetime of the process.
type Session struct {
	Server   string
	Port     int
	UseTLS   bool
	Ident    string
	Username string
	Password string
	Channel  string

	stateMutex sync.RWMutex // tier 1
	nick       string
}

// NewSession returns the session described by the given config.
func NewSession(config *Config) *Session {
	return &Session{
		Server:   config.Server.Host,
		Port:     config.Server.Port,
		UseTLS:   config.Server.TLS,
		Ident:    config.Identity.Ident,
		Username: config.Identity.Username,
		Password: config.Identity.Password,
		Channel:  config.Channel,
		nick:     config.Identity.Nickname,
	}
}

// Address returns the host:port pair to dial.
func (session *Session) Address() string {
	return net.JoinHostPort(session.Server, strconv.Itoa(session.Port))
}

// Nick returns the nickname we currently hold or are requesting.
func (session *Session) Nick() string {
	session.stateMutex.RLock()
	defer session.stateMutex.RUnlock()
	return session.nick
}

// IsNick reports whether name refers to us.
func (session *Session) IsNick(name string) bool {
	return sameName(name, session.Nick())
}

// HasPassword reports whether we should identify to services.
func (session *Session) HasPassword() bool {
	return session.Password != ""
}

// bumpNick appends one separator to the nickname and returns the result.
func (session *Session) bumpNick() string {
	session.stateMutex.Lock()
	defer session.stateMutex.Unlock()
	session.nick += nickSeparator
	return session.nick
}
