// Copyright (c) 2020 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// released under the MIT license

package irc

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// DefaultDialTimeout bounds the TCP connect plus the TLS or websocket handshake.
	DefaultDialTimeout = 30 * time.Second
	// ircv3 websocket subprotocol for plain UTF-8 text frames
	wsSubprotocol = "text.ircv3.net"
)

// Dial connects to the configured server and returns the line-oriented connection.
// Network failures are *ConnectionError and are not retried; an unusable
// client certificate is reported as ErrInvalidCertKeyPair.
func Dial(ctx context.Context, config *Config) (IRCConn, error) {
	if config.Server.WebSocket != "" {
		return dialWebSocket(ctx, config)
	}

	dialer := &net.Dialer{
		Timeout:   config.Server.DialTimeout,
		KeepAlive: time.Second * 10,
	}
	address := net.JoinHostPort(config.Server.Host, strconv.Itoa(config.Server.Port))

	if !config.Server.TLS {
		conn, err := dialer.DialContext(ctx, "tcp", address)
		if err != nil {
			return nil, &ConnectionError{Op: "dial", Err: err}
		}
		return NewIRCStreamConn(conn, config.Server.MaxReadQBytes), nil
	}

	tlsConf, err := tlsConfig(config)
	if err != nil {
		return nil, err
	}
	// the handshake happens inside DialContext
	tlsDialer := &tls.Dialer{
		NetDialer: dialer,
		Config:    tlsConf,
	}
	conn, err := tlsDialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, &ConnectionError{Op: "tls dial", Err: err}
	}
	return NewIRCStreamConn(conn, config.Server.MaxReadQBytes), nil
}

// tlsConfig returns the client TLS settings, including the client certificate
// that identifies us to services, if one is configured.
func tlsConfig(config *Config) (*tls.Config, error) {
	tlsConf := &tls.Config{
		ServerName:         config.Server.Host,
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: config.Server.TLSInsecureSkipVerify,
	}
	if config.Server.TLSCert != "" {
		cert, err := tls.LoadX509KeyPair(config.Server.TLSCert, config.Server.TLSKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCertKeyPair, err)
		}
		tlsConf.Certificates = []tls.Certificate{cert}
	}
	return tlsConf, nil
}

func dialWebSocket(ctx context.Context, config *Config) (IRCConn, error) {
	wsTLSConfig, err := tlsConfig(config)
	if err != nil {
		return nil, err
	}
	// the server name comes from the URL
	wsTLSConfig.ServerName = ""
	dialer := websocket.Dialer{
		HandshakeTimeout: config.Server.DialTimeout,
		Subprotocols:     []string{wsSubprotocol},
		TLSClientConfig:  wsTLSConfig,
	}
	conn, _, err := dialer.DialContext(ctx, config.Server.WebSocket, nil)
	if err != nil {
		return nil, &ConnectionError{Op: "websocket dial", Err: err}
	}
	conn.SetReadLimit(int64(config.Server.MaxReadQBytes))
	return NewIRCWSConn(conn), nil
}
