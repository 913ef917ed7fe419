// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2018 Daniel Oaks <daniel@danieloaks.net>
// Copyright (c) 2017-2018 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// released under the MIT license

package irc

import (
	"fmt"
	"strings"
)

// messageHandler reacts to one kind of message from the server.
type messageHandler struct {
	handler   func(client *Client, msg IncomingMessage) error
	minParams int
}

// messageHandlers holds everything we react to; other commands and numerics are ignored.
var messageHandlers map[string]messageHandler

func init() {
	messageHandlers = map[string]messageHandler{
		"PING": {
			handler: pingHandler,
		},
		"PRIVMSG": {
			handler:   privmsgHandler,
			minParams: 2,
		},
		ERR_NICKNAMEINUSE: {
			handler: nickInUseHandler,
		},
		ERR_NOMOTD: {
			handler: endOfMOTDHandler,
		},
		RPL_ENDOFMOTD: {
			handler: endOfMOTDHandler,
		},
	}
}

// handleMessage routes one parsed line. Only errors that must end the
// connection are returned.
func (client *Client) handleMessage(msg IncomingMessage) error {
	cmd, exists := messageHandlers[strings.ToUpper(msg.Command)]
	if !exists {
		return nil
	}
	if msg.ParamCount() < cmd.minParams {
		line, _ := msg.Line()
		client.logger.Debug("internal", (&ProtocolParseError{Line: line, Err: errNeedMoreParams}).Error())
		return nil
	}
	return cmd.handler(client, msg)
}

// PING [<token>]
func pingHandler(client *Client, msg IncomingMessage) error {
	if msg.ParamCount() == 0 {
		return client.send(makeCommand("PONG"))
	}
	return client.send(makeText("PONG", msg.Param(0)))
}

// 433 <nick> <attempted nick> :Nickname is already in use
func nickInUseHandler(client *Client, msg IncomingMessage) error {
	if client.State() >= StateRegistered {
		return nil
	}
	if client.maxNickRetries != 0 && client.maxNickRetries <= client.nickRetries {
		client.logger.Error("registration", "Nickname is in use and no retries are left", client.session.Nick())
		return ErrNickRetriesExhausted
	}
	client.nickRetries++

	nick := client.session.bumpNick()
	client.logger.Info("registration", "Nickname in use, retrying as", nick)
	if err := client.send(makeCommand("NICK", nick)); err != nil {
		return err
	}
	return client.identify()
}

// 376 <nick> :End of /MOTD command
// 422 <nick> :MOTD File is missing
func endOfMOTDHandler(client *Client, msg IncomingMessage) error {
	return client.joinChannel()
}

// PRIVMSG <target> <text>
func privmsgHandler(client *Client, msg IncomingMessage) error {
	sender := msg.Nick()
	if sender == "" {
		client.logger.Debug("internal", errNoSender.Error(), msg.Prefix)
		return nil
	}
	receiver := msg.Param(0)
	text := msg.Last()

	// messages to the channel are answered in the channel,
	// private messages are answered privately
	replyTo := receiver
	if client.session.IsNick(receiver) {
		replyTo = sender
	}

	if query, ok := ParseCTCP(text); ok {
		if reply, ok := client.ctcp.Reply(query); ok {
			client.logger.Debug("ctcp", fmt.Sprintf("Answering CTCP %s from %s", strings.ToUpper(query.Command), sender))
			if err := client.send(makeText("NOTICE", sender, reply)); err != nil {
				return err
			}
		}
	}

	ctx := NewCommandContext(text, sender, replyTo, client.session.Nick(), client.uptime(), client.rand)
	replies, errs := client.commands.Evaluate(ctx)
	for _, err := range errs {
		client.logger.Warning("commands", err.Error())
	}
	for _, reply := range replies {
		if err := client.send(makeText("PRIVMSG", replyTo, reply)); err != nil {
			return err
		}
	}
	return nil
}
