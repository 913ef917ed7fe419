// Copyright (c) 2021 Shivaram Lingamneni
// released under the MIT license

package irc

import (
	"fmt"
	"runtime/debug"
)

// handlePanic turns a panic in one of the client's goroutines into an error,
// so that Run can shut the connection down instead of crashing the process.
// Because of the semantics of `recover`, it must be called directly
// from the routine on whose call stack the panic would occur, with `defer`,
// e.g. `defer client.handlePanic(&err)`
func (client *Client) handlePanic(errp *error) {
	if r := recover(); r != nil {
		client.logger.Error("internal", fmt.Sprintf("Panic encountered: %v\n%s", r, debug.Stack()))
		*errp = fmt.Errorf("panic: %v", r)
	}
}
