// Copyright (c) 2020 Shivaram Lingamneni
// released under the MIT license

package irc

import (
	"strings"
	"sync"
	"testing"
)

func testSession() *Session {
	config, err := loadConfigData([]byte(minimalConfig), "", []string{"IRCROBOT__IDENTITY__PASSWORD=hunter2"})
	if err != nil {
		panic(err)
	}
	return NewSession(config)
}

func TestNewSession(t *testing.T) {
	session := testSession()
	assertEqual(session.Nick(), "both", t)
	assertEqual(session.Address(), "irc.example.com:6697", t)
	assertEqual(session.UseTLS, true, t)
	assertEqual(session.Ident, "neither", t)
	assertEqual(session.Username, "both", t)
	assertEqual(session.Channel, "#ircrobot", t)
	assertEqual(session.HasPassword(), true, t)

	session.Password = ""
	assertEqual(session.HasPassword(), false, t)

	session.Server = "::1"
	assertEqual(session.Address(), "[::1]:6697", t)
}

func TestBumpNick(t *testing.T) {
	for n := 0; n < 5; n++ {
		session := testSession()
		for i := 0; i < n; i++ {
			session.bumpNick()
		}
		assertEqual(session.Nick(), "both"+strings.Repeat("_", n), t)
	}
}

func TestIsNick(t *testing.T) {
	session := testSession()
	assertEqual(session.IsNick("both"), true, t)
	assertEqual(session.IsNick("BOTH"), true, t)
	assertEqual(session.IsNick("#ircrobot"), false, t)

	session.bumpNick()
	assertEqual(session.IsNick("both"), false, t)
	assertEqual(session.IsNick("both_"), true, t)
}

func TestNickConcurrentReads(t *testing.T) {
	session := testSession()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			session.bumpNick()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			if !strings.HasPrefix(session.Nick(), "both") {
				t.Errorf("torn read of nickname: %s", session.Nick())
			}
		}
	}()
	wg.Wait()
	assertEqual(session.Nick(), "both"+strings.Repeat("_", 100), t)
}
