// Copyright (c) 2020 Shivaram Lingamneni
// released under the MIT license

package irc

import (
	"errors"
	"testing"
	"time"

	"github.com/ergochat/ircrobot/irc/logger"
)

const minimalConfig = `
server:
    host: irc.example.com
    tls: true
identity:
    nickname: both
    username: both
    ident: neither
channel: "#ircrobot"
`

func TestEnvironmentOverrides(t *testing.T) {
	var config Config
	config.Server.Host = "irc.example.com"
	config.Identity.Nickname = "both"
	config.Channel = "#ircrobot"
	env := []string{
		`USER=shivaram`,       // unrelated var
		`IRCROBOT_USER=robot`, // this should be ignored as well
		`IRCROBOT__IDENTITY__PASSWORD=hunter2`,
		`IRCROBOT__IDENTITY__MAX_NICK_RETRIES=3`,
		`IRCROBOT__SERVER__TLS_INSECURE_SKIP_VERIFY=true`,
		`IRCROBOT__CHANNEL="#other"`,
		`IRCROBOT__KEEPALIVE__INTERVAL=10s`,
		`IRCROBOT__LOGGING=[{"method": "stdout", "type": "*", "level": "debug"}]`,
	}
	for _, envPair := range env {
		_, _, err := mungeFromEnvironment(&config, envPair)
		if err != nil {
			t.Errorf("couldn't apply override `%s`: %v", envPair, err)
		}
	}

	assertEqual(config.Identity.Password, "hunter2", t)
	assertEqual(config.Identity.MaxNickRetries, 3, t)
	assertEqual(config.Server.TLSInsecureSkipVerify, true, t)
	assertEqual(config.Channel, "#other", t)
	assertEqual(config.Keepalive.IntervalString, "10s", t)
	assertEqual(config.Logging, []logger.LoggingConfig{{Method: "stdout", TypeString: "*", LevelString: "debug"}}, t)

	// untouched
	assertEqual(config.Server.Host, "irc.example.com", t)
	assertEqual(config.Identity.Nickname, "both", t)
}

func TestEnvironmentOverrideErrors(t *testing.T) {
	var config Config

	invalidEnvs := []string{
		`IRCROBOT__=asdf`,
		`IRCROBOT__SERVER__=asdf`,
		`IRCROBOT__SERVER____=asdf`,
		`IRCROBOT__NONEXISTENT_KEY=1`,
		`IRCROBOT__SERVER__NONEXISTENT_KEY=1`,
		// invalid yaml:
		`IRCROBOT__IDENTITY__NICKNAME="`,
		// invalid type:
		`IRCROBOT__IDENTITY__MAX_NICK_RETRIES=asdf`,
		`IRCROBOT__SERVER__PORT=[]`,
		// index into non-struct:
		`IRCROBOT__CHANNEL__NAME=1`,
		// computed field:
		`IRCROBOT__SERVER__MAXREADQBYTES=1`,
	}

	for _, env := range invalidEnvs {
		success, _, err := mungeFromEnvironment(&config, env)
		if err == nil || success {
			t.Errorf("accepted invalid env override `%s`", env)
		}
	}
}

func TestConfigDefaults(t *testing.T) {
	config, err := loadConfigData([]byte(minimalConfig), "ircrobot.yaml", nil)
	if err != nil {
		t.Fatal(err)
	}

	assertEqual(config.Filename, "ircrobot.yaml", t)
	assertEqual(config.Server.Port, 6697, t)
	assertEqual(config.Server.MaxReadQBytes, 16384, t)
	assertEqual(config.Server.DialTimeout, DefaultDialTimeout, t)
	assertEqual(config.Identity.Realname, "neither", t)
	assertEqual(config.Identity.ServicesNick, "NickServ", t)
	assertEqual(config.Identity.MaxNickRetries, 0, t)
	assertEqual(config.Keepalive.Interval, 30*time.Second, t)
	assertEqual(len(config.Logging), 1, t)
	assertEqual(config.Logging[0].MethodStderr, true, t)
	assertEqual(config.Logging[0].Level, logger.LogInfo, t)
	assertEqual(config.Logging[0].ExcludedTypes, []string{"recv", "send"}, t)

	plaintext, err := loadConfigData([]byte(minimalConfig+"keepalive:\n    interval: 2m\n"), "", []string{"IRCROBOT__SERVER__TLS=false"})
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(plaintext.Server.Port, 6667, t)
	assertEqual(plaintext.Keepalive.Interval, 2*time.Minute, t)
}

func TestConfigErrors(t *testing.T) {
	type configTest struct {
		env      string
		expected error
	}
	testCases := []configTest{
		{`IRCROBOT__SERVER__HOST=""`, ErrServerHostMissing},
		{`IRCROBOT__SERVER__PORT=70000`, ErrPortOutOfRange},
		{`IRCROBOT__IDENTITY__NICKNAME=""`, ErrNicknameMissing},
		{`IRCROBOT__IDENTITY__USERNAME=""`, ErrUsernameMissing},
		{`IRCROBOT__IDENTITY__IDENT=""`, ErrIdentMissing},
		{`IRCROBOT__IDENTITY__MAX_NICK_RETRIES=-1`, ErrNegativeNickRetries},
		{`IRCROBOT__CHANNEL=""`, ErrChannelMissing},
		{`IRCROBOT__KEEPALIVE__INTERVAL=500ms`, ErrKeepaliveTooShort},
		{`IRCROBOT__LOGGING=[{"method": "file", "type": "*", "level": "info"}]`, logger.ErrFilenameMissing},
		{`IRCROBOT__SERVER__TLS_CERT=client.crt`, ErrCertKeyMismatch},
		{`IRCROBOT__SERVER__TLS_KEY=client.key`, ErrCertKeyMismatch},
	}
	for _, tt := range testCases {
		_, err := loadConfigData([]byte(minimalConfig), "", []string{tt.env})
		if !errors.Is(err, tt.expected) {
			t.Errorf("with %s: expected %v, got %v", tt.env, tt.expected, err)
		}
	}

	// these are reported with context rather than as sentinels
	for _, env := range []string{
		`IRCROBOT__IDENTITY__NICKNAME="bad nick"`,
		`IRCROBOT__CHANNEL=ircrobot`,
		`IRCROBOT__SERVER__MAX_READQ=lots`,
		`IRCROBOT__SERVER__DIAL_TIMEOUT=soon`,
		`IRCROBOT__KEEPALIVE__INTERVAL=often`,
	} {
		if _, err := loadConfigData([]byte(minimalConfig), "", []string{env}); err == nil {
			t.Errorf("accepted invalid config with %s", env)
		}
	}
}

func TestConfigInvalidYAML(t *testing.T) {
	if _, err := loadConfigData([]byte("server: [unterminated"), "", nil); err == nil {
		t.Errorf("accepted invalid YAML")
	}
}
