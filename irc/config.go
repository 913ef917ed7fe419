// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"code.cloudfoundry.org/bytefmt"
	"gopkg.in/yaml.v2"

	"github.com/ergochat/ircrobot/irc/logger"
)

const (
	defaultPlaintextPort     = 6667
	defaultTLSPort           = 6697
	defaultServicesNick      = "NickServ"
	defaultMaxReadQ          = "16k"
	defaultKeepaliveInterval = 30 * time.Second

	// environment variables of the form IRCROBOT__IDENTITY__PASSWORD=hunter2
	// override single config values
	envPrefix = "IRCROBOT__"
)

// Config defines the overall configuration.
type Config struct {
	Server struct {
		Host                  string
		Port                  int
		TLS                   bool
		TLSInsecureSkipVerify bool          `yaml:"tls-insecure-skip-verify"`
		TLSCert               string        `yaml:"tls-cert"`
		TLSKey                string        `yaml:"tls-key"`
		WebSocket             string        `yaml:"websocket"`
		MaxReadQString        string        `yaml:"max-readq"`
		MaxReadQBytes         int           `yaml:"-"`
		DialTimeoutString     string        `yaml:"dial-timeout"`
		DialTimeout           time.Duration `yaml:"-"`
	}

	Identity struct {
		Nickname       string
		Username       string
		Ident          string
		Realname       string
		Password       string
		PasswordPrompt bool   `yaml:"password-prompt"`
		ServicesNick   string `yaml:"services-nick"`
		MaxNickRetries int    `yaml:"max-nick-retries"`
	}

	Channel string

	Keepalive struct {
		IntervalString string        `yaml:"interval"`
		Interval       time.Duration `yaml:"-"`
	}

	LockFile string `yaml:"lock-file"`

	Logging []logger.LoggingConfig

	Filename string `yaml:"-"`
}

// configPathError reports an environment override that could not be applied.
type configPathError struct {
	name     string
	desc     string
	fatalErr error
}

func (ce *configPathError) Error() string {
	if ce.fatalErr != nil {
		return fmt.Sprintf("Couldn't apply config override `%s`: %s: %v", ce.name, ce.desc, ce.fatalErr)
	}
	return fmt.Sprintf("Couldn't apply config override `%s`: %s", ce.name, ce.desc)
}

func yamlFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
	return strings.ToLower(name)
}

// mungeFromEnvironment applies a single environment variable to the config,
// if it is one of ours; the value is parsed as YAML.
func mungeFromEnvironment(config *Config, envPair string) (applied bool, name string, err error) {
	equalIdx := strings.IndexByte(envPair, '=')
	if equalIdx == -1 {
		return false, "", nil
	}
	name, value := envPair[:equalIdx], envPair[equalIdx+1:]
	if !strings.HasPrefix(name, envPrefix) {
		return false, "", nil
	}
	name = strings.TrimPrefix(name, envPrefix)
	pathComponents := strings.Split(name, "__")
	for i, pathComponent := range pathComponents {
		pathComponents[i] = strings.ToLower(strings.ReplaceAll(pathComponent, "_", "-"))
	}

	t := reflect.TypeOf(*config)
	v := reflect.ValueOf(config).Elem()
	for _, component := range pathComponents {
		if component == "" {
			return false, "", &configPathError{name, "invalid", nil}
		}
		if v.Kind() != reflect.Struct {
			return false, "", &configPathError{name, "index into non-struct", nil}
		}
		var nextField reflect.StructField
		success := false
		n := t.NumField()
		// preferentially get a field with an exact yaml tag match,
		// then fall back to case-insensitive comparison of field names
		for i := 0; i < n; i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			if yamlFieldName(field) == component {
				nextField = field
				success = true
				break
			}
		}
		if !success {
			for i := 0; i < n; i++ {
				field := t.Field(i)
				if field.IsExported() && yamlFieldName(field) != "-" && strings.ToLower(field.Name) == component {
					nextField = field
					success = true
					break
				}
			}
		}
		if !success {
			return false, "", &configPathError{name, fmt.Sprintf("couldn't resolve path component: `%s`", component), nil}
		}
		v = v.FieldByName(nextField.Name)
		// dereference pointer field if necessary, initialize new value if necessary
		if v.Kind() == reflect.Ptr {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		t = v.Type()
	}
	yamlErr := yaml.Unmarshal([]byte(value), v.Addr().Interface())
	if yamlErr != nil {
		return false, "", &configPathError{name, "couldn't deserialize YAML", yamlErr}
	}
	return true, name, nil
}

// LoadConfig loads the given YAML configuration file, applies environment
// overrides, then fills in defaults and validates the result.
func LoadConfig(filename string) (config *Config, err error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return loadConfigData(data, filename, os.Environ())
}

func loadConfigData(data []byte, filename string, environ []string) (config *Config, err error) {
	config = new(Config)
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, err
	}

	for _, envPair := range environ {
		if _, _, err := mungeFromEnvironment(config, envPair); err != nil {
			return nil, err
		}
	}

	config.Filename = filename
	if err = config.prepare(); err != nil {
		return nil, err
	}
	return config, nil
}

// prepare fills in default values and validates the config.
func (config *Config) prepare() (err error) {
	if config.Server.Host == "" {
		return ErrServerHostMissing
	}
	if config.Server.Port == 0 {
		if config.Server.TLS {
			config.Server.Port = defaultTLSPort
		} else {
			config.Server.Port = defaultPlaintextPort
		}
	}
	if config.Server.Port < 1 || 65535 < config.Server.Port {
		return ErrPortOutOfRange
	}
	if config.Server.MaxReadQString == "" {
		config.Server.MaxReadQString = defaultMaxReadQ
	}
	maxReadQBytes, err := bytefmt.ToBytes(config.Server.MaxReadQString)
	if err != nil {
		return fmt.Errorf("Could not parse maximum ReadQ size (make sure it only contains whole numbers): %s", err.Error())
	}
	config.Server.MaxReadQBytes = int(maxReadQBytes)
	if (config.Server.TLSCert == "") != (config.Server.TLSKey == "") {
		return ErrCertKeyMismatch
	}
	config.Server.DialTimeout = DefaultDialTimeout
	if config.Server.DialTimeoutString != "" {
		config.Server.DialTimeout, err = time.ParseDuration(config.Server.DialTimeoutString)
		if err != nil {
			return fmt.Errorf("Could not parse dial timeout: %s", err.Error())
		}
	}

	if config.Identity.Nickname == "" {
		return ErrNicknameMissing
	}
	if _, err := CasefoldName(config.Identity.Nickname); err != nil {
		return fmt.Errorf("Nickname %s is invalid: %s", config.Identity.Nickname, err.Error())
	}
	if config.Identity.Username == "" {
		return ErrUsernameMissing
	}
	if config.Identity.Ident == "" {
		return ErrIdentMissing
	}
	if config.Identity.Realname == "" {
		config.Identity.Realname = config.Identity.Ident
	}
	if config.Identity.ServicesNick == "" {
		config.Identity.ServicesNick = defaultServicesNick
	}
	if config.Identity.MaxNickRetries < 0 {
		return ErrNegativeNickRetries
	}

	if config.Channel == "" {
		return ErrChannelMissing
	}
	if _, err := CasefoldChannel(config.Channel); err != nil {
		return fmt.Errorf("Channel %s is invalid: %s", config.Channel, err.Error())
	}

	config.Keepalive.Interval = defaultKeepaliveInterval
	if config.Keepalive.IntervalString != "" {
		config.Keepalive.Interval, err = time.ParseDuration(config.Keepalive.IntervalString)
		if err != nil {
			return fmt.Errorf("Could not parse keepalive interval: %s", err.Error())
		}
	}
	if config.Keepalive.Interval < time.Second {
		return ErrKeepaliveTooShort
	}

	if len(config.Logging) == 0 {
		config.Logging = []logger.LoggingConfig{{
			Method:      "stderr",
			TypeString:  "* -recv -send",
			LevelString: "info",
		}}
	}
	for i := range config.Logging {
		if err := config.Logging[i].Parse(); err != nil {
			return err
		}
	}

	return nil
}
