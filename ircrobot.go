// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/docopt/docopt-go"
	"github.com/ergochat/ircrobot/irc"
	"github.com/ergochat/ircrobot/irc/logger"
	"github.com/ergochat/ircrobot/irc/mkcerts"
	"github.com/ergochat/ircrobot/irc/utils"
)

// set via linker flags, either by make or by goreleaser:
var commit = ""  // git hash
var version = "" // tagged version

// get a password from stdin from the user
func getPasswordFromTerminal() string {
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatal("Error reading password:", err.Error())
	}
	return string(bytePassword)
}

func fileDoesNotExist(file string) bool {
	if _, err := os.Stat(file); os.IsNotExist(err) {
		return true
	}
	return false
}

// implements the `ircrobot mkcerts` command
func doMkcerts(config *irc.Config, quiet bool) {
	cert, key := config.Server.TLSCert, config.Server.TLSKey
	if cert == "" {
		log.Fatal("No client certificate configured: set server.tls-cert and server.tls-key")
	}
	if !(fileDoesNotExist(cert) && fileDoesNotExist(key)) {
		log.Fatalf("Preexisting TLS cert and/or key files: %s %s", cert, key)
	}
	if !quiet {
		log.Printf("making client certificate for %s\n", config.Identity.Nickname)
	}
	if err := mkcerts.CreateCert(config.Identity.Nickname, cert, key); err != nil {
		log.Fatal("  Could not create certificate:", err.Error())
	}
	if !quiet {
		log.Printf("  Certificate created at %s : %s\n", cert, key)
	}
}

func main() {
	irc.SetVersionString(version, commit)
	usage := `ircrobot.
Usage:
	ircrobot run [--conf <filename>] [--quiet] [--ask-password]
	ircrobot checkconf [--conf <filename>]
	ircrobot mkcerts [--conf <filename>] [--quiet]
	ircrobot -h | --help
	ircrobot --version
Options:
	--conf <filename>  Configuration file to use [default: ircrobot.yaml].
	--quiet            Don't show startup/shutdown lines.
	--ask-password     Prompt for the services password.
	-h --help          Show this screen.
	--version          Show version.`

	arguments, _ := docopt.ParseArgs(usage, nil, irc.Ver)

	configfile := arguments["--conf"].(string)
	config, err := irc.LoadConfig(configfile)
	if err != nil {
		log.Fatal("Config file did not load successfully: ", err.Error())
	}

	if arguments["checkconf"].(bool) {
		fmt.Printf("%s is valid: %s on %s in %s\n", configfile, config.Identity.Nickname, config.Server.Host, config.Channel)
		return
	} else if arguments["mkcerts"].(bool) {
		doMkcerts(config, arguments["--quiet"].(bool))
		return
	}

	if arguments["--ask-password"].(bool) || config.Identity.PasswordPrompt {
		if !term.IsTerminal(int(syscall.Stdin)) {
			log.Fatal("Cannot prompt for the services password: stdin is not a terminal")
		}
		fmt.Printf("Password for %s: ", config.Identity.Username)
		config.Identity.Password = getPasswordFromTerminal()
		fmt.Print("\n")
	}

	logman, err := logger.NewManager(config.Logging)
	if err != nil {
		log.Fatal("Logger did not load successfully:", err.Error())
	}
	defer logman.Close()

	quiet := arguments["--quiet"].(bool)
	if !quiet {
		logman.Info("connect", fmt.Sprintf("%s starting", irc.Ver))
	}

	// warning if running a non-final version
	if strings.Contains(irc.Ver, "beta") {
		logman.Warning("connect", "You are currently running a beta version of IRCrobot.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), utils.ExitSignals...)
	defer stop()

	robot := irc.NewRobot(config, logman)
	err = robot.Run(ctx)
	if !quiet {
		logman.Info("connect", fmt.Sprintf("%s exiting", irc.Ver))
	}
	if err != nil {
		logman.Error("connect", err.Error())
		logman.Close()
		os.Exit(1)
	}
}
