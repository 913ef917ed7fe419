// Copyright (c) 2020 Shivaram Lingamneni
// released under the MIT license

package irc

import (
	"fmt"
	"runtime"
)

const (
	// ClientName is the name we give in VERSION replies.
	ClientName = "IRCrobot"
	// SemVer is the semantic version of IRCrobot.
	SemVer = "2.0-beta"
)

var (
	// Ver is the full version of IRCrobot, used in responses to other users.
	Ver = fmt.Sprintf("%s/%s", ClientName, SemVer)
	// Commit is the full git hash, if available
	Commit string
)

// initialize version strings (these are set in package main via linker flags)
func SetVersionString(version, commit string) {
	Commit = commit
	if version != "" {
		Ver = fmt.Sprintf("%s/%s", ClientName, version)
	} else if len(Commit) == 40 {
		Ver = fmt.Sprintf("%s/%s-%s", ClientName, SemVer, Commit[:16])
	}
}

// PlatformName returns a human-readable name for the operating system we run on.
func PlatformName() string {
	return platformName(runtime.GOOS)
}

func platformName(goos string) string {
	switch goos {
	case "windows":
		return "Windows"
	case "darwin":
		return "macOS"
	case "linux":
		return "Linux"
	default:
		return "Unknown platform"
	}
}
