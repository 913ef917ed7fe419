// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/ergochat/irc-go/ircfmt"

	"github.com/ergochat/ircrobot/irc/utils"
)

// RandSource is the random source chat commands draw from.
type RandSource interface {
	Intn(n int) int
}

// CommandContext is what a chat command rule sees of an incoming message.
type CommandContext struct {
	// Raw is the chat text as received.
	Raw string
	// Text is Raw with formatting codes stripped.
	Text string
	// Word is the first space-delimited word of Text.
	Word string
	// Sender is the nickname that sent the message.
	Sender string
	// Target is where replies go: the channel, or Sender for private messages.
	Target string
	// Nick is our own current nickname.
	Nick   string
	Uptime time.Duration
	Rand   RandSource
}

func NewCommandContext(raw, sender, target, nick string, uptime time.Duration, rand RandSource) *CommandContext {
	text := ircfmt.Strip(raw)
	word, _, _ := strings.Cut(text, " ")
	return &CommandContext{
		Raw:    raw,
		Text:   text,
		Word:   word,
		Sender: sender,
		Target: target,
		Nick:   nick,
		Uptime: uptime,
		Rand:   rand,
	}
}

// CommandRule is one row of the chat command table. Respond returns the
// candidate replies; one of them is chosen at random, and an empty result
// means the rule stays silent this time.
type CommandRule struct {
	Name    string
	Match   func(ctx *CommandContext) bool
	Respond func(ctx *CommandContext) ([]string, error)
}

// evaluate runs the rule, turning errors and panics into a *DispatchError.
func (rule *CommandRule) evaluate(ctx *CommandContext) (reply string, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			reply, ok = "", false
			err = &DispatchError{Rule: rule.Name, Err: fmt.Errorf("panic: %v\n%s", r, debug.Stack())}
		}
	}()

	if !rule.Match(ctx) {
		return "", false, nil
	}
	candidates, err := rule.Respond(ctx)
	if err != nil {
		return "", false, &DispatchError{Rule: rule.Name, Err: err}
	}
	switch len(candidates) {
	case 0:
		return "", false, nil
	case 1:
		return candidates[0], true, nil
	default:
		return candidates[ctx.Rand.Intn(len(candidates))], true, nil
	}
}

// CommandRegistry holds the chat command table. Every rule is evaluated
// against every message; a message matching several rules gets several replies.
type CommandRegistry struct {
	rules []CommandRule
}

func NewCommandRegistry(rules ...CommandRule) *CommandRegistry {
	return &CommandRegistry{rules: rules}
}

// Add appends a rule to the table.
func (registry *CommandRegistry) Add(rule CommandRule) {
	registry.rules = append(registry.rules, rule)
}

// Evaluate returns one reply per matching rule, in table order, plus the
// errors of any rules that failed.
func (registry *CommandRegistry) Evaluate(ctx *CommandContext) (replies []string, errs []error) {
	for i := range registry.rules {
		reply, ok, err := registry.rules[i].evaluate(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			replies = append(replies, reply)
		}
	}
	return
}

// Trigger matches messages whose first word is exactly one of words.
func Trigger(words ...string) func(ctx *CommandContext) bool {
	triggers := utils.NewHashSet(words...)
	return func(ctx *CommandContext) bool {
		return triggers.Has(ctx.Word)
	}
}

// TriggerFold is Trigger, ignoring case.
func TriggerFold(words ...string) func(ctx *CommandContext) bool {
	triggers := utils.NewHashSet[string]()
	for _, word := range words {
		triggers.Add(strings.ToLower(word))
	}
	return func(ctx *CommandContext) bool {
		return triggers.Has(strings.ToLower(ctx.Word))
	}
}

// Choose responds with one of a fixed set of texts.
func Choose(texts ...string) func(ctx *CommandContext) ([]string, error) {
	return func(ctx *CommandContext) ([]string, error) {
		return texts, nil
	}
}

// DefaultCommandRules is the built-in chat command table.
func DefaultCommandRules() []CommandRule {
	return []CommandRule{
		{
			Name:    "version",
			Match:   Trigger("!version"),
			Respond: versionCommand,
		},
		{
			Name:    "uptime",
			Match:   Trigger("!uptime"),
			Respond: uptimeCommand,
		},
		{
			Name:    "echo-action",
			Match:   matchAction,
			Respond: echoActionCommand,
		},
		{
			Name:  "example",
			Match: Trigger("!example"),
			Respond: Choose(
				"This is a randomized output (1)",
				"This is a randomized output (2)",
				"This is a randomized output (3)",
			),
		},
		{
			Name:    "example2",
			Match:   Trigger("!example2"),
			Respond: example2Command,
		},
		{
			Name:    "blubb",
			Match:   TriggerFold("!blubb", "!plnpp", "!gnapp"),
			Respond: Choose("Blubb !", "Plnpp !", "Gnapp !"),
		},
	}
}

// !version
func versionCommand(ctx *CommandContext) ([]string, error) {
	return []string{fmt.Sprintf("%s on %s", Ver, PlatformName())}, nil
}

// !uptime
func uptimeCommand(ctx *CommandContext) ([]string, error) {
	return []string{fmt.Sprintf("%s is up for %s.", ctx.Nick, FormatUptime(ctx.Uptime))}, nil
}

// !example2
func example2Command(ctx *CommandContext) ([]string, error) {
	return []string{fmt.Sprintf("This is %s!", ctx.Nick)}, nil
}

func matchAction(ctx *CommandContext) bool {
	action, ok := IsAction(ctx.Raw)
	return ok && action != ""
}

// echoOdds is the 1-in-n chance that we copy someone's /me
const echoOdds = 6

// copies "/me waves" as "/me waves too", now and then
func echoActionCommand(ctx *CommandContext) ([]string, error) {
	if ctx.Rand.Intn(echoOdds) != 0 {
		return nil, nil
	}
	action, _ := IsAction(ctx.Raw)
	return []string{EncodeCTCP(fmt.Sprintf("ACTION %s too", action))}, nil
}
