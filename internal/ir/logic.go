package ir

import (
	"strings"

	"github.com/okieraised/udashboard/internal/cerrors"
)

// State is the semantic condition of a channel: Default or a named alarm.
// It is comparable and keys StyleSet directly.
type State struct {
	alarm bool
	name  string
}

// Default is the state when no rule matches.
var Default = State{}

// Alarm returns the named alarm state. Alarm("") is still distinct from Default.
func Alarm(name string) State {
	return State{alarm: true, name: name}
}

func (s State) IsDefault() bool { return !s.alarm }
func (s State) IsAlarm() bool   { return s.alarm }

// Name returns the alarm name, empty for Default.
func (s State) Name() string { return s.name }

// Key is the string form of the state: "default" or "alarm:<name>".
func (s State) Key() string {
	if !s.alarm {
		return "default"
	}
	return "alarm:" + s.name
}

func (s State) String() string { return s.Key() }

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.Key()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	key := string(text)
	if key == "default" {
		*s = Default
		return nil
	}
	name, ok := strings.CutPrefix(key, "alarm:")
	if !ok {
		return cerrors.ErrInvalidDashboard.WithMessage("invalid state [%s]", key)
	}
	*s = Alarm(name)
	return nil
}

// Test is a single-channel numeric predicate.
// Variants: Always, Never, LessThan, GreaterThan, Equal, Between.
type Test interface {
	Matches(value float64) bool
	isTest()
}

type Always struct{}

type Never struct{}

type LessThan struct {
	Limit float64
}

type GreaterThan struct {
	Limit float64
}

type Equal struct {
	Value float64
}

// Between matches the closed interval [Lo, Hi].
type Between struct {
	Lo float64
	Hi float64
}

func (Always) Matches(float64) bool          { return true }
func (Never) Matches(float64) bool           { return false }
func (t LessThan) Matches(v float64) bool    { return v < t.Limit }
func (t GreaterThan) Matches(v float64) bool { return v > t.Limit }
func (t Equal) Matches(v float64) bool       { return v == t.Value }
func (t Between) Matches(v float64) bool     { return t.Lo <= v && v <= t.Hi }

func (Always) isTest()      {}
func (Never) isTest()       {}
func (LessThan) isTest()    {}
func (GreaterThan) isTest() {}
func (Equal) isTest()       {}
func (Between) isTest()     {}

// When is one logic rule: if Test holds for Channel, the result is Result.
type When struct {
	Channel string
	Test    Test
	Result  State
}

// Logic is the ordered rule list. Order matters: the first match wins.
type Logic []When

// LookupFunc resolves a channel name to its current value.
type LookupFunc func(channel string) (float64, bool)

// Evaluate resolves the state of channel by scanning the rules in order. The
// value is looked up once, on the first rule that names the channel.
func (l Logic) Evaluate(channel string, lookup LookupFunc) (State, error) {
	var (
		value  float64
		loaded bool
	)
	for _, rule := range l {
		if rule.Channel != channel {
			continue
		}
		if !loaded {
			v, ok := lookup(channel)
			if !ok {
				return Default, cerrors.ErrUnknownChannel.WithMessage("unknown channel [%s]", channel)
			}
			value, loaded = v, true
		}
		if rule.Test != nil && rule.Test.Matches(value) {
			return rule.Result, nil
		}
	}
	return Default, nil
}
