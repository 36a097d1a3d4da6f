package widget

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// AddressLength is the only address length the submit control accepts.
const AddressLength = 42

// ClaimState is the widget's in-memory state. Empty Error and
// TimeRemaining mean absent.
type ClaimState struct {
	Address       string
	Loading       bool
	Error         string
	Success       bool
	TimeRemaining string
}

// CanSubmit reports whether the submit control is enabled.
func CanSubmit(loading bool, addressLen int, timeRemaining string) bool {
	return !loading && addressLen == AddressLength && timeRemaining == ""
}

func (s ClaimState) AddressLen() int {
	return utf8.RuneCountInString(s.Address)
}

func (s ClaimState) CanSubmit() bool {
	return CanSubmit(s.Loading, s.AddressLen(), s.TimeRemaining)
}

// Counter is the live "{length}/42" indicator.
func (s ClaimState) Counter() string {
	return fmt.Sprintf("%d/%d", s.AddressLen(), AddressLength)
}

// SubmitLabel is the caption of the submit control.
func (s ClaimState) SubmitLabel() string {
	switch {
	case s.Loading:
		return "Claiming..."
	case s.TimeRemaining != "":
		return "Next claim in " + s.TimeRemaining
	default:
		return "Claim Tokens"
	}
}

type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

// Notification is a transient toast.
type Notification struct {
	Level  Level
	Title  string
	Detail string
	At     time.Time
}

type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }
