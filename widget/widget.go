package widget

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/galihrivanto/tribfaucet/cooldown"
	"github.com/galihrivanto/tribfaucet/faucet"
)

// Token is the name of the token the faucet hands out.
const Token = "TRIB"

// ErrClaimInFlight is returned when a claim is submitted while another
// is still pending.
var ErrClaimInFlight = errors.New("claim already in progress")

// Widget owns a ClaimState and runs the claim flow against it. It is
// not safe for concurrent use; callers drive it from a single event
// loop and only hand Perform to another goroutine.
type Widget struct {
	state   ClaimState
	tracker *cooldown.Tracker
	claimer faucet.Claimer
	notify  Notifier
	log     *log.Logger
}

func New(tracker *cooldown.Tracker, claimer faucet.Claimer, notifier Notifier, logger *log.Logger) *Widget {
	if notifier == nil {
		notifier = NotifierFunc(func(Notification) {})
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Widget{
		tracker: tracker,
		claimer: claimer,
		notify:  notifier,
		log:     logger,
	}
}

func (w *Widget) State() ClaimState { return w.state }

func (w *Widget) Claimer() faucet.Claimer { return w.claimer }

func (w *Widget) SetAddress(address string) {
	w.state.Address = address
}

func (w *Widget) CanSubmit() bool { return w.state.CanSubmit() }

// Refresh recomputes the countdown from the stored claim time.
func (w *Widget) Refresh() string {
	w.state.TimeRemaining = w.tracker.Check()
	return w.state.TimeRemaining
}

// Begin checks the cooldown and, when claiming is allowed, moves the
// widget into the pending state. A blocked attempt notifies the user and
// returns a *faucet.CooldownActiveError with the state left untouched.
func (w *Widget) Begin() error {
	if w.state.Loading {
		return ErrClaimInFlight
	}

	remaining, active, err := w.tracker.Remaining()
	if err != nil {
		w.log.Error("read cooldown", "err", err)
	}
	if active {
		w.state.TimeRemaining = cooldown.Format(remaining)
		blocked := &faucet.CooldownActiveError{Remaining: w.state.TimeRemaining}
		w.log.Info("claim blocked", "address", w.state.Address, "remaining", blocked.Remaining)
		w.emit(LevelError, "Claim limit reached", blocked.Message())
		return blocked
	}

	w.state.Error = ""
	w.state.Success = false
	w.state.Loading = true
	return nil
}

// Finish concludes a pending claim with the result of Perform. Loading
// is always cleared; the claim time is stored only on success.
func (w *Widget) Finish(err error) {
	w.state.Loading = false

	if err != nil {
		msg := faucet.MessageOf(err)
		w.state.Error = msg
		w.state.Success = false
		w.log.Warn("claim failed", "address", w.state.Address, "err", err)
		w.emit(LevelError, "Claim failed", msg)
		return
	}

	if err := w.tracker.Record(); err != nil {
		w.log.Error("store claim time", "err", err)
	}
	w.state.Success = true
	w.state.Error = ""
	w.log.Info("claim succeeded", "address", w.state.Address)
	w.emit(LevelSuccess, "Tokens claimed!", fmt.Sprintf("Check your wallet for the %s tokens.", Token))
}

// Submit runs a whole attempt synchronously: Begin, Perform, Finish.
func (w *Widget) Submit(ctx context.Context) (err error) {
	if err := w.Begin(); err != nil {
		return err
	}
	defer func() { w.Finish(err) }()

	return Perform(ctx, w.claimer, w.state.Address)
}

// Perform sends one claim request. A panicking claimer is reported as a
// transport failure.
func Perform(ctx context.Context, c faucet.Claimer, address string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &faucet.TransportFailureError{Err: fmt.Errorf("claimer panic: %v", r)}
		}
	}()

	_, err = c.Claim(ctx, address)
	return err
}

func (w *Widget) emit(level Level, title, detail string) {
	w.notify.Notify(Notification{
		Level:  level,
		Title:  title,
		Detail: detail,
		At:     w.tracker.Now(),
	})
}
