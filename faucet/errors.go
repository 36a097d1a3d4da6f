package faucet

import (
	"errors"
	"fmt"
)

// Fallback messages when the endpoint gives no usable reason.
const (
	MsgClaimFailed    = "Claim failed"
	MsgProcessFailure = "Failed to process claim"
)

// ClaimError is one of *CooldownActiveError, *EndpointRejectedError or
// *TransportFailureError.
type ClaimError interface {
	error
	// Message is the text shown to the user.
	Message() string
	claimError()
}

// CooldownActiveError means the claim was stopped locally before any
// request was sent.
type CooldownActiveError struct {
	Remaining string
}

func (e *CooldownActiveError) Error() string {
	return "claim limit reached: next claim in " + e.Remaining
}

func (e *CooldownActiveError) Message() string {
	return fmt.Sprintf("Please wait %s before claiming again.", e.Remaining)
}

func (*CooldownActiveError) claimError() {}

// EndpointRejectedError is a non-success HTTP status from the endpoint.
type EndpointRejectedError struct {
	StatusCode int
	Reason     string
}

func (e *EndpointRejectedError) Error() string {
	return fmt.Sprintf("claim rejected (status %d): %s", e.StatusCode, e.Reason)
}

func (e *EndpointRejectedError) Message() string { return e.Reason }

func (*EndpointRejectedError) claimError() {}

// TransportFailureError means the request did not complete or the
// response could not be read.
type TransportFailureError struct {
	Err error
}

func (e *TransportFailureError) Error() string {
	if e.Err == nil {
		return "claim request failed"
	}
	return "claim request failed: " + e.Err.Error()
}

func (e *TransportFailureError) Message() string { return MsgProcessFailure }

func (e *TransportFailureError) Unwrap() error { return e.Err }

func (*TransportFailureError) claimError() {}

// MessageOf returns the user-facing text for err. Errors outside the
// ClaimError family are reported as a processing failure.
func MessageOf(err error) string {
	var ce ClaimError
	if errors.As(err, &ce) {
		return ce.Message()
	}
	return MsgProcessFailure
}
