// Package ntlm declares the external NTLM/GSS authentication collaborator
// this client drives but does not implement: a black box exposing a
// step(input) -> output state machine plus a terminal session key, per
// scope (NTLM internals are explicitly out of this module's core).
package ntlm

// StepStatus is the outcome of one NTLM exchange leg.
type StepStatus int

const (
	// StatusContinue means another leg is required; the output token must
	// be sent and a further input token is expected back.
	StatusContinue StepStatus = iota
	// StatusCompleteAndContinue means this leg's output token is the
	// final one the client must send, but the server is expected to
	// still reply with MORE_PROCESSING_REQUIRED once more before SUCCESS.
	StatusCompleteAndContinue
	// StatusComplete means this leg's output token is final and no
	// further exchange is expected; the session key is now available.
	StatusComplete
	// StatusDone means the exchange already completed on a prior step;
	// Step should not be called again.
	StatusDone
)

// Engine is the external NTLM/GSS authentication primitive. Credentials are
// supplied at construction (outside this interface); Step drives one leg of
// the exchange at a time, mirroring the SessionSetup loop's shape.
type Engine interface {
	// Step feeds the server's security blob from the previous
	// SessionSetup response (nil on the very first call) and returns the
	// next output token to send, along with the leg's status.
	Step(input []byte) (output []byte, status StepStatus, err error)

	// SessionKey returns the 16-byte NTLM session key. Only valid after
	// Step has returned StatusComplete or StatusCompleteAndContinue.
	SessionKey() ([16]byte, error)
}
