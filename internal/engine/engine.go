// Package engine implements the single-in-flight request/response pipeline
// shared by the unauthenticated (Negotiate/SessionSetup) and authenticated
// phases of a connection: framing, message-id sequencing, pre-
// authentication hashing, the signing hook, and STATUS_PENDING
// rescheduling.
package engine

import (
	"crypto/sha512"
	"fmt"
	"log/slog"
	"time"

	"github.com/smb3go/smb3/internal/clientlog"
	"github.com/smb3go/smb3/internal/metrics"
	"github.com/smb3go/smb3/internal/smb2types"
)

// Signer computes and patches a request's signature field in place.
type Signer interface {
	PatchSignature(message []byte) error
}

// ResponseVerifier checks a signed response's signature against message,
// which still carries the signature bytes the server sent. A nil
// ResponseVerifier on an Engine disables verification entirely; the client
// does not require one because some deployments sign without enforcing it
// on the read path, but any caller that wants strict enforcement can supply
// one backed by internal/signing.Signer.
type ResponseVerifier interface {
	VerifyResponse(message []byte) error
}

// Engine drives one request/response exchange at a time over a single
// Transport. It owns the monotonic message id, the session/tree ids once
// established, and the rolling pre-authentication hash.
type Engine struct {
	transport Transport

	nextMessageID uint64
	sessionID     uint64
	treeID        uint32
	preAuthHash   [64]byte
	preAuthFrozen bool

	log      *slog.Logger
	metrics  metrics.Metrics   // nil disables collection
	verifier ResponseVerifier  // nil disables response signature verification
}

// New wraps transport with a fresh engine: next_message_id=0,
// pre_auth_hash=64 zero bytes.
func New(transport Transport) *Engine {
	return &Engine{transport: transport, log: clientlog.With("component", "engine")}
}

// SetMetrics attaches m to the engine; passing nil disables collection.
func (e *Engine) SetMetrics(m metrics.Metrics) { e.metrics = m }

// SetResponseVerifier attaches v to the engine; passing nil disables
// response signature verification.
func (e *Engine) SetResponseVerifier(v ResponseVerifier) { e.verifier = v }

// SessionID returns the session id established by a successful
// authentication loop, or 0 before one.
func (e *Engine) SessionID() uint64 { return e.sessionID }

// SetSessionID records the session id the caller learned from a
// SessionSetup response.
func (e *Engine) SetSessionID(id uint64) { e.sessionID = id }

// TreeID returns the tree id established by TreeConnect, or 0 before one.
func (e *Engine) TreeID() uint32 { return e.treeID }

// SetTreeID records the tree id the caller learned from a TreeConnect
// response.
func (e *Engine) SetTreeID(id uint32) { e.treeID = id }

// PreAuthHash returns the current rolling pre-authentication hash. Once
// FreezePreAuthHash is called, this value no longer changes and is the
// correct KDF context for signing-key derivation.
func (e *Engine) PreAuthHash() [64]byte { return e.preAuthHash }

// FreezePreAuthHash stops the hash from evolving further; called once
// signing becomes active.
func (e *Engine) FreezePreAuthHash() { e.preAuthFrozen = true }

func (e *Engine) rollPreAuthHash(message []byte) {
	if e.preAuthFrozen {
		return
	}
	h := sha512.Sum512(append(append([]byte{}, e.preAuthHash[:]...), message...))
	e.preAuthHash = h
}

// Request is everything the caller supplies for one command/response
// round trip.
type Request struct {
	Command       smb2types.Command
	CreditCharge  uint16
	CreditRequest uint16
	Signer        Signer // nil for unsigned (pre-auth) requests
	Body          []byte
}

// Response is the decoded header plus raw body bytes of the terminal
// (non-PENDING) reply.
type Response struct {
	Header *smb2types.Header
	Body   []byte
}

// Do sends one request and returns its terminal response, looping past any
// number of STATUS_PENDING interim replies on the same message id (which do
// not consume a new id).
func (e *Engine) Do(req Request) (*Response, error) {
	messageID := e.nextMessageID
	e.nextMessageID++

	header := &smb2types.Header{
		CreditCharge:  req.CreditCharge,
		Command:       req.Command,
		CreditRequest: req.CreditRequest,
		MessageID:     messageID,
		SessionID:     e.sessionID,
		TreeID:        e.treeID,
	}
	if req.Signer != nil {
		header.Flags |= smb2types.FlagSigned
	}

	buf := header.Encode(make([]byte, 0, smb2types.HeaderSize+len(req.Body)))
	buf = append(buf, req.Body...)

	if req.Signer != nil {
		if err := req.Signer.PatchSignature(buf); err != nil {
			return nil, fmt.Errorf("sign request: %w", err)
		}
	} else {
		e.rollPreAuthHash(buf)
	}

	e.log.Debug("sending request", "command", req.Command, "messageId", messageID, "signed", req.Signer != nil)
	start := time.Now()
	if err := writeFrame(e.transport, buf); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}
	if e.metrics != nil {
		e.metrics.RecordBytesSent(len(buf))
	}

	commandName := req.Command.String()
	for {
		raw, err := readFrame(e.transport)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		if e.metrics != nil {
			e.metrics.RecordBytesReceived(len(raw))
		}
		respHeader, err := smb2types.ParseHeader(raw)
		if err != nil {
			return nil, fmt.Errorf("parse response header: %w", err)
		}
		if !respHeader.IsSigned() {
			e.rollPreAuthHash(raw)
		} else if e.verifier != nil {
			if err := e.verifier.VerifyResponse(raw); err != nil {
				return nil, fmt.Errorf("verify response signature: %w", err)
			}
		}
		if respHeader.Status == smb2types.StatusPending {
			e.log.Warn("received STATUS_PENDING, waiting for terminal response", "messageId", messageID)
			if e.metrics != nil {
				e.metrics.RecordPendingRetry(commandName)
			}
			continue
		}
		if e.metrics != nil {
			e.metrics.RecordCommand(commandName, time.Since(start), respHeader.Status.String())
		}
		e.log.Debug("received response", "command", commandName, "messageId", messageID, "status", respHeader.Status.String())
		return &Response{Header: respHeader, Body: raw[smb2types.HeaderSize:]}, nil
	}
}
