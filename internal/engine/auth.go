package engine

import (
	"fmt"

	"github.com/smb3go/smb3/internal/clienterrors"
	"github.com/smb3go/smb3/internal/kdf"
	"github.com/smb3go/smb3/internal/messages"
	"github.com/smb3go/smb3/internal/ntlm"
	"github.com/smb3go/smb3/internal/signing"
	"github.com/smb3go/smb3/internal/smb2types"
)

// Credit-request literals. Each operation's constant is preserved as
// observed rather than unified into one blanket default, per design note.
const (
	CreditsNegotiate      = 10
	CreditsSessionSetup   = 130
	CreditsTreeConnect    = 64
	CreditsCreate         = 64
	CreditsQueryDirectory = 64
	CreditsQueryInfo      = 64
	CreditsRead           = 9
	CreditsWrite          = 64
	CreditsClose          = 64
	CreditsFlush          = 64
	CreditsSetInfo        = 64
)

// Authenticate runs Negotiate followed by the NTLM SessionSetup loop to
// completion, then derives the session signing key, returning a Signer the
// caller attaches to every subsequent request.
func Authenticate(e *Engine, auth ntlm.Engine) (*signing.Signer, error) {
	negReq, err := messages.NewNegotiateRequest()
	if err != nil {
		return nil, &clienterrors.AuthError{Err: fmt.Errorf("build negotiate request: %w", err)}
	}

	negResp, err := e.Do(Request{
		Command:       smb2types.CommandNegotiate,
		CreditCharge:  1,
		CreditRequest: CreditsNegotiate,
		Body:          negReq.Encode(),
	})
	if err != nil {
		return nil, fmt.Errorf("negotiate: %w", err)
	}
	if negResp.Header.Status != smb2types.StatusSuccess {
		return nil, &clienterrors.ProtocolError{Status: negResp.Header.Status}
	}
	if _, err := messages.DecodeNegotiateResponse(negResp.Body); err != nil {
		return nil, &clienterrors.CodecError{Err: err}
	}

	output, status, err := auth.Step(nil)
	if err != nil {
		return nil, &clienterrors.AuthError{Err: err}
	}

	var sessID uint64
	for {
		setupReq := &messages.SessionSetupRequest{
			SecurityMode: smb2types.SecurityModeSigningEnabled,
			SecurityBlob: output,
		}
		e.SetSessionID(sessID)
		resp, err := e.Do(Request{
			Command:       smb2types.CommandSessionSetup,
			CreditCharge:  1,
			CreditRequest: CreditsSessionSetup,
			Body:          setupReq.Encode(),
		})
		if err != nil {
			return nil, fmt.Errorf("session setup: %w", err)
		}
		sessID = resp.Header.SessionID
		e.SetSessionID(sessID)

		switch resp.Header.Status {
		case smb2types.StatusSuccess:
			e.FreezePreAuthHash()
			sessionKey, err := auth.SessionKey()
			if err != nil {
				return nil, &clienterrors.AuthError{Err: err}
			}
			preAuth := e.PreAuthHash()
			signingKey := kdf.DeriveSigningKey(sessionKey[:], preAuth[:])
			return signing.NewSigner(signingKey), nil

		case smb2types.StatusMoreProcessingRequired:
			respBody, err := messages.DecodeSessionSetupResponse(resp.Body)
			if err != nil {
				return nil, &clienterrors.CodecError{Err: err}
			}
			output, status, err = auth.Step(respBody.SecurityBlob)
			if err != nil {
				return nil, &clienterrors.AuthError{Err: err}
			}
			if status == ntlm.StatusDone {
				return nil, &clienterrors.AuthError{Err: fmt.Errorf("ntlm engine reported done mid-loop")}
			}
			continue

		default:
			return nil, &clienterrors.ProtocolError{Status: resp.Header.Status}
		}
	}
}
