// Package clienterrors defines the four error kinds this client's errors
// ultimately wrap: protocol (non-success NTSTATUS), authentication, codec,
// and I/O. Transport/I/O failures are left as plain wrapped errors from the
// standard library (net, io) rather than a dedicated type, since they carry
// no client-specific state worth a named type.
package clienterrors

import (
	"fmt"

	"github.com/smb3go/smb3/internal/smb2types"
)

// ProtocolError wraps a non-success NTSTATUS returned by the server. Many
// such statuses are recovered from by the façade (STATUS_NO_MORE_FILES,
// STATUS_END_OF_FILE) rather than surfaced to the caller as failures.
type ProtocolError struct {
	Status smb2types.Status
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("smb3: protocol error: %s", e.Status)
}

// Is reports whether target is a *ProtocolError with the same status,
// so callers can write errors.Is(err, &ProtocolError{Status: smb2types.StatusObjectNameNotFound}).
func (e *ProtocolError) Is(target error) bool {
	other, ok := target.(*ProtocolError)
	return ok && other.Status == e.Status
}

// AuthError wraps a failure from the NTLM exchange or signing-key
// derivation. Any AuthError renders the client unusable; the caller must
// construct a new one.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string { return fmt.Sprintf("smb3: authentication error: %v", e.Err) }
func (e *AuthError) Unwrap() error { return e.Err }

// CodecError wraps a serialize/deserialize failure: truncated input, a
// missing length directive, or an unsupported directive.
type CodecError struct {
	Err error
}

func (e *CodecError) Error() string { return fmt.Sprintf("smb3: codec error: %v", e.Err) }
func (e *CodecError) Unwrap() error { return e.Err }
