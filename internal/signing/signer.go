package signing

import "fmt"

// Signer computes and patches a request's 16-byte signature in place, at
// header bytes 48..64, with the signature field zeroed before the MAC is
// taken. The same key and algorithm also verify a signed response, so
// Signer implements engine.ResponseVerifier.
type Signer struct {
	key [16]byte
}

// NewSigner wraps a derived 16-byte SMB3 signing key.
func NewSigner(key [16]byte) *Signer {
	return &Signer{key: key}
}

// SignRequest computes AES-128-CMAC over message (which must already have
// its signature field zeroed) and returns the 16-byte tag.
func (s *Signer) SignRequest(message []byte) ([16]byte, error) {
	return Sign(s.key, message)
}

// PatchSignature zeroes the signature field, computes the tag, and writes
// it back in place. message must be at least smb2types.HeaderSize bytes.
func (s *Signer) PatchSignature(message []byte) error {
	for i := 48; i < 64; i++ {
		message[i] = 0
	}
	tag, err := s.Sign(message)
	if err != nil {
		return err
	}
	copy(message[48:64], tag[:])
	return nil
}

// Sign is an alias for SignRequest kept for call-site readability at the
// header-patch site.
func (s *Signer) Sign(message []byte) ([16]byte, error) {
	return s.SignRequest(message)
}

// VerifyResponse recomputes the signature over message with its signature
// field zeroed and compares it against the bytes the server sent, so a
// Signer can also serve as an engine.ResponseVerifier.
func (s *Signer) VerifyResponse(message []byte) error {
	if len(message) < 64 {
		return fmt.Errorf("verify response: message too short (%d bytes)", len(message))
	}
	var want [16]byte
	copy(want[:], message[48:64])

	patched := append([]byte(nil), message...)
	for i := 48; i < 64; i++ {
		patched[i] = 0
	}
	got, err := s.Sign(patched)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("verify response: signature mismatch")
	}
	return nil
}
