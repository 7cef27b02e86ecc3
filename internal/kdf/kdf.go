// Package kdf implements the SP800-108 counter-mode key derivation this
// client uses to turn an NTLM session key into an SMB3 signing key. Only
// the 3.1.1 signing-key purpose is implemented (encryption/decryption/
// application keys and the pre-3.1.1 context rules are out of scope).
package kdf

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
)

// SigningKeyLabel is the fixed label SMB 3.1.1 uses to derive the signing
// key, including its trailing NUL.
var SigningKeyLabel = []byte("SMBSigningKey\x00")

// DeriveSigningKey runs SP800-108 counter mode with HMAC-SHA256 as the PRF
// to derive a 16-byte signing key from the NTLM session key and the frozen
// pre-authentication hash.
//
//	PRF input = counter(4B BE) || label || 0x00 || context || length(4B BE)
//
// A single iteration (counter=1) is sufficient for a 16-byte output since
// HMAC-SHA256 produces 32 bytes per iteration.
func DeriveSigningKey(sessionKey, preAuthHash []byte) [16]byte {
	return derive(sessionKey, SigningKeyLabel, preAuthHash, 16)
}

func derive(key, label, context []byte, outputLen int) [16]byte {
	mac := hmac.New(sha256.New, key)

	var counter [4]byte
	binary.BigEndian.PutUint32(counter[:], 1)
	mac.Write(counter[:])
	mac.Write(label)
	mac.Write([]byte{0x00})
	mac.Write(context)

	var lengthBits [4]byte
	binary.BigEndian.PutUint32(lengthBits[:], uint32(outputLen*8))
	mac.Write(lengthBits[:])

	sum := mac.Sum(nil)
	var out [16]byte
	copy(out[:], sum[:outputLen])
	return out
}
