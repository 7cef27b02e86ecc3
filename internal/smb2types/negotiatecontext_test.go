package smb2types

import (
	"bytes"
	"testing"

	"github.com/smb3go/smb3/internal/codec"
)

func TestPreauthIntegrityCapabilitiesRoundTrip(t *testing.T) {
	want := PreauthIntegrityCapabilities{
		HashAlgorithms: []HashAlgorithm{HashAlgorithmSHA512},
		Salt:           []byte{1, 2, 3, 4, 5, 6, 7, 8},
	}
	got, err := DecodePreauthIntegrityCapabilities(want.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.HashAlgorithms) != 1 || got.HashAlgorithms[0] != HashAlgorithmSHA512 {
		t.Errorf("hash algorithms mismatch: %v", got.HashAlgorithms)
	}
	if !bytes.Equal(got.Salt, want.Salt) {
		t.Errorf("salt mismatch: got %x want %x", got.Salt, want.Salt)
	}
}

func TestEncryptionCapabilitiesRoundTrip(t *testing.T) {
	want := EncryptionCapabilities{Ciphers: []Cipher{CipherAES128GCM, CipherAES128CCM}}
	got, err := DecodeEncryptionCapabilities(want.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Ciphers) != 2 || got.Ciphers[0] != CipherAES128GCM || got.Ciphers[1] != CipherAES128CCM {
		t.Errorf("ciphers mismatch: %v", got.Ciphers)
	}
}

// TestNegotiateContextListRoundTrip exercises the 8-byte padding rule
// between contexts: none is expected after the final one.
func TestNegotiateContextListRoundTrip(t *testing.T) {
	preauth := PreauthIntegrityCapabilities{
		HashAlgorithms: []HashAlgorithm{HashAlgorithmSHA512},
		Salt:           []byte{1, 2, 3, 4, 5, 6, 7, 8},
	}
	enc := EncryptionCapabilities{Ciphers: []Cipher{CipherAES128GCM}}

	want := []NegotiateContext{
		{Type: NegotiateContextPreauthIntegrityCapabilities, Data: preauth.Encode()},
		{Type: NegotiateContextEncryptionCapabilities, Data: enc.Encode()},
	}

	w := codec.NewWriter(64)
	EncodeNegotiateContextList(w, want)
	buf := w.Bytes()

	if len(buf)%8 != 0 {
		t.Fatalf("expected context-list length padded to 8, got %d", len(buf))
	}

	r := codec.NewReader(buf)
	got, err := ParseNegotiateContextList(r, len(want))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d contexts, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Type != want[i].Type {
			t.Errorf("context %d: type mismatch: got %v want %v", i, got[i].Type, want[i].Type)
		}
		if !bytes.Equal(got[i].Data, want[i].Data) {
			t.Errorf("context %d: data mismatch: got %x want %x", i, got[i].Data, want[i].Data)
		}
	}
	if r.Remaining() != 0 {
		t.Errorf("expected reader fully consumed, %d bytes remaining", r.Remaining())
	}
}
