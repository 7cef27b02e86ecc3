package smb2types

import (
	"fmt"

	"github.com/smb3go/smb3/internal/codec"
)

// NegotiateContext is the enum-of-structs wire form [MS-SMB2] uses for
// negotiate-time capability extensions: tag(u16), reserved(u16), size(u32),
// payload. Contexts in a list are each padded to an 8-byte boundary, except
// that no padding follows the final context.
type NegotiateContext struct {
	Type NegotiateContextType
	Data []byte
}

// PreauthIntegrityCapabilities is the 3.1.1 pre-authentication integrity
// negotiate context. This client offers and expects exactly one hash
// algorithm (SHA-512).
type PreauthIntegrityCapabilities struct {
	HashAlgorithms []HashAlgorithm
	Salt           []byte
}

// Encode renders the context payload (not the tag/size envelope).
func (p PreauthIntegrityCapabilities) Encode() []byte {
	w := codec.NewWriter(4 + len(p.HashAlgorithms)*2 + len(p.Salt))
	w.CountField16("algorithms", len(p.HashAlgorithms))
	w.CountField16("salt", len(p.Salt))
	for _, alg := range p.HashAlgorithms {
		w.WriteUint16(uint16(alg))
	}
	w.WriteBytes(p.Salt)
	return w.Bytes()
}

// DecodePreauthIntegrityCapabilities parses a context payload previously
// produced by Encode.
func DecodePreauthIntegrityCapabilities(data []byte) (PreauthIntegrityCapabilities, error) {
	r := codec.NewReader(data)
	algCount := r.CountField16("algorithms")
	saltLen := r.CountField16("salt")
	algs := make([]HashAlgorithm, algCount)
	for i := range algs {
		algs[i] = HashAlgorithm(r.ReadUint16())
	}
	salt := r.ReadBytes(int(saltLen))
	if r.Err() != nil {
		return PreauthIntegrityCapabilities{}, fmt.Errorf("decode preauth integrity context: %w", r.Err())
	}
	return PreauthIntegrityCapabilities{HashAlgorithms: algs, Salt: salt}, nil
}

// EncryptionCapabilities is the 3.1.1 encryption-capability negotiate
// context. This client never encrypts traffic (signing only, per scope)
// but still negotiates a cipher list as the handshake requires it.
type EncryptionCapabilities struct {
	Ciphers []Cipher
}

func (e EncryptionCapabilities) Encode() []byte {
	w := codec.NewWriter(2 + len(e.Ciphers)*2)
	w.CountField16("ciphers", len(e.Ciphers))
	for _, c := range e.Ciphers {
		w.WriteUint16(uint16(c))
	}
	return w.Bytes()
}

func DecodeEncryptionCapabilities(data []byte) (EncryptionCapabilities, error) {
	r := codec.NewReader(data)
	count := r.CountField16("ciphers")
	ciphers := make([]Cipher, count)
	for i := range ciphers {
		ciphers[i] = Cipher(r.ReadUint16())
	}
	if r.Err() != nil {
		return EncryptionCapabilities{}, fmt.Errorf("decode encryption context: %w", r.Err())
	}
	return EncryptionCapabilities{Ciphers: ciphers}, nil
}

// EncodeNegotiateContextList renders a list of negotiate contexts, each
// padded to an 8-byte boundary from the stream origin except the last.
func EncodeNegotiateContextList(w *codec.Writer, contexts []NegotiateContext) {
	for i, ctx := range contexts {
		w.WriteUint16(uint16(ctx.Type))
		w.WriteUint16(0) // reserved
		w.CountField32("contextDataLength", len(ctx.Data))
		w.WriteZeros(4) // reserved
		w.WriteBytes(ctx.Data)
		if i != len(contexts)-1 {
			w.Pad(8)
		}
	}
}

// ParseNegotiateContextList reads count negotiate contexts from r, each
// preceded by 8-byte-boundary padding except the first.
func ParseNegotiateContextList(r *codec.Reader, count int) ([]NegotiateContext, error) {
	contexts := make([]NegotiateContext, 0, count)
	for i := 0; i < count; i++ {
		if i != 0 {
			r.PadDecode(8)
		}
		ctxType := NegotiateContextType(r.ReadUint16())
		r.Skip(2) // reserved
		dataLen := r.ReadUint32()
		r.Skip(4) // reserved
		data := r.ReadBytes(int(dataLen))
		if r.Err() != nil {
			return nil, fmt.Errorf("decode negotiate context %d: %w", i, r.Err())
		}
		contexts = append(contexts, NegotiateContext{Type: ctxType, Data: data})
	}
	return contexts, nil
}
