// Package messages defines the typed request/response bodies for every SMB2
// command this client issues, built on top of internal/codec. Each type's
// Encode/Decode pair is the record's schema made concrete: fixed fields in
// declaration order, directives resolved via the codec's named-field API
// instead of hand-rolled offset arithmetic.
package messages

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/smb3go/smb3/internal/codec"
	"github.com/smb3go/smb3/internal/smb2types"
)

// NegotiateRequest offers exactly one dialect (3.1.1) and one negotiate
// context of each kind this client understands, per scope.
type NegotiateRequest struct {
	SecurityMode smb2types.SecurityMode
	Capabilities smb2types.GlobalCapabilities
	ClientGUID   [16]byte
	Salt         []byte // 32 random bytes for PreauthIntegrityCapabilities
}

// NewNegotiateRequest builds a request with a fresh random client GUID and
// preauth salt.
func NewNegotiateRequest() (*NegotiateRequest, error) {
	var guid [16]byte
	saltBuf := make([]byte, 32)
	if _, err := rand.Read(guid[:]); err != nil {
		return nil, fmt.Errorf("generate client guid: %w", err)
	}
	if _, err := rand.Read(saltBuf); err != nil {
		return nil, fmt.Errorf("generate preauth salt: %w", err)
	}
	return &NegotiateRequest{
		SecurityMode: smb2types.SecurityModeSigningEnabled,
		Capabilities: 0,
		ClientGUID:   guid,
		Salt:         saltBuf,
	}, nil
}

func (n *NegotiateRequest) Encode() []byte {
	preauth := smb2types.PreauthIntegrityCapabilities{
		HashAlgorithms: []smb2types.HashAlgorithm{smb2types.HashAlgorithmSHA512},
		Salt:           n.Salt,
	}
	encryption := smb2types.EncryptionCapabilities{
		Ciphers: []smb2types.Cipher{smb2types.CipherAES128GCM},
	}
	contexts := []smb2types.NegotiateContext{
		{Type: smb2types.NegotiateContextPreauthIntegrityCapabilities, Data: preauth.Encode()},
		{Type: smb2types.NegotiateContextEncryptionCapabilities, Data: encryption.Encode()},
	}

	w := codec.NewWriterWithOrigin(128, smb2types.HeaderSize)
	w.WriteUint16(36) // StructureSize
	w.CountField16("dialects", 1)
	w.WriteUint16(uint16(n.SecurityMode))
	w.WriteUint16(0) // reserved
	w.WriteUint32(uint32(n.Capabilities))
	w.WriteBytes(n.ClientGUID[:])
	negCtxOffsetPos := w.ReservePlaceholder(4)
	w.CountField16("negotiateContexts", len(contexts))
	w.WriteUint16(0) // reserved2
	w.WriteUint16(uint16(smb2types.Dialect311))

	w.Pad(8)
	contextsStart := w.Position()
	smb2types.EncodeNegotiateContextList(w, contexts)

	var offBytes [4]byte
	offBytes[0] = byte(contextsStart)
	offBytes[1] = byte(contextsStart >> 8)
	offBytes[2] = byte(contextsStart >> 16)
	offBytes[3] = byte(contextsStart >> 24)
	w.WriteAt(negCtxOffsetPos, offBytes[:])
	return w.Bytes()
}

// NegotiateResponse is the server's dialect/capability/context selection.
type NegotiateResponse struct {
	SecurityMode   smb2types.SecurityMode
	Dialect        smb2types.Dialect
	ServerGUID     [16]byte
	Capabilities   smb2types.GlobalCapabilities
	MaxTransactSize uint32
	MaxReadSize    uint32
	MaxWriteSize   uint32
	SystemTime     time.Time
	SecurityBuffer []byte
	Contexts       []smb2types.NegotiateContext
}

func DecodeNegotiateResponse(data []byte) (*NegotiateResponse, error) {
	r := codec.NewReaderWithOrigin(data, smb2types.HeaderSize)
	r.ExpectUint16(65)
	resp := &NegotiateResponse{}
	resp.SecurityMode = smb2types.SecurityMode(r.ReadUint16())
	resp.Dialect = smb2types.Dialect(r.ReadUint16())
	ctxCount := r.CountField16("negotiateContexts")
	resp.ServerGUID = [16]byte(r.ReadBytes(16))
	resp.Capabilities = smb2types.GlobalCapabilities(r.ReadUint32())
	resp.MaxTransactSize = r.ReadUint32()
	resp.MaxReadSize = r.ReadUint32()
	resp.MaxWriteSize = r.ReadUint32()
	resp.SystemTime = smb2types.Filetime(r.ReadUint64()).ToTime()
	r.Skip(8) // ServerStartTime
	r.OffsetField16("secBuffer")
	secLen := r.CountField16("secBufferLen")
	r.OffsetField("negotiateContexts")

	if secLen > 0 {
		r.SeekToOffset("secBuffer")
		resp.SecurityBuffer = r.ReadBytes(int(secLen))
	}

	if ctxCount > 0 {
		r.SeekToOffset("negotiateContexts")
		contexts, err := smb2types.ParseNegotiateContextList(r, int(ctxCount))
		if err != nil {
			return nil, err
		}
		resp.Contexts = contexts
	}

	if r.Err() != nil {
		return nil, fmt.Errorf("decode negotiate response: %w", r.Err())
	}
	return resp, nil
}
