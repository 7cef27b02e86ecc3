package messages

import (
	"fmt"

	"github.com/smb3go/smb3/internal/codec"
	"github.com/smb3go/smb3/internal/smb2types"
)

// SessionSetupRequest carries one leg of the NTLM/GSS exchange.
type SessionSetupRequest struct {
	SecurityMode smb2types.SecurityMode
	SecurityBlob []byte
}

func (s *SessionSetupRequest) Encode() []byte {
	w := codec.NewWriterWithOrigin(32+len(s.SecurityBlob), smb2types.HeaderSize)
	w.WriteUint16(25) // StructureSize
	w.WriteUint8(0)   // Flags (no binding to a prior session)
	w.WriteUint8(uint8(s.SecurityMode))
	w.WriteUint32(0) // Capabilities
	w.WriteUint32(0) // Channel
	secOffsetPos := w.ReservePlaceholder(2)
	w.CountField16("blob", len(s.SecurityBlob))
	w.WriteUint64(0) // PreviousSessionId

	here := w.Position()
	var off [2]byte
	off[0], off[1] = byte(here), byte(here>>8)
	w.WriteAt(secOffsetPos, off[:])
	w.WriteBytes(s.SecurityBlob)
	return w.Bytes()
}

// SessionSetupResponse is returned for every leg of the exchange; Status in
// the enclosing response header (not this type) is what tells the caller
// whether another leg is needed.
type SessionSetupResponse struct {
	SessionFlags uint16
	SecurityBlob []byte
}

func DecodeSessionSetupResponse(data []byte) (*SessionSetupResponse, error) {
	r := codec.NewReaderWithOrigin(data, smb2types.HeaderSize)
	r.ExpectUint16(9)
	resp := &SessionSetupResponse{}
	resp.SessionFlags = r.ReadUint16()
	r.OffsetField16("blob")
	blobLen := r.CountField16("blobLen")
	r.SeekToOffset("blob")
	resp.SecurityBlob = r.ReadBytes(int(blobLen))
	if r.Err() != nil {
		return nil, fmt.Errorf("decode session setup response: %w", r.Err())
	}
	return resp, nil
}
