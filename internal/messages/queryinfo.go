package messages

import (
	"fmt"

	"github.com/smb3go/smb3/internal/codec"
	"github.com/smb3go/smb3/internal/smb2types"
)

// InfoType selects which namespace a QueryInfo/SetInfo class id belongs to.
// This client only ever uses file-level info (1).
const InfoTypeFile uint8 = 0x01

// outputBufferLength is the literal some servers are known to expect on
// QueryInfo; the rationale behind this exact number isn't documented
// upstream, so it is preserved as a named constant rather than guessed at.
const outputBufferLength = 8293

// FileInfo is implemented by every info-class type this client can request
// via the generic query_info path: it knows its own numeric class id and
// how to decode itself from a QueryInfo response payload.
type FileInfo interface {
	InfoClass() FileInformationClass
}

// QueryInfoRequest asks for one info-class record on an open file.
type QueryInfoRequest struct {
	InfoClass          FileInformationClass
	FileId             smb2types.FileId
	OutputBufferLength uint32
}

func (q *QueryInfoRequest) Encode() []byte {
	w := codec.NewWriter(40)
	w.WriteUint16(41) // StructureSize
	w.WriteUint8(InfoTypeFile)
	w.WriteUint8(uint8(q.InfoClass))
	obl := q.OutputBufferLength
	if obl == 0 {
		obl = outputBufferLength
	}
	w.WriteUint32(obl)
	w.WriteUint16(0) // InputBufferOffset (unused, no trailing input)
	w.WriteUint16(0) // Reserved
	w.WriteUint32(0) // InputBufferLength
	w.WriteUint32(0) // AdditionalInformation
	w.WriteUint32(0) // Flags
	w.WriteBytes(q.FileId.Encode(nil))
	return w.Bytes()
}

// QueryInfoResponse carries the raw info-class payload; the caller decodes
// it with the decoder matching the class it asked for.
type QueryInfoResponse struct {
	Buffer []byte
}

func DecodeQueryInfoResponse(data []byte) (*QueryInfoResponse, error) {
	r := codec.NewReaderWithOrigin(data, smb2types.HeaderSize)
	r.ExpectUint16(9)
	r.OffsetField16("buffer")
	bufLen := r.CountField32("bufferLen")
	r.SeekToOffset("buffer")
	buf := r.ReadBytes(int(bufLen))
	if r.Err() != nil {
		return nil, fmt.Errorf("decode query info response: %w", r.Err())
	}
	return &QueryInfoResponse{Buffer: buf}, nil
}

// SetInfoRequest writes one info-class record to an open file (rename,
// resize, and similar metadata mutations).
type SetInfoRequest struct {
	InfoClass FileInformationClass
	FileId    smb2types.FileId
	Buffer    []byte
}

func (s *SetInfoRequest) Encode() []byte {
	w := codec.NewWriterWithOrigin(33+len(s.Buffer), smb2types.HeaderSize)
	w.WriteUint16(33) // StructureSize
	w.WriteUint8(InfoTypeFile)
	w.WriteUint8(uint8(s.InfoClass))
	w.CountField32("buffer", len(s.Buffer))
	bufOffsetPos := w.ReservePlaceholder(2)
	w.WriteUint16(0) // Reserved
	w.WriteUint32(0) // AdditionalInformation
	w.WriteBytes(s.FileId.Encode(nil))

	here := w.Position()
	var off [2]byte
	off[0], off[1] = byte(here), byte(here>>8)
	w.WriteAt(bufOffsetPos, off[:])

	w.WriteBytes(s.Buffer)
	return w.Bytes()
}

// SetInfoResponse carries no payload beyond success/failure.
type SetInfoResponse struct{}

func DecodeSetInfoResponse(data []byte) (*SetInfoResponse, error) {
	r := codec.NewReader(data)
	r.ExpectUint16(2)
	if r.Err() != nil {
		return nil, fmt.Errorf("decode set info response: %w", r.Err())
	}
	return &SetInfoResponse{}, nil
}
