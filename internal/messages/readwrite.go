package messages

import (
	"fmt"

	"github.com/smb3go/smb3/internal/codec"
	"github.com/smb3go/smb3/internal/smb2types"
)

// MaxIOSize is the largest single Read/Write chunk this client issues; the
// façade's chunked read_all/write_all loops never exceed it.
const MaxIOSize = 64 * 1024

// ReadRequest reads up to Length bytes starting at Offset. Channel/
// RemainingBytes/ReadChannelInfo are left at zero/empty — no multi-channel
// support, per scope — except for the one-byte Buffer field some servers
// require to be present even though it carries no data.
type ReadRequest struct {
	FileId        smb2types.FileId
	Offset        uint64
	Length        uint32
	CreditRequest uint16 // preserved literal; see design notes
}

func (r *ReadRequest) Encode() []byte {
	w := codec.NewWriter(49)
	w.WriteUint16(49) // StructureSize
	w.WriteUint8(0)   // Padding
	w.WriteUint8(0)   // Flags
	w.WriteUint32(r.Length)
	w.WriteUint64(r.Offset)
	w.WriteBytes(r.FileId.Encode(nil))
	w.WriteUint32(0) // MinimumCount
	w.WriteUint32(0) // Channel
	w.WriteUint32(0) // RemainingBytes
	w.WriteUint16(0) // ReadChannelInfoOffset
	w.WriteUint16(0) // ReadChannelInfoLength
	w.WriteUint8(0)  // Buffer: one-byte placeholder some servers require present
	return w.Bytes()
}

// ReadResponse carries the data read, sized by the server's actual return
// (which may be less than requested on a short read and is STATUS_SUCCESS
// regardless; only end-of-file is signalled out of band as STATUS_END_OF_FILE).
type ReadResponse struct {
	Data []byte
}

func DecodeReadResponse(data []byte) (*ReadResponse, error) {
	r := codec.NewReaderWithOrigin(data, smb2types.HeaderSize)
	r.ExpectUint16(17)
	r.OffsetField16("data")
	dataLen := r.CountField32("dataLen")
	r.Skip(4) // DataRemaining
	r.Skip(4) // Reserved2
	r.SeekToOffset("data")
	payload := r.ReadBytes(int(dataLen))
	if r.Err() != nil {
		return nil, fmt.Errorf("decode read response: %w", r.Err())
	}
	return &ReadResponse{Data: payload}, nil
}

// WriteRequest writes Data at Offset.
type WriteRequest struct {
	FileId smb2types.FileId
	Offset uint64
	Data   []byte
}

func (w2 *WriteRequest) Encode() []byte {
	w := codec.NewWriterWithOrigin(49+len(w2.Data), smb2types.HeaderSize)
	w.WriteUint16(49) // StructureSize
	dataOffsetPos := w.ReservePlaceholder(2)
	w.CountField32("data", len(w2.Data))
	w.WriteUint64(w2.Offset)
	w.WriteBytes(w2.FileId.Encode(nil))
	w.WriteUint32(0) // Channel
	w.WriteUint32(0) // RemainingBytes
	w.WriteUint16(0) // WriteChannelInfoOffset
	w.WriteUint16(0) // WriteChannelInfoLength
	w.WriteUint32(0) // Flags

	here := w.Position()
	var off [2]byte
	off[0], off[1] = byte(here), byte(here>>8)
	w.WriteAt(dataOffsetPos, off[:])

	w.WriteBytes(w2.Data)
	return w.Bytes()
}

// WriteResponse reports how many bytes the server actually wrote.
type WriteResponse struct {
	Count uint32
}

func DecodeWriteResponse(data []byte) (*WriteResponse, error) {
	r := codec.NewReader(data)
	r.ExpectUint16(17)
	r.Skip(2) // Reserved
	resp := &WriteResponse{Count: r.ReadUint32()}
	if r.Err() != nil {
		return nil, fmt.Errorf("decode write response: %w", r.Err())
	}
	return resp, nil
}
