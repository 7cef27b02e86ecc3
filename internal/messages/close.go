package messages

import (
	"fmt"

	"github.com/smb3go/smb3/internal/codec"
	"github.com/smb3go/smb3/internal/smb2types"
)

// CloseRequest releases a FileId obtained from Create.
type CloseRequest struct {
	FileId smb2types.FileId
}

func (c *CloseRequest) Encode() []byte {
	w := codec.NewWriter(24)
	w.WriteUint16(24) // StructureSize
	w.WriteUint16(0)  // Flags
	w.WriteUint32(0)  // Reserved
	w.WriteBytes(c.FileId.Encode(nil))
	return w.Bytes()
}

// CloseResponse carries the final attributes at close time; this client
// only checks for success and does not surface these fields further.
type CloseResponse struct {
	EndOfFile uint64
}

func DecodeCloseResponse(data []byte) (*CloseResponse, error) {
	r := codec.NewReader(data)
	r.ExpectUint16(60)
	r.Skip(2) // Flags
	r.Skip(4) // Reserved
	r.Skip(8) // CreationTime
	r.Skip(8) // LastAccessTime
	r.Skip(8) // LastWriteTime
	r.Skip(8) // ChangeTime
	r.Skip(8) // AllocationSize
	eof := r.ReadUint64()
	r.Skip(4) // FileAttributes
	if r.Err() != nil {
		return nil, fmt.Errorf("decode close response: %w", r.Err())
	}
	return &CloseResponse{EndOfFile: eof}, nil
}

// FlushRequest flushes a file's cached writes to stable storage.
type FlushRequest struct {
	FileId smb2types.FileId
}

func (f *FlushRequest) Encode() []byte {
	w := codec.NewWriter(24)
	w.WriteUint16(24) // StructureSize
	w.WriteUint16(0)  // Reserved1
	w.WriteUint32(0)  // Reserved2
	w.WriteBytes(f.FileId.Encode(nil))
	return w.Bytes()
}

// FlushResponse carries no payload beyond success/failure.
type FlushResponse struct{}

func DecodeFlushResponse(data []byte) (*FlushResponse, error) {
	r := codec.NewReader(data)
	r.ExpectUint16(4)
	r.Skip(2) // Reserved
	if r.Err() != nil {
		return nil, fmt.Errorf("decode flush response: %w", r.Err())
	}
	return &FlushResponse{}, nil
}
