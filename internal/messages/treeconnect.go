package messages

import (
	"fmt"

	"github.com/smb3go/smb3/internal/codec"
	"github.com/smb3go/smb3/internal/smb2types"
)

// TreeConnectRequest connects to a share identified by a UNC path
// (`\\host\share`).
type TreeConnectRequest struct {
	Path string // e.g. `\\192.168.1.1\share`
}

func (t *TreeConnectRequest) Encode() []byte {
	w := codec.NewWriterWithOrigin(10+len(t.Path)*2, smb2types.HeaderSize)
	w.WriteUint16(9) // StructureSize
	w.WriteUint16(0) // Flags
	pathOffsetPos := w.ReservePlaceholder(2)
	w.CountField16("path", len(t.Path)*2)

	here := w.Position()
	var off [2]byte
	off[0], off[1] = byte(here), byte(here>>8)
	w.WriteAt(pathOffsetPos, off[:])

	w.WriteString16(t.Path)
	return w.Bytes()
}

// TreeConnectResponse carries the share type and access mask granted; the
// tree id itself lives in the enclosing response header.
type TreeConnectResponse struct {
	ShareType   uint8
	ShareFlags  uint32
	Capabilities uint32
	MaximalAccess uint32
}

func DecodeTreeConnectResponse(data []byte) (*TreeConnectResponse, error) {
	r := codec.NewReader(data)
	r.ExpectUint16(16)
	resp := &TreeConnectResponse{}
	resp.ShareType = r.ReadUint8()
	r.Skip(1) // reserved
	resp.ShareFlags = r.ReadUint32()
	resp.Capabilities = r.ReadUint32()
	resp.MaximalAccess = r.ReadUint32()
	if r.Err() != nil {
		return nil, fmt.Errorf("decode tree connect response: %w", r.Err())
	}
	return resp, nil
}
