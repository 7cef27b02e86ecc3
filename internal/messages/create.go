package messages

import (
	"fmt"

	"github.com/smb3go/smb3/internal/codec"
	"github.com/smb3go/smb3/internal/smb2types"
)

// Access mask bits this client sets on Create requests.
const (
	AccessRead       uint32 = 0x00000001 // FILE_READ_DATA
	AccessWrite      uint32 = 0x00000002 // FILE_WRITE_DATA
	AccessReadAttrs  uint32 = 0x00000080 // FILE_READ_ATTRIBUTES
	AccessDelete     uint32 = 0x00010000
	AccessGenericAll uint32 = 0x10000000
)

// Create disposition values.
const (
	DispositionSupersede   uint32 = 0
	DispositionOpen        uint32 = 1
	DispositionCreate      uint32 = 2
	DispositionOpenIf      uint32 = 3
	DispositionOverwrite   uint32 = 4
	DispositionOverwriteIf uint32 = 5
)

// Create option bits.
const (
	OptionDirectoryFile   uint32 = 0x00000001
	OptionNonDirectoryFile uint32 = 0x00000040
	OptionDeleteOnClose   uint32 = 0x00001000
)

// Share access bits.
const (
	ShareRead   uint32 = 0x00000001
	ShareWrite  uint32 = 0x00000002
	ShareDelete uint32 = 0x00000004
)

// CreateRequest opens or creates a file or directory. This client never
// requests an oplock (level None) and never sets leases, per scope.
type CreateRequest struct {
	DesiredAccess  uint32
	FileAttributes uint32
	ShareAccess    uint32
	Disposition    uint32
	CreateOptions  uint32
	Name           string // empty means "open the share root"
}

func (c *CreateRequest) Encode() []byte {
	w := codec.NewWriterWithOrigin(58+len(c.Name)*2, smb2types.HeaderSize)
	w.WriteUint16(57) // StructureSize
	w.WriteUint8(0)   // SecurityFlags, reserved
	w.WriteUint8(0)   // RequestedOplockLevel = SMB2_OPLOCK_LEVEL_NONE
	w.WriteUint32(2)  // ImpersonationLevel = Impersonation
	w.WriteUint64(0)  // SmbCreateFlags
	w.WriteUint64(0)  // Reserved
	w.WriteUint32(c.DesiredAccess)
	w.WriteUint32(c.FileAttributes)
	w.WriteUint32(c.ShareAccess)
	w.WriteUint32(c.Disposition)
	w.WriteUint32(c.CreateOptions)

	nameOffsetPos := w.ReservePlaceholder(2)
	w.CountField16("name", len(c.Name)*2)
	w.WriteUint32(0) // CreateContextsOffset
	w.WriteUint32(0) // CreateContextsLength

	here := w.Position()
	var off [2]byte
	off[0], off[1] = byte(here), byte(here>>8)
	w.WriteAt(nameOffsetPos, off[:])

	w.WriteString16(c.Name)
	return w.Bytes()
}

// CreateResponse returns the opened file's handle and basic attributes.
type CreateResponse struct {
	OplockLevel    uint8
	CreateAction   uint32
	CreationTime   smb2types.Filetime
	LastAccessTime smb2types.Filetime
	LastWriteTime  smb2types.Filetime
	ChangeTime     smb2types.Filetime
	AllocationSize uint64
	EndOfFile      uint64
	FileAttributes uint32
	FileId         smb2types.FileId
}

func DecodeCreateResponse(data []byte) (*CreateResponse, error) {
	r := codec.NewReader(data)
	r.ExpectUint16(89)
	resp := &CreateResponse{}
	resp.OplockLevel = r.ReadUint8()
	r.Skip(1) // Flags
	resp.CreateAction = r.ReadUint32()
	resp.CreationTime = smb2types.Filetime(r.ReadUint64())
	resp.LastAccessTime = smb2types.Filetime(r.ReadUint64())
	resp.LastWriteTime = smb2types.Filetime(r.ReadUint64())
	resp.ChangeTime = smb2types.Filetime(r.ReadUint64())
	resp.AllocationSize = r.ReadUint64()
	resp.EndOfFile = r.ReadUint64()
	resp.FileAttributes = r.ReadUint32()
	r.Skip(4) // Reserved2
	fileID := r.ReadBytes(16)
	r.Skip(4) // CreateContextsOffset
	r.Skip(4) // CreateContextsLength
	if r.Err() != nil {
		return nil, fmt.Errorf("decode create response: %w", r.Err())
	}
	resp.FileId = smb2types.DecodeFileId(fileID)
	return resp, nil
}
