package smb2types

import "encoding/binary"

// FileId is the opaque 16-byte handle a Create response returns and every
// subsequent per-file operation consumes, released by Close.
type FileId struct {
	Persistent uint64
	Volatile   uint64
}

// Encode appends the 16-byte wire form of id to buf.
func (id FileId) Encode(buf []byte) []byte {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[0:8], id.Persistent)
	binary.LittleEndian.PutUint64(b[8:16], id.Volatile)
	return append(buf, b[:]...)
}

// DecodeFileId reads a FileId from the front of data, which must be at
// least 16 bytes.
func DecodeFileId(data []byte) FileId {
	return FileId{
		Persistent: binary.LittleEndian.Uint64(data[0:8]),
		Volatile:   binary.LittleEndian.Uint64(data[8:16]),
	}
}

// IsZero reports whether id is the all-zero sentinel, never a value
// returned by a real Create.
func (id FileId) IsZero() bool {
	return id.Persistent == 0 && id.Volatile == 0
}
