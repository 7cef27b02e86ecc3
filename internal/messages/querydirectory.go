package messages

import (
	"fmt"

	"github.com/smb3go/smb3/internal/codec"
	"github.com/smb3go/smb3/internal/smb2types"
)

// FileInformationClass identifies the shape of a QueryDirectory/QueryInfo
// record, both the request-side "which class do I want" selector and the
// response-side "how do I decode this" tag.
type FileInformationClass uint8

const (
	FileDirectoryInformation   FileInformationClass = 0x01
	FileFullDirectoryInformation FileInformationClass = 0x02
	FileBothDirectoryInformation FileInformationClass = 0x03
	FileBasicInformationClass   FileInformationClass = 0x04
	FileStandardInformationClass FileInformationClass = 0x05
	FileInternalInformationClass FileInformationClass = 0x06
	FileEaInformationClass      FileInformationClass = 0x07
	FileAccessInformationClass  FileInformationClass = 0x08
	FileRenameInformationClass  FileInformationClass = 0x0A
	FileNamesInformation       FileInformationClass = 0x0C
	FilePositionInformationClass FileInformationClass = 0x0E
	FileModeInformationClass    FileInformationClass = 0x10
	FileAlignmentInformationClass FileInformationClass = 0x11
	FileAllInformationClass     FileInformationClass = 0x12
	FileEndOfFileInformationClass FileInformationClass = 0x14
	FileIdFullDirectoryInformation FileInformationClass = 0x26
	FileIdBothDirectoryInformation FileInformationClass = 0x25
)

// QueryDirectory flags.
const (
	QueryDirRestartScans   uint8 = 0x01
	QueryDirReturnSingleEntry uint8 = 0x02
)

// QueryDirectoryRequest lists a directory's entries, one chunk at a time;
// the façade loops this until STATUS_NO_MORE_FILES.
type QueryDirectoryRequest struct {
	InfoClass     FileInformationClass
	Flags         uint8
	FileId        smb2types.FileId
	SearchPattern string
	OutputBufferLength uint32
}

func (q *QueryDirectoryRequest) Encode() []byte {
	w := codec.NewWriterWithOrigin(36+len(q.SearchPattern)*2, smb2types.HeaderSize)
	w.WriteUint16(33) // StructureSize
	w.WriteUint8(uint8(q.InfoClass))
	w.WriteUint8(q.Flags)
	w.WriteUint32(0) // FileIndex
	w.WriteBytes(q.FileId.Encode(nil))
	patternOffsetPos := w.ReservePlaceholder(2)
	w.CountField16("pattern", len(q.SearchPattern)*2)
	w.WriteUint32(q.OutputBufferLength)

	here := w.Position()
	var off [2]byte
	off[0], off[1] = byte(here), byte(here>>8)
	w.WriteAt(patternOffsetPos, off[:])

	w.WriteString16(q.SearchPattern)
	return w.Bytes()
}

// QueryDirectoryResponse is a next-entry-offset chain of raw entry records;
// the caller decodes each ChainEntry.Body according to the info class it
// requested.
type QueryDirectoryResponse struct {
	Entries []codec.ChainEntry
}

func DecodeQueryDirectoryResponse(data []byte) (*QueryDirectoryResponse, error) {
	r := codec.NewReaderWithOrigin(data, smb2types.HeaderSize)
	r.ExpectUint16(9)
	r.OffsetField16("buffer")
	bufLen := r.CountField16("bufferLen")
	r.SeekToOffset("buffer")
	buf := r.ReadBytes(int(bufLen))
	if r.Err() != nil {
		return nil, fmt.Errorf("decode query directory response: %w", r.Err())
	}
	entries, err := codec.DecodeChain(buf)
	if err != nil {
		return nil, fmt.Errorf("decode query directory entry chain: %w", err)
	}
	return &QueryDirectoryResponse{Entries: entries}, nil
}

// FileIdBothDirectoryInformationEntry is the directory-listing record this
// client requests (class FileIdBothDirectoryInformation), chosen because it
// carries both the 8.3 short name and the 64-bit FileId in one record.
type FileIdBothDirectoryInformationEntry struct {
	CreationTime   smb2types.Filetime
	LastAccessTime smb2types.Filetime
	LastWriteTime  smb2types.Filetime
	ChangeTime     smb2types.Filetime
	EndOfFile      uint64
	AllocationSize uint64
	FileAttributes uint32
	FileId         uint64
	FileName       string
}

func DecodeFileIdBothDirectoryInformationEntry(body []byte) (*FileIdBothDirectoryInformationEntry, error) {
	r := codec.NewReader(body)
	r.Skip(4) // FileIndex
	e := &FileIdBothDirectoryInformationEntry{}
	e.CreationTime = smb2types.Filetime(r.ReadUint64())
	e.LastAccessTime = smb2types.Filetime(r.ReadUint64())
	e.LastWriteTime = smb2types.Filetime(r.ReadUint64())
	e.ChangeTime = smb2types.Filetime(r.ReadUint64())
	e.EndOfFile = r.ReadUint64()
	e.AllocationSize = r.ReadUint64()
	e.FileAttributes = r.ReadUint32()
	nameLen := r.CountField32("name")
	r.Skip(4) // EaSize
	r.Skip(1) // ShortNameLength
	r.Skip(1) // Reserved1
	r.Skip(24) // ShortName (fixed 24-byte buffer)
	r.Skip(2) // Reserved2
	e.FileId = r.ReadUint64()
	e.FileName = r.ReadString16(int(nameLen))
	if r.Err() != nil {
		return nil, fmt.Errorf("decode directory entry: %w", r.Err())
	}
	return e, nil
}
