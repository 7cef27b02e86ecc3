package messages

import (
	"fmt"

	"github.com/smb3go/smb3/internal/codec"
	"github.com/smb3go/smb3/internal/smb2types"
)

// FileBasicInformation carries timestamps and attributes.
type FileBasicInformation struct {
	CreationTime   smb2types.Filetime
	LastAccessTime smb2types.Filetime
	LastWriteTime  smb2types.Filetime
	ChangeTime     smb2types.Filetime
	FileAttributes uint32
}

func (FileBasicInformation) InfoClass() FileInformationClass { return FileBasicInformationClass }

func DecodeFileBasicInformation(data []byte) (*FileBasicInformation, error) {
	r := codec.NewReader(data)
	info := &FileBasicInformation{
		CreationTime:   smb2types.Filetime(r.ReadUint64()),
		LastAccessTime: smb2types.Filetime(r.ReadUint64()),
		LastWriteTime:  smb2types.Filetime(r.ReadUint64()),
		ChangeTime:     smb2types.Filetime(r.ReadUint64()),
		FileAttributes: r.ReadUint32(),
	}
	r.Skip(4) // Reserved
	if r.Err() != nil {
		return nil, fmt.Errorf("decode FileBasicInformation: %w", r.Err())
	}
	return info, nil
}

// FileStandardInformation carries allocation/end-of-file and link/delete state.
type FileStandardInformation struct {
	AllocationSize uint64
	EndOfFile      uint64
	NumberOfLinks  uint32
	DeletePending  bool
	Directory      bool
}

func (FileStandardInformation) InfoClass() FileInformationClass { return FileStandardInformationClass }

func DecodeFileStandardInformation(data []byte) (*FileStandardInformation, error) {
	r := codec.NewReader(data)
	info := &FileStandardInformation{
		AllocationSize: r.ReadUint64(),
		EndOfFile:      r.ReadUint64(),
		NumberOfLinks:  r.ReadUint32(),
	}
	info.DeletePending = r.ReadUint8() != 0
	info.Directory = r.ReadUint8() != 0
	r.Skip(2) // Reserved
	if r.Err() != nil {
		return nil, fmt.Errorf("decode FileStandardInformation: %w", r.Err())
	}
	return info, nil
}

// FileInternalInformation carries the server's internal file index number.
type FileInternalInformation struct {
	IndexNumber uint64
}

func (FileInternalInformation) InfoClass() FileInformationClass { return FileInternalInformationClass }

func DecodeFileInternalInformation(data []byte) (*FileInternalInformation, error) {
	r := codec.NewReader(data)
	info := &FileInternalInformation{IndexNumber: r.ReadUint64()}
	if r.Err() != nil {
		return nil, fmt.Errorf("decode FileInternalInformation: %w", r.Err())
	}
	return info, nil
}

// FileEaInformation carries the extended-attribute buffer size.
type FileEaInformation struct {
	EaSize uint32
}

func (FileEaInformation) InfoClass() FileInformationClass { return FileEaInformationClass }

func DecodeFileEaInformation(data []byte) (*FileEaInformation, error) {
	r := codec.NewReader(data)
	info := &FileEaInformation{EaSize: r.ReadUint32()}
	if r.Err() != nil {
		return nil, fmt.Errorf("decode FileEaInformation: %w", r.Err())
	}
	return info, nil
}

// FileAccessInformation carries the access mask granted at open time.
type FileAccessInformation struct {
	AccessFlags uint32
}

func (FileAccessInformation) InfoClass() FileInformationClass { return FileAccessInformationClass }

func DecodeFileAccessInformation(data []byte) (*FileAccessInformation, error) {
	r := codec.NewReader(data)
	info := &FileAccessInformation{AccessFlags: r.ReadUint32()}
	if r.Err() != nil {
		return nil, fmt.Errorf("decode FileAccessInformation: %w", r.Err())
	}
	return info, nil
}

// FilePositionInformation carries the file pointer position.
type FilePositionInformation struct {
	CurrentByteOffset uint64
}

func (FilePositionInformation) InfoClass() FileInformationClass { return FilePositionInformationClass }

func DecodeFilePositionInformation(data []byte) (*FilePositionInformation, error) {
	r := codec.NewReader(data)
	info := &FilePositionInformation{CurrentByteOffset: r.ReadUint64()}
	if r.Err() != nil {
		return nil, fmt.Errorf("decode FilePositionInformation: %w", r.Err())
	}
	return info, nil
}

// FileModeInformation carries the mode bits (e.g. FILE_WRITE_THROUGH) set
// at open time.
type FileModeInformation struct {
	Mode uint32
}

func (FileModeInformation) InfoClass() FileInformationClass { return FileModeInformationClass }

func DecodeFileModeInformation(data []byte) (*FileModeInformation, error) {
	r := codec.NewReader(data)
	info := &FileModeInformation{Mode: r.ReadUint32()}
	if r.Err() != nil {
		return nil, fmt.Errorf("decode FileModeInformation: %w", r.Err())
	}
	return info, nil
}

// FileAlignmentInformation carries the device's required buffer alignment.
type FileAlignmentInformation struct {
	AlignmentRequirement uint32
}

func (FileAlignmentInformation) InfoClass() FileInformationClass {
	return FileAlignmentInformationClass
}

func DecodeFileAlignmentInformation(data []byte) (*FileAlignmentInformation, error) {
	r := codec.NewReader(data)
	info := &FileAlignmentInformation{AlignmentRequirement: r.ReadUint32()}
	if r.Err() != nil {
		return nil, fmt.Errorf("decode FileAlignmentInformation: %w", r.Err())
	}
	return info, nil
}

// FileNameInformation carries the file's full path as the server sees it.
type FileNameInformation struct {
	FileName string
}

func (FileNameInformation) InfoClass() FileInformationClass { return FileInformationClass(0x09) }

func DecodeFileNameInformation(data []byte) (*FileNameInformation, error) {
	r := codec.NewReader(data)
	nameLen := r.CountField32("name")
	name := r.ReadString16(int(nameLen))
	if r.Err() != nil {
		return nil, fmt.Errorf("decode FileNameInformation: %w", r.Err())
	}
	return &FileNameInformation{FileName: name}, nil
}

// FileAllInformation composes the narrower classes the server returns in a
// single response when FileAllInformationClass is requested.
type FileAllInformation struct {
	Basic    FileBasicInformation
	Standard FileStandardInformation
	Internal FileInternalInformation
	Ea       FileEaInformation
	Access   FileAccessInformation
	Position FilePositionInformation
	Mode     FileModeInformation
	Alignment FileAlignmentInformation
	Name     FileNameInformation
}

func (FileAllInformation) InfoClass() FileInformationClass { return FileAllInformationClass }

func DecodeFileAllInformation(data []byte) (*FileAllInformation, error) {
	r := codec.NewReader(data)
	all := &FileAllInformation{}
	all.Basic = FileBasicInformation{
		CreationTime:   smb2types.Filetime(r.ReadUint64()),
		LastAccessTime: smb2types.Filetime(r.ReadUint64()),
		LastWriteTime:  smb2types.Filetime(r.ReadUint64()),
		ChangeTime:     smb2types.Filetime(r.ReadUint64()),
		FileAttributes: r.ReadUint32(),
	}
	r.Skip(4) // Reserved
	all.Standard = FileStandardInformation{
		AllocationSize: r.ReadUint64(),
		EndOfFile:      r.ReadUint64(),
		NumberOfLinks:  r.ReadUint32(),
	}
	all.Standard.DeletePending = r.ReadUint8() != 0
	all.Standard.Directory = r.ReadUint8() != 0
	r.Skip(2) // Reserved
	all.Internal = FileInternalInformation{IndexNumber: r.ReadUint64()}
	all.Ea = FileEaInformation{EaSize: r.ReadUint32()}
	all.Access = FileAccessInformation{AccessFlags: r.ReadUint32()}
	all.Position = FilePositionInformation{CurrentByteOffset: r.ReadUint64()}
	all.Mode = FileModeInformation{Mode: r.ReadUint32()}
	all.Alignment = FileAlignmentInformation{AlignmentRequirement: r.ReadUint32()}
	nameLen := r.CountField32("name")
	all.Name = FileNameInformation{FileName: r.ReadString16(int(nameLen))}
	if r.Err() != nil {
		return nil, fmt.Errorf("decode FileAllInformation: %w", r.Err())
	}
	return all, nil
}

// FileEndOfFileInformation sets a file's length (used by Resize).
type FileEndOfFileInformation struct {
	EndOfFile uint64
}

func (FileEndOfFileInformation) InfoClass() FileInformationClass {
	return FileEndOfFileInformationClass
}

func (f FileEndOfFileInformation) Encode() []byte {
	w := codec.NewWriter(8)
	w.WriteUint64(f.EndOfFile)
	return w.Bytes()
}

// FileRenameInformation renames or moves an open file to NewName, which
// must be a full path relative to the share root.
type FileRenameInformation struct {
	ReplaceIfExists bool
	NewName         string
}

func (FileRenameInformation) InfoClass() FileInformationClass { return FileRenameInformationClass }

func (f FileRenameInformation) Encode() []byte {
	w := codec.NewWriter(20 + len(f.NewName)*2)
	if f.ReplaceIfExists {
		w.WriteUint8(1)
	} else {
		w.WriteUint8(0)
	}
	w.WriteZeros(15) // Reserved (7) + RootDirectory (8, always 0, no relative renames)
	w.CountField32("name", len(f.NewName)*2)
	w.WriteString16(f.NewName)
	return w.Bytes()
}
