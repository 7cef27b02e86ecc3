package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrShortRead is returned when there are insufficient bytes to complete a read.
var ErrShortRead = errors.New("codec: short read")

// ErrExpectMismatch is returned when ExpectUint16 finds a different value than expected.
var ErrExpectMismatch = errors.New("codec: expect mismatch")

// ErrMissingLength is returned when a field decode needs a count or offset
// that no earlier field recorded.
var ErrMissingLength = errors.New("codec: missing length directive")

// Reader sequentially decodes little-endian SMB wire data with error
// accumulation, tracking offset/count directives by field name so sibling
// fields can be located without hand-rolled arithmetic at each call site.
type Reader struct {
	data []byte
	pos  int
	err  error

	// origin marks the stream position position 0 of data corresponds to.
	// Nested/self-contained records decode with origin 0; top-level message
	// bodies decode with origin set to the header size, since the offsets
	// they read were recorded by the sender relative to the header, not to
	// the start of the body this Reader was constructed over.
	origin int

	offsets map[string]int
	counts  map[string]int
}

// NewReader wraps data for sequential decoding starting at position 0, with
// origin 0.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// NewReaderWithOrigin wraps data for sequential decoding whose recorded
// offset fields are relative to origin rather than to position 0 of data.
func NewReaderWithOrigin(data []byte, origin int) *Reader {
	return &Reader{data: data, origin: origin}
}

func (r *Reader) require(n int) bool {
	if r.err != nil {
		return false
	}
	if n < 0 || r.pos+n > len(r.data) {
		r.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortRead, n, r.pos, len(r.data)-r.pos)
		return false
	}
	return true
}

func (r *Reader) ReadUint8() uint8 {
	if !r.require(1) {
		return 0
	}
	v := r.data[r.pos]
	r.pos++
	return v
}

func (r *Reader) ReadUint16() uint16 {
	if !r.require(2) {
		return 0
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v
}

func (r *Reader) ReadUint32() uint32 {
	if !r.require(4) {
		return 0
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v
}

func (r *Reader) ReadUint64() uint64 {
	if !r.require(8) {
		return 0
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v
}

func (r *Reader) ReadBytes(n int) []byte {
	if !r.require(n) {
		return nil
	}
	b := make([]byte, n)
	copy(b, r.data[r.pos:r.pos+n])
	r.pos += n
	return b
}

func (r *Reader) Skip(n int) {
	if !r.require(n) {
		return
	}
	r.pos += n
}

func (r *Reader) ExpectUint16(expected uint16) {
	v := r.ReadUint16()
	if r.err != nil {
		return
	}
	if v != expected {
		r.err = fmt.Errorf("%w: expected 0x%04X, got 0x%04X at offset %d", ErrExpectMismatch, expected, v, r.pos-2)
	}
}

func (r *Reader) EnsureRemaining(n int) {
	r.require(n)
}

func (r *Reader) Err() error     { return r.err }
func (r *Reader) Remaining() int { return max(len(r.data)-r.pos, 0) }

// Position returns the current absolute position relative to origin.
func (r *Reader) Position() int { return r.origin + r.pos }
func (r *Reader) SetError(err error) {
	if r.err == nil {
		r.err = err
	}
}

// CountField16/CountField32 read a count field (element count or byte
// length) and remember it under name for a later ReadCounted/ReadString16
// call, matching `$count`/`$count_as_bytes` directives.
func (r *Reader) CountField16(name string) uint16 {
	v := r.ReadUint16()
	r.recordCount(name, int(v))
	return v
}

func (r *Reader) CountField32(name string) uint32 {
	v := r.ReadUint32()
	r.recordCount(name, int(v))
	return v
}

func (r *Reader) recordCount(name string, n int) {
	if r.err != nil {
		return
	}
	if r.counts == nil {
		r.counts = make(map[string]int)
	}
	r.counts[name] = n
}

// CountOf returns the count previously recorded for name, if any.
func (r *Reader) CountOf(name string) (int, bool) {
	n, ok := r.counts[name]
	return n, ok
}

// OffsetField reads a uint32 offset value and remembers it under name for a
// later SeekToOffset call, matching an `$offset` directive.
func (r *Reader) OffsetField(name string) uint32 {
	v := r.ReadUint32()
	if r.err != nil {
		return 0
	}
	r.recordOffset(name, int(v))
	return v
}

// OffsetField16 is OffsetField for 16-bit offset fields.
func (r *Reader) OffsetField16(name string) uint16 {
	v := r.ReadUint16()
	if r.err != nil {
		return 0
	}
	r.recordOffset(name, int(v))
	return v
}

func (r *Reader) recordOffset(name string, value int) {
	if r.offsets == nil {
		r.offsets = make(map[string]int)
	}
	r.offsets[name] = value
}

// PadDecode skips forward until the cursor is aligned to the given
// boundary, measured from the stream origin, matching a `$pad4` / `$pad8`
// directive on decode.
func (r *Reader) PadDecode(alignment int) {
	if r.err != nil || alignment <= 0 {
		return
	}
	remainder := (r.origin + r.pos) % alignment
	if remainder == 0 {
		return
	}
	r.Skip(alignment - remainder)
}

// SeekToOffset skips forward until the cursor reaches the absolute position
// recorded by OffsetField(name), relative to origin. It is a no-op if no
// offset was recorded for name, and an error if the recorded offset is
// behind the current cursor.
func (r *Reader) SeekToOffset(name string) {
	if r.err != nil {
		return
	}
	target, ok := r.offsets[name]
	if !ok {
		return
	}
	here := r.origin + r.pos
	if target < here {
		r.err = fmt.Errorf("codec: recorded offset for %q (%d) is behind cursor (%d)", name, target, here)
		return
	}
	r.pos = target - r.origin
}

// ReadString16 decodes a UTF-16LE string of byteLen bytes (byteLen/2 code
// units), using the Unicode replacement character for malformed surrogate
// pairs rather than failing the decode.
func (r *Reader) ReadString16(byteLen int) string {
	if byteLen < 0 || byteLen%2 != 0 {
		r.err = fmt.Errorf("codec: odd UTF-16 byte length %d", byteLen)
		return ""
	}
	raw := r.ReadBytes(byteLen)
	if r.err != nil {
		return ""
	}
	units := make([]uint16, byteLen/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}
	return decodeUTF16(units)
}

// ReadCountedString16 decodes a UTF-16LE string whose byte length was
// previously recorded under name via CountField16/32, erroring with
// ErrMissingLength if no such count exists. This is the direct analogue of
// the original's "deserialize_string requires sequence_limit to be set".
func (r *Reader) ReadCountedString16(name string) string {
	n, ok := r.CountOf(name)
	if !ok {
		r.err = fmt.Errorf("%w: %q", ErrMissingLength, name)
		return ""
	}
	return r.ReadString16(n)
}
