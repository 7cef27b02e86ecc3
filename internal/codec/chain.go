package codec

// ChainWriter accumulates a next-entry-offset chain (directory listings,
// create-context lists): each element is a self-contained encoded record
// whose first four bytes are a NextEntryOffset the writer backpatches once
// the following element's start position is known. The last element's
// NextEntryOffset is left as zero.
type ChainWriter struct {
	w              *Writer
	prevNextOffset int
	started        bool
}

// NewChainWriter wraps w for chain encoding. w should be empty or
// positioned at the start of the chain.
func NewChainWriter(w *Writer) *ChainWriter {
	return &ChainWriter{w: w}
}

// Append adds one element's already-encoded bytes (including its own
// leading 4-byte NextEntryOffset placeholder, which must be zero) to the
// chain, patching the previous element's NextEntryOffset to point here.
func (c *ChainWriter) Append(elementBytes []byte) {
	here := c.w.Position()
	if c.started {
		var nb [4]byte
		n := uint32(here - c.prevNextOffset)
		nb[0], nb[1], nb[2], nb[3] = byte(n), byte(n>>8), byte(n>>16), byte(n>>24)
		c.w.WriteAt(c.prevNextOffset, nb[:])
	}
	c.prevNextOffset = here
	c.started = true
	c.w.WriteBytes(elementBytes)
}

// ChainEntry is one decoded element of a next-entry-offset chain along with
// the raw bytes of its own record: Body starts after the 4-byte
// NextEntryOffset and runs to the start of the next element (so it includes
// any padding before it), or to the end of the data for the last element.
type ChainEntry struct {
	NextEntryOffset uint32
	Body            []byte
}

// DecodeChain splits data into a next-entry-offset chain of elements. Each
// element's NextEntryOffset measures the distance from that element's own
// start to the next element's start (or 0 for the last element), matching
// [MS-SMB2]'s directory/create-context listing convention.
func DecodeChain(data []byte) ([]ChainEntry, error) {
	var entries []ChainEntry
	offset := 0
	for offset < len(data) {
		r := NewReader(data[offset:])
		next := r.ReadUint32()
		if r.Err() != nil {
			return nil, r.Err()
		}
		var body []byte
		if next == 0 {
			body = data[offset+4:]
		} else {
			if int(next) > len(data)-offset {
				return nil, ErrShortRead
			}
			body = data[offset+4 : offset+int(next)]
		}
		entries = append(entries, ChainEntry{NextEntryOffset: next, Body: body})
		if next == 0 {
			break
		}
		offset += int(next)
	}
	return entries, nil
}
