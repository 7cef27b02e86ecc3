package smb2types

import (
	"encoding/binary"
	"errors"
)

// ProtocolID is the 4-byte magic every SMB2/3 message starts with.
var ProtocolID = [4]byte{0xFE, 'S', 'M', 'B'}

// HeaderSize is the fixed wire size of an SMB2 message header.
const HeaderSize = 64

// HeaderFlags is the SMB2 header flag word.
type HeaderFlags uint32

const (
	FlagServerToRedir HeaderFlags = 0x00000001 // response
	FlagAsyncCommand  HeaderFlags = 0x00000002 // never set by this client
	FlagRelatedOperations HeaderFlags = 0x00000004 // compounding, unused
	FlagSigned        HeaderFlags = 0x00000008
	FlagPriorityMask  HeaderFlags = 0x00000070
	FlagDFSOperations HeaderFlags = 0x10000000
)

var (
	ErrInvalidProtocolID  = errors.New("smb2types: invalid SMB2 protocol ID")
	ErrMessageTooShort    = errors.New("smb2types: message too short for SMB2 header")
	ErrInvalidHeaderSize  = errors.New("smb2types: invalid SMB2 header structure size")
)

// Header is the 64-byte fixed SMB2 message header shared by every request
// and response. On requests, ChannelSequence/Reserved occupy the bytes of
// the Status word; this client never sets them.
type Header struct {
	CreditCharge  uint16
	Status        Status // encoded as given; this client leaves it 0 on requests
	Command       Command
	CreditRequest uint16 // on a response this is the credit grant
	Flags         HeaderFlags
	NextCommand   uint32 // compounding offset, always 0 (no compounding)
	MessageID     uint64
	ProcessID     uint32
	TreeID        uint32
	SessionID     uint64
	Signature     [16]byte
}

// Encode appends the 64-byte wire form of h to buf and returns the result.
func (h *Header) Encode(buf []byte) []byte {
	var b [HeaderSize]byte
	copy(b[0:4], ProtocolID[:])
	binary.LittleEndian.PutUint16(b[4:6], HeaderSize)
	binary.LittleEndian.PutUint16(b[6:8], h.CreditCharge)
	binary.LittleEndian.PutUint32(b[8:12], uint32(h.Status))
	binary.LittleEndian.PutUint16(b[12:14], uint16(h.Command))
	binary.LittleEndian.PutUint16(b[14:16], h.CreditRequest)
	binary.LittleEndian.PutUint32(b[16:20], uint32(h.Flags))
	binary.LittleEndian.PutUint32(b[20:24], h.NextCommand)
	binary.LittleEndian.PutUint64(b[24:32], h.MessageID)
	binary.LittleEndian.PutUint32(b[32:36], h.ProcessID)
	binary.LittleEndian.PutUint32(b[36:40], h.TreeID)
	binary.LittleEndian.PutUint64(b[40:48], h.SessionID)
	copy(b[48:64], h.Signature[:])
	return append(buf, b[:]...)
}

// ParseHeader decodes the fixed 64-byte header from the front of data.
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, ErrMessageTooShort
	}
	if data[0] != ProtocolID[0] || data[1] != ProtocolID[1] || data[2] != ProtocolID[2] || data[3] != ProtocolID[3] {
		return nil, ErrInvalidProtocolID
	}
	if binary.LittleEndian.Uint16(data[4:6]) != HeaderSize {
		return nil, ErrInvalidHeaderSize
	}
	h := &Header{
		CreditCharge:  binary.LittleEndian.Uint16(data[6:8]),
		Status:        Status(binary.LittleEndian.Uint32(data[8:12])),
		Command:       Command(binary.LittleEndian.Uint16(data[12:14])),
		CreditRequest: binary.LittleEndian.Uint16(data[14:16]),
		Flags:         HeaderFlags(binary.LittleEndian.Uint32(data[16:20])),
		NextCommand:   binary.LittleEndian.Uint32(data[20:24]),
		MessageID:     binary.LittleEndian.Uint64(data[24:32]),
		ProcessID:     binary.LittleEndian.Uint32(data[32:36]),
		TreeID:        binary.LittleEndian.Uint32(data[36:40]),
		SessionID:     binary.LittleEndian.Uint64(data[40:48]),
	}
	copy(h.Signature[:], data[48:64])
	return h, nil
}

// IsSigned reports whether the signature field is non-zero, which this
// client treats as the sole signal that a message was signed (matching the
// "signed ⇔ signature bytes were computed" invariant).
func (h *Header) IsSigned() bool {
	for _, b := range h.Signature {
		if b != 0 {
			return true
		}
	}
	return false
}
