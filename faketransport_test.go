package smb3

import (
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/smb3go/smb3/internal/codec"
	"github.com/smb3go/smb3/internal/ntlm"
	"github.com/smb3go/smb3/internal/smb2types"
)

// writeFrameT/readFrameT duplicate the engine package's private framing so
// these tests can drive a fake server without reaching into internal/engine.
func writeFrameT(w io.Writer, payload []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

func readFrameT(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	payload := make([]byte, binary.BigEndian.Uint32(lenBuf[:]))
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// commandHandler answers one request and returns the terminal status and
// response body (header-stripped) to send back.
type commandHandler func(reqHeader *smb2types.Header, body []byte) (smb2types.Status, []byte)

// fakeNTLMEngine completes authentication in a single leg, matching a
// server that never challenges.
type fakeNTLMEngine struct {
	key [16]byte
}

func (f *fakeNTLMEngine) Step(input []byte) ([]byte, ntlm.StepStatus, error) {
	return []byte{0xA1, 0xA2, 0xA3}, ntlm.StatusComplete, nil
}

func (f *fakeNTLMEngine) SessionKey() ([16]byte, error) { return f.key, nil }

// fakeMultiLegNTLMEngine challenges once before completing, matching a
// server that requires two SessionSetup legs, to exercise the
// MORE_PROCESSING_REQUIRED loop in engine.Authenticate.
type fakeMultiLegNTLMEngine struct {
	key   [16]byte
	steps int
}

func (f *fakeMultiLegNTLMEngine) Step(input []byte) ([]byte, ntlm.StepStatus, error) {
	f.steps++
	if f.steps == 1 {
		return []byte{0xB1}, ntlm.StatusCompleteAndContinue, nil
	}
	return []byte{0xB2}, ntlm.StatusComplete, nil
}

func (f *fakeMultiLegNTLMEngine) SessionKey() ([16]byte, error) { return f.key, nil }

// buildSessionSetupResponseBody builds a SessionSetupResponse body carrying
// blob, for handlers that answer the MORE_PROCESSING_REQUIRED leg.
func buildSessionSetupResponseBody(sessionFlags uint16, blob []byte) []byte {
	w := codec.NewWriterWithOrigin(8+len(blob), smb2types.HeaderSize)
	w.WriteUint16(9) // StructureSize
	w.WriteUint16(sessionFlags)
	offPos := w.ReservePlaceholder(2)
	w.CountField16("blobLen", len(blob))
	here := w.Position()
	var off [2]byte
	off[0], off[1] = byte(here), byte(here>>8)
	w.WriteAt(offPos, off[:])
	w.WriteBytes(blob)
	return w.Bytes()
}

// buildNegotiateResponseBody returns a minimal but structurally valid
// NegotiateResponse body (3.1.1, no negotiate contexts beyond an empty
// list, a tiny security buffer).
func buildNegotiateResponseBody() []byte {
	w := codec.NewWriterWithOrigin(128, smb2types.HeaderSize)
	w.WriteUint16(65) // StructureSize
	w.WriteUint16(uint16(smb2types.SecurityModeSigningEnabled))
	w.WriteUint16(uint16(smb2types.Dialect311))
	w.CountField16("negotiateContexts", 0)
	var guid [16]byte
	for i := range guid {
		guid[i] = byte(0xF0 + i)
	}
	w.WriteBytes(guid[:])
	w.WriteUint32(uint32(smb2types.CapLargeMTU))
	w.WriteUint32(8 * 1024 * 1024)
	w.WriteUint32(8 * 1024 * 1024)
	w.WriteUint32(8 * 1024 * 1024)
	w.WriteUint64(uint64(smb2types.TimeToFiletime(time.Now().UTC())))
	w.WriteUint64(0) // ServerStartTime

	secOffsetPos := w.ReservePlaceholder(2)
	w.CountField16("secBufferLen", 4)
	negCtxOffsetPos := w.ReservePlaceholder(4)

	here := w.Position()
	var secOff [2]byte
	secOff[0], secOff[1] = byte(here), byte(here>>8)
	w.WriteAt(secOffsetPos, secOff[:])
	w.WriteBytes([]byte{0x60, 0x82, 0x01, 0x02})

	w.Pad(8)
	ctxStart := w.Position()
	smb2types.EncodeNegotiateContextList(w, nil)
	var ctxOff [4]byte
	ctxOff[0] = byte(ctxStart)
	ctxOff[1] = byte(ctxStart >> 8)
	ctxOff[2] = byte(ctxStart >> 16)
	ctxOff[3] = byte(ctxStart >> 24)
	w.WriteAt(negCtxOffsetPos, ctxOff[:])
	return w.Bytes()
}

func buildTreeConnectResponseBody() []byte {
	w := codec.NewWriter(16)
	w.WriteUint16(16)       // StructureSize
	w.WriteUint8(0x01)      // ShareType = DISK
	w.WriteUint8(0)         // Reserved
	w.WriteUint32(0)        // ShareFlags
	w.WriteUint32(0x2)      // Capabilities
	w.WriteUint32(0x001F01FF) // MaximalAccess
	return w.Bytes()
}

func buildCreateResponseBody(fid smb2types.FileId) []byte {
	w := codec.NewWriter(89)
	w.WriteUint16(89) // StructureSize
	w.WriteUint8(0)   // OplockLevel
	w.WriteUint8(0)   // Flags
	w.WriteUint32(1)  // CreateAction = FILE_OPENED
	w.WriteUint64(0)  // CreationTime
	w.WriteUint64(0)  // LastAccessTime
	w.WriteUint64(0)  // LastWriteTime
	w.WriteUint64(0)  // ChangeTime
	w.WriteUint64(0)  // AllocationSize
	w.WriteUint64(0)  // EndOfFile
	w.WriteUint32(0)  // FileAttributes
	w.WriteUint32(0)  // Reserved2
	w.WriteBytes(fid.Encode(nil))
	w.WriteUint32(0) // CreateContextsOffset
	w.WriteUint32(0) // CreateContextsLength
	return w.Bytes()
}

func buildWriteResponseBody(count uint32) []byte {
	w := codec.NewWriter(17)
	w.WriteUint16(17)
	w.WriteUint16(0)
	w.WriteUint32(count)
	return w.Bytes()
}

func buildReadResponseBody(data []byte) []byte {
	w := codec.NewWriterWithOrigin(16+len(data), smb2types.HeaderSize)
	w.WriteUint16(17)
	offPos := w.ReservePlaceholder(2)
	w.CountField32("dataLen", len(data))
	w.WriteUint32(0) // DataRemaining
	w.WriteUint32(0) // Reserved2
	here := w.Position()
	var off [2]byte
	off[0], off[1] = byte(here), byte(here>>8)
	w.WriteAt(offPos, off[:])
	w.WriteBytes(data)
	return w.Bytes()
}

func buildQueryInfoResponseBody(payload []byte) []byte {
	w := codec.NewWriterWithOrigin(16+len(payload), smb2types.HeaderSize)
	w.WriteUint16(9)
	offPos := w.ReservePlaceholder(2)
	w.CountField32("bufferLen", len(payload))
	here := w.Position()
	var off [2]byte
	off[0], off[1] = byte(here), byte(here>>8)
	w.WriteAt(offPos, off[:])
	w.WriteBytes(payload)
	return w.Bytes()
}

// fakeServer drives one in-memory conn endpoint, answering every request
// using handlers, falling back to the default Negotiate/SessionSetup/
// TreeConnect success path for commands not present in handlers.
func fakeServer(t *testing.T, conn net.Conn, handlers map[smb2types.Command]commandHandler) {
	t.Helper()
	go func() {
		for {
			raw, err := readFrameT(conn)
			if err != nil {
				return
			}
			reqHeader, err := smb2types.ParseHeader(raw)
			if err != nil {
				return
			}
			body := raw[smb2types.HeaderSize:]

			var status smb2types.Status
			var respBody []byte
			if h, ok := handlers[reqHeader.Command]; ok {
				status, respBody = h(reqHeader, body)
			} else {
				status, respBody = defaultHandler(reqHeader, body)
			}

			respHeader := &smb2types.Header{
				Status:    status,
				Command:   reqHeader.Command,
				MessageID: reqHeader.MessageID,
				SessionID: reqHeader.SessionID,
				TreeID:    reqHeader.TreeID,
				Flags:     smb2types.FlagServerToRedir,
			}
			out := respHeader.Encode(make([]byte, 0, smb2types.HeaderSize+len(respBody)))
			out = append(out, respBody...)
			if err := writeFrameT(conn, out); err != nil {
				return
			}
		}
	}()
}

func defaultHandler(reqHeader *smb2types.Header, body []byte) (smb2types.Status, []byte) {
	switch reqHeader.Command {
	case smb2types.CommandNegotiate:
		return smb2types.StatusSuccess, buildNegotiateResponseBody()
	case smb2types.CommandSessionSetup:
		return smb2types.StatusSuccess, nil
	case smb2types.CommandTreeConnect:
		return smb2types.StatusSuccess, buildTreeConnectResponseBody()
	case smb2types.CommandClose, smb2types.CommandFlush, smb2types.CommandSetInfo:
		return smb2types.StatusSuccess, nil
	default:
		return smb2types.StatusSuccess, nil
	}
}

// dialTestClient brings up a fully authenticated+tree-connected Client
// against an in-memory fake server, applying handlerOverrides on top of
// the default Negotiate/SessionSetup/TreeConnect/Close/Flush/SetInfo
// behavior.
func dialTestClient(t *testing.T, handlerOverrides map[smb2types.Command]commandHandler) (*Client, net.Conn) {
	t.Helper()
	auth := &fakeNTLMEngine{key: [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}}
	return dialTestClientWithAuth(t, auth, handlerOverrides)
}

// dialTestClientWithAuth is dialTestClient with a caller-supplied NTLM
// engine, for tests that need to drive more than one SessionSetup leg.
func dialTestClientWithAuth(t *testing.T, auth ntlm.Engine, handlerOverrides map[smb2types.Command]commandHandler) (*Client, net.Conn) {
	t.Helper()
	clientConn, serverConn := net.Pipe()
	t.Cleanup(func() {
		clientConn.Close()
		serverConn.Close()
	})

	handlers := map[smb2types.Command]commandHandler{}
	for cmd, h := range handlerOverrides {
		handlers[cmd] = h
	}
	fakeServer(t, serverConn, handlers)

	client, err := Dial(clientConn, auth, `\\testhost\share`)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	return client, serverConn
}
