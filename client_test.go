package smb3

import (
	"errors"
	"testing"

	"github.com/smb3go/smb3/internal/clienterrors"
	"github.com/smb3go/smb3/internal/smb2types"
)

func TestDial_NegotiatesAuthenticatesAndTreeConnects(t *testing.T) {
	client, _ := dialTestClient(t, nil)
	if client == nil {
		t.Fatal("Dial returned nil client")
	}
}

func TestOpenRoot(t *testing.T) {
	wantFid := smb2types.FileId{Persistent: 0x1, Volatile: 0x2}
	client, _ := dialTestClient(t, map[smb2types.Command]commandHandler{
		smb2types.CommandCreate: func(h *smb2types.Header, body []byte) (smb2types.Status, []byte) {
			return smb2types.StatusSuccess, buildCreateResponseBody(wantFid)
		},
	})

	fid, err := client.OpenRoot()
	if err != nil {
		t.Fatalf("OpenRoot: %v", err)
	}
	if fid != wantFid {
		t.Errorf("FileId: got %+v want %+v", fid, wantFid)
	}
}

func TestLookUp_NotFound(t *testing.T) {
	client, _ := dialTestClient(t, map[smb2types.Command]commandHandler{
		smb2types.CommandCreate: func(h *smb2types.Header, body []byte) (smb2types.Status, []byte) {
			return smb2types.StatusObjectNameNotFound, nil
		},
	})

	_, err := client.LookUp("missing.txt")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var pe *clienterrors.ProtocolError
	if !errors.As(err, &pe) || pe.Status != smb2types.StatusObjectNameNotFound {
		t.Errorf("expected StatusObjectNameNotFound, got %v", err)
	}
}

func TestCreateFile_RoundTrip(t *testing.T) {
	wantFid := smb2types.FileId{Persistent: 7, Volatile: 8}
	var gotName string
	client, _ := dialTestClient(t, map[smb2types.Command]commandHandler{
		smb2types.CommandCreate: func(h *smb2types.Header, body []byte) (smb2types.Status, []byte) {
			gotName = decodeCreateRequestName(t, body)
			return smb2types.StatusSuccess, buildCreateResponseBody(wantFid)
		},
	})

	fid, err := client.CreateFile("subdir/newfile.txt")
	if err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	if fid != wantFid {
		t.Errorf("FileId: got %+v want %+v", fid, wantFid)
	}
	if gotName != `subdir\newfile.txt` {
		t.Errorf("wire path: got %q want %q", gotName, `subdir\newfile.txt`)
	}
}

func TestDelete(t *testing.T) {
	fid := smb2types.FileId{Persistent: 1, Volatile: 1}
	var closedFid smb2types.FileId
	client, _ := dialTestClient(t, map[smb2types.Command]commandHandler{
		smb2types.CommandCreate: func(h *smb2types.Header, body []byte) (smb2types.Status, []byte) {
			return smb2types.StatusSuccess, buildCreateResponseBody(fid)
		},
		smb2types.CommandClose: func(h *smb2types.Header, body []byte) (smb2types.Status, []byte) {
			closedFid = smb2types.DecodeFileId(body[8:24])
			return smb2types.StatusSuccess, nil
		},
	})

	if err := client.Delete("gone.txt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if closedFid != fid {
		t.Errorf("Close was called with %+v, want %+v", closedFid, fid)
	}
}

func TestRename(t *testing.T) {
	fid := smb2types.FileId{Persistent: 1, Volatile: 1}
	var sawRename bool
	client, _ := dialTestClient(t, map[smb2types.Command]commandHandler{
		smb2types.CommandSetInfo: func(h *smb2types.Header, body []byte) (smb2types.Status, []byte) {
			sawRename = true
			return smb2types.StatusSuccess, nil
		},
	})

	if err := client.Rename(fid, "renamed.txt"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if !sawRename {
		t.Error("expected a SetInfo request for the rename")
	}
}

func TestResizeAndFlush(t *testing.T) {
	fid := smb2types.FileId{Persistent: 2, Volatile: 2}
	client, _ := dialTestClient(t, nil)

	if err := client.Resize(fid, 4096); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if err := client.Flush(fid); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}

func TestClose(t *testing.T) {
	fid := smb2types.FileId{Persistent: 3, Volatile: 3}
	client, _ := dialTestClient(t, nil)
	if err := client.Close(fid); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

// TestDial_MultiLegSessionSetup exercises the MORE_PROCESSING_REQUIRED loop
// in engine.Authenticate, where the server answers the first SessionSetup
// with a challenge and only grants StatusSuccess on the second leg.
func TestDial_MultiLegSessionSetup(t *testing.T) {
	auth := &fakeMultiLegNTLMEngine{key: [16]byte{9, 8, 7, 6, 5, 4, 3, 2, 1, 0, 1, 2, 3, 4, 5, 6}}
	legs := 0
	client, _ := dialTestClientWithAuth(t, auth, map[smb2types.Command]commandHandler{
		smb2types.CommandSessionSetup: func(h *smb2types.Header, body []byte) (smb2types.Status, []byte) {
			legs++
			if legs == 1 {
				return smb2types.StatusMoreProcessingRequired, buildSessionSetupResponseBody(0, []byte{0xC1, 0xC2})
			}
			return smb2types.StatusSuccess, nil
		},
	})
	if client == nil {
		t.Fatal("Dial returned nil client")
	}
	if legs != 2 {
		t.Errorf("expected 2 SessionSetup legs, got %d", legs)
	}
	if auth.steps != 2 {
		t.Errorf("expected ntlm engine to be stepped twice, got %d", auth.steps)
	}
}

// decodeCreateRequestName re-parses CreateRequest.Encode's output just
// enough to recover the wire path, without importing internal/messages'
// unexported fields.
func decodeCreateRequestName(t *testing.T, buf []byte) string {
	t.Helper()
	// StructureSize(2) SecurityFlags(1) OplockLevel(1) ImpersonationLevel(4)
	// SmbCreateFlags(8) Reserved(8) DesiredAccess(4) FileAttributes(4)
	// ShareAccess(4) Disposition(4) CreateOptions(4) = 44 bytes before the
	// name offset/length pair.
	if len(buf) < 48 {
		t.Fatalf("create request body too short: %d bytes", len(buf))
	}
	nameOffset := (int(buf[44]) | int(buf[45])<<8) - smb2types.HeaderSize
	nameLen := int(buf[46]) | int(buf[47])<<8
	if nameOffset < 0 || nameOffset+nameLen > len(buf) {
		t.Fatalf("name offset/length out of bounds: offset=%d len=%d total=%d", nameOffset, nameLen, len(buf))
	}
	raw := buf[nameOffset : nameOffset+nameLen]
	runes := make([]uint16, 0, nameLen/2)
	for i := 0; i+1 < len(raw); i += 2 {
		runes = append(runes, uint16(raw[i])|uint16(raw[i+1])<<8)
	}
	out := make([]rune, len(runes))
	for i, r := range runes {
		out[i] = rune(r)
	}
	return string(out)
}
