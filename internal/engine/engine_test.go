package engine

import (
	"net"
	"testing"

	"github.com/smb3go/smb3/internal/smb2types"
)

// fakeServer reads framed requests off conn and replies according to script,
// one entry per request received (by arrival order). It stops once the
// script is exhausted or conn is closed.
func fakeServer(t *testing.T, conn net.Conn, script func(requestN int, req *smb2types.Header) []byte) {
	t.Helper()
	go func() {
		for n := 0; ; n++ {
			raw, err := readFrame(conn)
			if err != nil {
				return
			}
			reqHeader, err := smb2types.ParseHeader(raw)
			if err != nil {
				return
			}
			reply := script(n, reqHeader)
			if reply == nil {
				return
			}
			if err := writeFrame(conn, reply); err != nil {
				return
			}
		}
	}()
}

func responseFor(req *smb2types.Header, status smb2types.Status) []byte {
	h := &smb2types.Header{
		Status:    status,
		Command:   req.Command,
		MessageID: req.MessageID,
		Flags:     smb2types.FlagServerToRedir,
	}
	buf := h.Encode(make([]byte, 0, smb2types.HeaderSize))
	return buf
}

func TestDo_SimpleRoundTrip(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	fakeServer(t, server, func(n int, req *smb2types.Header) []byte {
		return responseFor(req, smb2types.StatusSuccess)
	})

	e := New(client)
	resp, err := e.Do(Request{Command: smb2types.CommandNegotiate})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.Header.Status != smb2types.StatusSuccess {
		t.Errorf("Status: got %v want StatusSuccess", resp.Header.Status)
	}
	if resp.Header.MessageID != 0 {
		t.Errorf("MessageID: got %d want 0", resp.Header.MessageID)
	}
}

func TestDo_MessageIDMonotonic(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	fakeServer(t, server, func(n int, req *smb2types.Header) []byte {
		return responseFor(req, smb2types.StatusSuccess)
	})

	e := New(client)
	var seen []uint64
	for i := 0; i < 3; i++ {
		resp, err := e.Do(Request{Command: smb2types.CommandNegotiate})
		if err != nil {
			t.Fatalf("Do iteration %d: %v", i, err)
		}
		seen = append(seen, resp.Header.MessageID)
	}
	for i, id := range seen {
		if id != uint64(i) {
			t.Errorf("request %d: got message id %d want %d", i, id, i)
		}
	}
}

// TestDo_PendingLoopsToTerminalResponse verifies that interim
// STATUS_PENDING replies on a message id are transparently skipped and the
// next real request still gets the next sequential id.
func TestDo_PendingLoopsToTerminalResponse(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	pendingSent := 0
	fakeServer(t, server, func(n int, req *smb2types.Header) []byte {
		// First request gets two STATUS_PENDING replies before the real one.
		if n == 0 {
			if pendingSent < 2 {
				pendingSent++
				return responseFor(req, smb2types.StatusPending)
			}
			return responseFor(req, smb2types.StatusSuccess)
		}
		return responseFor(req, smb2types.StatusSuccess)
	})

	e := New(client)
	resp, err := e.Do(Request{Command: smb2types.CommandCreate})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.Header.Status != smb2types.StatusSuccess {
		t.Errorf("Status: got %v want StatusSuccess", resp.Header.Status)
	}
	if pendingSent != 2 {
		t.Errorf("expected server to have sent 2 pending replies, sent %d", pendingSent)
	}

	// The message id sequence must not have been disturbed by the pending
	// replies: the next request should still get id 1.
	resp2, err := e.Do(Request{Command: smb2types.CommandCreate})
	if err != nil {
		t.Fatalf("Do second: %v", err)
	}
	if resp2.Header.MessageID != 1 {
		t.Errorf("second request message id: got %d want 1", resp2.Header.MessageID)
	}
}

// fakeSigner records every message it is asked to patch/verify, and can be
// told to fail verification on demand.
type fakeSigner struct {
	patchCalls  int
	verifyCalls int
	failVerify  bool
}

func (s *fakeSigner) PatchSignature(message []byte) error {
	s.patchCalls++
	message[48] = 0xAA // mark the signature field so we can tell it ran
	return nil
}

func (s *fakeSigner) VerifyResponse(message []byte) error {
	s.verifyCalls++
	if s.failVerify {
		return errSignatureMismatch
	}
	return nil
}

var errSignatureMismatch = &verifyError{"signature mismatch"}

type verifyError struct{ msg string }

func (e *verifyError) Error() string { return e.msg }

func TestDo_SignsRequestWhenSignerSet(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	fakeServer(t, server, func(n int, req *smb2types.Header) []byte {
		return responseFor(req, smb2types.StatusSuccess)
	})

	e := New(client)
	signer := &fakeSigner{}
	_, err := e.Do(Request{Command: smb2types.CommandCreate, Signer: signer})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if signer.patchCalls != 1 {
		t.Errorf("PatchSignature calls: got %d want 1", signer.patchCalls)
	}
}

func TestDo_VerifiesSignedResponseWhenVerifierSet(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	fakeServer(t, server, func(n int, req *smb2types.Header) []byte {
		resp := &smb2types.Header{
			Status:    smb2types.StatusSuccess,
			Command:   req.Command,
			MessageID: req.MessageID,
			Flags:     smb2types.FlagServerToRedir | smb2types.FlagSigned,
		}
		buf := resp.Encode(make([]byte, 0, smb2types.HeaderSize))
		buf[48] = 0xBB // non-zero signature so IsSigned() is true
		return buf
	})

	e := New(client)
	verifier := &fakeSigner{}
	e.SetResponseVerifier(verifier)

	if _, err := e.Do(Request{Command: smb2types.CommandCreate}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if verifier.verifyCalls != 1 {
		t.Errorf("VerifyResponse calls: got %d want 1", verifier.verifyCalls)
	}
}

func TestDo_FailsOnSignatureMismatch(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	fakeServer(t, server, func(n int, req *smb2types.Header) []byte {
		resp := &smb2types.Header{
			Status:    smb2types.StatusSuccess,
			Command:   req.Command,
			MessageID: req.MessageID,
			Flags:     smb2types.FlagServerToRedir | smb2types.FlagSigned,
		}
		buf := resp.Encode(make([]byte, 0, smb2types.HeaderSize))
		buf[48] = 0xBB
		return buf
	})

	e := New(client)
	verifier := &fakeSigner{failVerify: true}
	e.SetResponseVerifier(verifier)

	if _, err := e.Do(Request{Command: smb2types.CommandCreate}); err == nil {
		t.Fatal("expected error on signature mismatch, got nil")
	}
}

func TestDo_UnsignedResponseSkipsVerifierAndRollsPreAuthHash(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	fakeServer(t, server, func(n int, req *smb2types.Header) []byte {
		return responseFor(req, smb2types.StatusSuccess)
	})

	e := New(client)
	verifier := &fakeSigner{failVerify: true}
	e.SetResponseVerifier(verifier)

	before := e.PreAuthHash()
	if _, err := e.Do(Request{Command: smb2types.CommandNegotiate}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if verifier.verifyCalls != 0 {
		t.Errorf("verifier should not be consulted for an unsigned response, got %d calls", verifier.verifyCalls)
	}
	after := e.PreAuthHash()
	if before == after {
		t.Error("expected pre-auth hash to roll forward after an unsigned exchange")
	}
}

func TestDo_FreezePreAuthHashStopsRolling(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	fakeServer(t, server, func(n int, req *smb2types.Header) []byte {
		return responseFor(req, smb2types.StatusSuccess)
	})

	e := New(client)
	if _, err := e.Do(Request{Command: smb2types.CommandNegotiate}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	e.FreezePreAuthHash()
	frozen := e.PreAuthHash()
	if _, err := e.Do(Request{Command: smb2types.CommandSessionSetup}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if e.PreAuthHash() != frozen {
		t.Error("pre-auth hash changed after FreezePreAuthHash")
	}
}

func TestDo_SessionAndTreeIDPropagateIntoHeader(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	var gotSessionID uint64
	var gotTreeID uint32
	fakeServer(t, server, func(n int, req *smb2types.Header) []byte {
		gotSessionID = req.SessionID
		gotTreeID = req.TreeID
		return responseFor(req, smb2types.StatusSuccess)
	})

	e := New(client)
	e.SetSessionID(0xCAFEBABE)
	e.SetTreeID(0x1234)
	if _, err := e.Do(Request{Command: smb2types.CommandCreate}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotSessionID != 0xCAFEBABE {
		t.Errorf("SessionID: got 0x%X want 0xCAFEBABE", gotSessionID)
	}
	if gotTreeID != 0x1234 {
		t.Errorf("TreeID: got 0x%X want 0x1234", gotTreeID)
	}
}

func TestDo_ReturnsErrorOnTransportFailure(t *testing.T) {
	client, server := net.Pipe()
	server.Close() // closes the pipe; writes/reads on client now fail

	e := New(client)
	if _, err := e.Do(Request{Command: smb2types.CommandNegotiate}); err == nil {
		t.Fatal("expected error when transport is closed")
	}
}
