// Package smb3 implements an SMB 3.1.1 client: protocol negotiation,
// NTLM-based session establishment with message signing, tree connection,
// and file operations over a raw byte-stream transport.
//
// The package does not implement NTLM itself; callers supply an
// ntlm.Engine. It does not implement encryption (signing only), does not
// multiplex concurrent requests, and does not negotiate any dialect other
// than 3.1.1.
package smb3

import (
	"fmt"

	"github.com/smb3go/smb3/internal/clienterrors"
	"github.com/smb3go/smb3/internal/engine"
	"github.com/smb3go/smb3/internal/messages"
	"github.com/smb3go/smb3/internal/metrics"
	"github.com/smb3go/smb3/internal/ntlm"
	"github.com/smb3go/smb3/internal/signing"
	"github.com/smb3go/smb3/internal/smb2types"
)

// FileId is the opaque handle returned by Create-family operations and
// consumed by subsequent per-file operations.
type FileId = smb2types.FileId

// Client is a connected, authenticated SMB3 session against one tree
// (share). It is not safe for concurrent use: exactly one request is
// outstanding at a time, matching the single-threaded scheduling model of
// the underlying engine.
type Client struct {
	engine *engine.Engine
	signer *signing.Signer
}

// Dial negotiates, authenticates via auth, and connects to share (a UNC
// path such as `\\host\share`) over transport. A partially-completed
// authentication leaves no usable Client; on any error the caller should
// drop transport and retry with a fresh one.
func Dial(transport engine.Transport, auth ntlm.Engine, share string) (*Client, error) {
	e := engine.New(transport)

	signer, err := engine.Authenticate(e, auth)
	if err != nil {
		return nil, err
	}

	connectReq := &messages.TreeConnectRequest{Path: share}
	resp, err := e.Do(engine.Request{
		Command:       smb2types.CommandTreeConnect,
		CreditCharge:  1,
		CreditRequest: engine.CreditsTreeConnect,
		Signer:        signer,
		Body:          connectReq.Encode(),
	})
	if err != nil {
		return nil, fmt.Errorf("tree connect: %w", err)
	}
	if resp.Header.Status != smb2types.StatusSuccess {
		return nil, &clienterrors.ProtocolError{Status: resp.Header.Status}
	}
	if _, err := messages.DecodeTreeConnectResponse(resp.Body); err != nil {
		return nil, &clienterrors.CodecError{Err: err}
	}
	e.SetTreeID(resp.Header.TreeID)

	return &Client{engine: e, signer: signer}, nil
}

// SetMetrics attaches m to the client's underlying engine; passing nil
// disables collection. Must be called before issuing operations to avoid a
// data race with the unsynchronized in-flight request.
func (c *Client) SetMetrics(m metrics.Metrics) { c.engine.SetMetrics(m) }

// EnableResponseVerification turns on signature verification of signed
// server responses, using the same key this Client signs requests with.
// Verification is off by default; a mismatched response signature surfaces
// as an error from the operation that triggered it.
func (c *Client) EnableResponseVerification() { c.engine.SetResponseVerifier(c.signer) }

func (c *Client) do(cmd smb2types.Command, creditRequest uint16, body []byte) (*engine.Response, error) {
	return c.engine.Do(engine.Request{
		Command:       cmd,
		CreditCharge:  1,
		CreditRequest: creditRequest,
		Signer:        c.signer,
		Body:          body,
	})
}

func statusErr(status smb2types.Status) error {
	return &clienterrors.ProtocolError{Status: status}
}

// OpenRoot opens the share root itself, with read access, mainly useful as
// a starting FileId for servers that require one for relative operations.
func (c *Client) OpenRoot() (FileId, error) {
	return c.create("", messages.AccessRead|messages.AccessReadAttrs, messages.DispositionOpen, 0)
}

// LookUp opens path (backslash-joined, relative to the share root) with
// read/write/read-attributes access and disposition Open, returning
// STATUS_OBJECT_NAME_NOT_FOUND as a *clienterrors.ProtocolError if it does
// not exist.
func (c *Client) LookUp(path string) (FileId, error) {
	wirePath := NormalizePath(path)
	access := messages.AccessRead | messages.AccessWrite | messages.AccessReadAttrs
	return c.create(wirePath, access, messages.DispositionOpen, 0)
}

// CreateFile creates path as a new non-directory file, failing if it
// already exists (disposition Create).
func (c *Client) CreateFile(path string) (FileId, error) {
	wirePath := NormalizePath(path)
	access := messages.AccessRead | messages.AccessWrite | messages.AccessReadAttrs
	return c.create(wirePath, access, messages.DispositionCreate, messages.OptionNonDirectoryFile)
}

func (c *Client) create(path string, access, disposition, options uint32) (FileId, error) {
	req := &messages.CreateRequest{
		DesiredAccess:  access,
		ShareAccess:    messages.ShareRead | messages.ShareWrite | messages.ShareDelete,
		Disposition:    disposition,
		CreateOptions:  options,
		Name:           path,
	}
	resp, err := c.do(smb2types.CommandCreate, engine.CreditsCreate, req.Encode())
	if err != nil {
		return FileId{}, fmt.Errorf("create %q: %w", path, err)
	}
	if resp.Header.Status != smb2types.StatusSuccess {
		return FileId{}, statusErr(resp.Header.Status)
	}
	createResp, err := messages.DecodeCreateResponse(resp.Body)
	if err != nil {
		return FileId{}, &clienterrors.CodecError{Err: err}
	}
	return createResp.FileId, nil
}

// Delete opens path with delete access and the DeleteOnClose create option,
// then closes it; the server deletes the file on last close.
func (c *Client) Delete(path string) error {
	wirePath := NormalizePath(path)
	fid, err := c.create(wirePath, messages.AccessDelete, messages.DispositionOpen, messages.OptionDeleteOnClose)
	if err != nil {
		return err
	}
	return c.Close(fid)
}

// Rename moves the open file fid to newPath (relative to the share root).
func (c *Client) Rename(fid FileId, newPath string) error {
	info := messages.FileRenameInformation{NewName: NormalizePath(newPath)}
	req := &messages.SetInfoRequest{
		InfoClass: messages.FileRenameInformationClass,
		FileId:    fid,
		Buffer:    info.Encode(),
	}
	resp, err := c.do(smb2types.CommandSetInfo, engine.CreditsSetInfo, req.Encode())
	if err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	if resp.Header.Status != smb2types.StatusSuccess {
		return statusErr(resp.Header.Status)
	}
	return nil
}

// Resize sets fid's length to newLen via FileEndOfFileInformation.
func (c *Client) Resize(fid FileId, newLen uint64) error {
	info := messages.FileEndOfFileInformation{EndOfFile: newLen}
	req := &messages.SetInfoRequest{
		InfoClass: messages.FileEndOfFileInformationClass,
		FileId:    fid,
		Buffer:    info.Encode(),
	}
	resp, err := c.do(smb2types.CommandSetInfo, engine.CreditsSetInfo, req.Encode())
	if err != nil {
		return fmt.Errorf("resize: %w", err)
	}
	if resp.Header.Status != smb2types.StatusSuccess {
		return statusErr(resp.Header.Status)
	}
	return nil
}

// Flush flushes fid's cached writes to stable storage.
func (c *Client) Flush(fid FileId) error {
	req := &messages.FlushRequest{FileId: fid}
	resp, err := c.do(smb2types.CommandFlush, engine.CreditsFlush, req.Encode())
	if err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if resp.Header.Status != smb2types.StatusSuccess {
		return statusErr(resp.Header.Status)
	}
	return nil
}

// Close releases fid. The caller must not use fid again afterward.
func (c *Client) Close(fid FileId) error {
	req := &messages.CloseRequest{FileId: fid}
	resp, err := c.do(smb2types.CommandClose, engine.CreditsClose, req.Encode())
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if resp.Header.Status != smb2types.StatusSuccess {
		return statusErr(resp.Header.Status)
	}
	return nil
}
