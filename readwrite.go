package smb3

import (
	"errors"
	"fmt"
	"io"

	"github.com/smb3go/smb3/internal/clienterrors"
	"github.com/smb3go/smb3/internal/engine"
	"github.com/smb3go/smb3/internal/messages"
	"github.com/smb3go/smb3/internal/smb2types"
)

// IsEndOfFile reports whether err is the STATUS_END_OF_FILE protocol
// error, the normal end-of-stream signal for ReadAll.
func IsEndOfFile(err error) bool {
	var pe *clienterrors.ProtocolError
	return errors.As(err, &pe) && pe.Status == smb2types.StatusEndOfFile
}

// WriteAll writes every byte r yields to fid, starting at offset 0, in
// chunks no larger than messages.MaxIOSize, advancing the write offset by
// the server-reported bytes-written count after each chunk.
func (c *Client) WriteAll(fid FileId, r io.Reader) error {
	buf := make([]byte, messages.MaxIOSize)
	var offset uint64
	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			req := &messages.WriteRequest{FileId: fid, Offset: offset, Data: buf[:n]}
			resp, err := c.do(smb2types.CommandWrite, engine.CreditsWrite, req.Encode())
			if err != nil {
				return fmt.Errorf("write at offset %d: %w", offset, err)
			}
			if resp.Header.Status != smb2types.StatusSuccess {
				return statusErr(resp.Header.Status)
			}
			writeResp, err := messages.DecodeWriteResponse(resp.Body)
			if err != nil {
				return &clienterrors.CodecError{Err: err}
			}
			offset += uint64(writeResp.Count)
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("read source: %w", readErr)
		}
		if n == 0 {
			return nil
		}
	}
}

// ReadAll reads fid from offset 0 in chunks no larger than
// messages.MaxIOSize, writing each chunk to w, until the server returns
// STATUS_END_OF_FILE.
func (c *Client) ReadAll(fid FileId, w io.Writer) error {
	var offset uint64
	for {
		req := &messages.ReadRequest{
			FileId:        fid,
			Offset:        offset,
			Length:        messages.MaxIOSize,
			CreditRequest: engine.CreditsRead,
		}
		resp, err := c.do(smb2types.CommandRead, engine.CreditsRead, req.Encode())
		if err != nil {
			return fmt.Errorf("read at offset %d: %w", offset, err)
		}
		if resp.Header.Status == smb2types.StatusEndOfFile {
			return nil
		}
		if resp.Header.Status != smb2types.StatusSuccess {
			return statusErr(resp.Header.Status)
		}
		readResp, err := messages.DecodeReadResponse(resp.Body)
		if err != nil {
			return &clienterrors.CodecError{Err: err}
		}
		if len(readResp.Data) == 0 {
			return nil
		}
		if _, err := w.Write(readResp.Data); err != nil {
			return fmt.Errorf("write sink: %w", err)
		}
		offset += uint64(len(readResp.Data))
	}
}
