package smb3

import (
	"errors"
	"fmt"

	"github.com/smb3go/smb3/internal/clienterrors"
	"github.com/smb3go/smb3/internal/engine"
	"github.com/smb3go/smb3/internal/messages"
	"github.com/smb3go/smb3/internal/smb2types"
)

// DirectoryEntry is one decoded directory-listing record.
type DirectoryEntry struct {
	Name           string
	FileId         uint64
	FileAttributes uint32
	EndOfFile      uint64
}

// QueryDirectory lists fid's entries by repeating QueryDirectory with
// pattern "*" until the server returns STATUS_NO_MORE_FILES, accumulating
// every entry from every response's next-entry-offset chain (which
// includes "." and "..").
func (c *Client) QueryDirectory(fid FileId) ([]DirectoryEntry, error) {
	var entries []DirectoryEntry
	restart := true
	for {
		req := &messages.QueryDirectoryRequest{
			InfoClass:          messages.FileIdBothDirectoryInformation,
			FileId:             fid,
			SearchPattern:      "*",
			OutputBufferLength: 64 * 1024,
		}
		if restart {
			req.Flags = messages.QueryDirRestartScans
			restart = false
		}

		resp, err := c.do(smb2types.CommandQueryDirectory, engine.CreditsQueryDirectory, req.Encode())
		if err != nil {
			return nil, fmt.Errorf("query directory: %w", err)
		}
		if resp.Header.Status == smb2types.StatusNoMoreFiles {
			return entries, nil
		}
		if resp.Header.Status != smb2types.StatusSuccess {
			return nil, statusErr(resp.Header.Status)
		}

		listing, err := messages.DecodeQueryDirectoryResponse(resp.Body)
		if err != nil {
			return nil, &clienterrors.CodecError{Err: err}
		}
		for _, chainEntry := range listing.Entries {
			e, err := messages.DecodeFileIdBothDirectoryInformationEntry(chainEntry.Body)
			if err != nil {
				return nil, &clienterrors.CodecError{Err: err}
			}
			entries = append(entries, DirectoryEntry{
				Name:           e.FileName,
				FileId:         e.FileId,
				FileAttributes: e.FileAttributes,
				EndOfFile:      e.EndOfFile,
			})
		}
	}
}

// IsNoMoreFiles reports whether err is the STATUS_NO_MORE_FILES protocol
// error, the normal end-of-listing signal.
func IsNoMoreFiles(err error) bool {
	var pe *clienterrors.ProtocolError
	return errors.As(err, &pe) && pe.Status == smb2types.StatusNoMoreFiles
}
