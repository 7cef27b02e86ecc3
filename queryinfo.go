package smb3

import (
	"fmt"

	"github.com/smb3go/smb3/internal/clienterrors"
	"github.com/smb3go/smb3/internal/engine"
	"github.com/smb3go/smb3/internal/messages"
	"github.com/smb3go/smb3/internal/smb2types"
)

// infoDecoder is implemented by every concrete info-class pointer type
// (e.g. *messages.FileStandardInformation) via its package-level Decode
// function, which the caller passes to QueryInfo. Go generics have no clean
// way to associate a free function with a type parameter, so QueryInfo
// takes the class id explicitly and the caller supplies the matching
// decoder; the pairing is not checked at compile time.
type infoDecoder[T any] func([]byte) (*T, error)

// QueryInfo fetches one info-class record from fid. The caller supplies
// both the decoder and the matching class id. QueryInfo does not check the
// pair: a mismatch fails only if the payload is too short for the decoder,
// and otherwise decodes the bytes as the decoder's type.
//
//	std, err := smb3.QueryInfo(c, fid, messages.FileStandardInformationClass, messages.DecodeFileStandardInformation)
func QueryInfo[T any](c *Client, fid FileId, class messages.FileInformationClass, decode infoDecoder[T]) (*T, error) {
	req := &messages.QueryInfoRequest{InfoClass: class, FileId: fid}
	resp, err := c.do(smb2types.CommandQueryInfo, engine.CreditsQueryInfo, req.Encode())
	if err != nil {
		return nil, fmt.Errorf("query info: %w", err)
	}
	if resp.Header.Status != smb2types.StatusSuccess {
		return nil, statusErr(resp.Header.Status)
	}
	infoResp, err := messages.DecodeQueryInfoResponse(resp.Body)
	if err != nil {
		return nil, &clienterrors.CodecError{Err: err}
	}
	value, err := decode(infoResp.Buffer)
	if err != nil {
		return nil, &clienterrors.CodecError{Err: err}
	}
	return value, nil
}
