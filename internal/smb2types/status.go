package smb2types

import "fmt"

// Status is an NTSTATUS code as returned in every SMB2 response header.
type Status uint32

// Well-known NTSTATUS values this client recognizes explicitly; any other
// value still decodes, it just has no symbolic name.
const (
	StatusSuccess                 Status = 0x00000000
	StatusPending                 Status = 0x00000103
	StatusMoreProcessingRequired  Status = 0xC0000016
	StatusNoMoreFiles             Status = 0x80000006
	StatusEndOfFile               Status = 0xC0000011
	StatusObjectNameNotFound      Status = 0xC0000034
	StatusObjectNameCollision     Status = 0xC0000035
	StatusObjectPathNotFound      Status = 0xC000003A
	StatusAccessDenied             Status = 0xC0000022
	StatusInvalidParameter        Status = 0xC000000D
	StatusLogonFailure            Status = 0xC000006D
	StatusUserSessionDeleted      Status = 0xC0000203
	StatusNetworkNameDeleted      Status = 0xC00000C9
	StatusFileClosed              Status = 0xC0000128
	StatusBadNetworkName          Status = 0xC00000CC
	StatusNotSupported            Status = 0xC00000BB
)

var statusNames = map[Status]string{
	StatusSuccess:                "STATUS_SUCCESS",
	StatusPending:                "STATUS_PENDING",
	StatusMoreProcessingRequired: "STATUS_MORE_PROCESSING_REQUIRED",
	StatusNoMoreFiles:            "STATUS_NO_MORE_FILES",
	StatusEndOfFile:              "STATUS_END_OF_FILE",
	StatusObjectNameNotFound:     "STATUS_OBJECT_NAME_NOT_FOUND",
	StatusObjectNameCollision:    "STATUS_OBJECT_NAME_COLLISION",
	StatusObjectPathNotFound:     "STATUS_OBJECT_PATH_NOT_FOUND",
	StatusAccessDenied:           "STATUS_ACCESS_DENIED",
	StatusInvalidParameter:       "STATUS_INVALID_PARAMETER",
	StatusLogonFailure:           "STATUS_LOGON_FAILURE",
	StatusUserSessionDeleted:     "STATUS_USER_SESSION_DELETED",
	StatusNetworkNameDeleted:     "STATUS_NETWORK_NAME_DELETED",
	StatusFileClosed:             "STATUS_FILE_CLOSED",
	StatusBadNetworkName:         "STATUS_BAD_NETWORK_NAME",
	StatusNotSupported:           "STATUS_NOT_SUPPORTED",
}

// String renders the symbolic name when known, else the raw hex code.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STATUS(0x%08X)", uint32(s))
}

// IsSuccess reports whether s is STATUS_SUCCESS.
func (s Status) IsSuccess() bool { return s == StatusSuccess }

// IsInformational reports whether s is a non-error status this client
// treats as a normal loop-control signal rather than a failure (paging end,
// read end, pending retry).
func (s Status) IsInformational() bool {
	switch s {
	case StatusNoMoreFiles, StatusEndOfFile, StatusPending, StatusMoreProcessingRequired:
		return true
	default:
		return false
	}
}

// severity mirrors the top two bits of the NTSTATUS layout Microsoft
// documents: 0=success, 1=informational, 2=warning, 3=error.
func (s Status) severity() uint32 {
	return uint32(s) >> 30
}

// IsError reports whether s has NTSTATUS severity WARNING or ERROR (top
// bits 0b10 or 0b11), excluding the handful of error-severity codes this client treats as
// informational loop-control signals.
func (s Status) IsError() bool {
	if s.IsInformational() {
		return false
	}
	return s.severity() == 0b11 || s.severity() == 0b10
}
