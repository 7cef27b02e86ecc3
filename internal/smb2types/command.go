package smb2types

// Command identifies an SMB2 command code, shared by request and response
// headers.
type Command uint16

const (
	CommandNegotiate      Command = 0x0000
	CommandSessionSetup   Command = 0x0001
	CommandLogoff         Command = 0x0002
	CommandTreeConnect    Command = 0x0003
	CommandTreeDisconnect Command = 0x0004
	CommandCreate         Command = 0x0005
	CommandClose          Command = 0x0006
	CommandFlush          Command = 0x0007
	CommandRead           Command = 0x0008
	CommandWrite          Command = 0x0009
	CommandLock           Command = 0x000A
	CommandIOCtl          Command = 0x000B
	CommandCancel         Command = 0x000C
	CommandEcho           Command = 0x000D
	CommandQueryDirectory Command = 0x000E
	CommandChangeNotify   Command = 0x000F
	CommandQueryInfo      Command = 0x0010
	CommandSetInfo        Command = 0x0011
	CommandOplockBreak    Command = 0x0012
)

var commandNames = map[Command]string{
	CommandNegotiate:      "NEGOTIATE",
	CommandSessionSetup:   "SESSION_SETUP",
	CommandLogoff:         "LOGOFF",
	CommandTreeConnect:    "TREE_CONNECT",
	CommandTreeDisconnect: "TREE_DISCONNECT",
	CommandCreate:         "CREATE",
	CommandClose:          "CLOSE",
	CommandFlush:          "FLUSH",
	CommandRead:           "READ",
	CommandWrite:          "WRITE",
	CommandLock:           "LOCK",
	CommandIOCtl:          "IOCTL",
	CommandCancel:         "CANCEL",
	CommandEcho:           "ECHO",
	CommandQueryDirectory: "QUERY_DIRECTORY",
	CommandChangeNotify:   "CHANGE_NOTIFY",
	CommandQueryInfo:      "QUERY_INFO",
	CommandSetInfo:        "SET_INFO",
	CommandOplockBreak:    "OPLOCK_BREAK",
}

// String renders the symbolic command name when known.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// Dialect is a negotiated SMB revision. This client offers exactly one.
type Dialect uint16

const Dialect311 Dialect = 0x0311

// SecurityMode is the SMB2 header's signing-requirement bitfield.
type SecurityMode uint16

const (
	SecurityModeSigningEnabled  SecurityMode = 0x0001
	SecurityModeSigningRequired SecurityMode = 0x0002
)

// GlobalCapabilities is the negotiate request/response capability bitfield.
type GlobalCapabilities uint32

const (
	CapDFS             GlobalCapabilities = 0x00000001
	CapLeasing         GlobalCapabilities = 0x00000002
	CapLargeMTU        GlobalCapabilities = 0x00000004
	CapMultiChannel    GlobalCapabilities = 0x00000008
	CapPersistentHandles GlobalCapabilities = 0x00000010
	CapDirectoryLeasing GlobalCapabilities = 0x00000020
	CapEncryption      GlobalCapabilities = 0x00000040
)

// NegotiateContextType tags the variant of an enum-of-structs negotiate
// context.
type NegotiateContextType uint16

const (
	NegotiateContextPreauthIntegrityCapabilities NegotiateContextType = 0x0001
	NegotiateContextEncryptionCapabilities       NegotiateContextType = 0x0002
)

// HashAlgorithm identifies the pre-authentication integrity hash function
// offered in a PreauthIntegrityCapabilities context. This client offers and
// accepts only SHA-512.
type HashAlgorithm uint16

const HashAlgorithmSHA512 HashAlgorithm = 0x0001

// Cipher identifies an encryption algorithm offered in an
// EncryptionCapabilities context. This client never enables encryption
// (signing only per scope), but still advertises one cipher as the
// specification requires exactly one entry in the context.
type Cipher uint16

const (
	CipherAES128CCM Cipher = 0x0001
	CipherAES128GCM Cipher = 0x0002
)
