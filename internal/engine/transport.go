package engine

import "io"

// Transport is the byte-stream capability the engine reads/writes framed
// SMB messages over. Any ordered, reliable stream works; no datagram
// transport satisfies the framing this client uses.
type Transport interface {
	io.Writer
	io.Reader
}
