package wire

import "errors"

// Sentinel errors for malformed inbound data. These never crash a worker;
// the packet router converts them into a ProtocolViolation disconnect.
var (
	ErrBufferUnderflow = errors.New("wire: buffer underflow")
	ErrVarIntTooBig    = errors.New("wire: varint too big")
	ErrStringTooLong   = errors.New("wire: string too long")
)
