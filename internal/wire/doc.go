// Package wire implements the length-prefixed, big-endian wire codec shared
// by every phase of the connection lifecycle: VarInt/VarInt64, fixed-width
// numerics, length-prefixed strings, UUIDs, and the packed block-position
// encoding.
//
// Grounded on dmitrymodder-minewire/protocol.go, generalized from free
// functions over io.Writer/io.Reader into a stateful Buffer with a read
// cursor so handlers can compose a response in one buffer and readers can
// walk an inbound frame without juggling separate io.Reader adapters.
package wire
