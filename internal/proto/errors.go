package proto

import "errors"

// errQueueBounded marks a connection closed because its outbound queue
// stayed full past the enqueue deadline.
var errQueueBounded = errors.New("proto: outbound queue full, dropping connection")

// errMissingPlayer marks a packet that requires ctx.Conn.Player to be
// set arriving before Login Start ever populated it.
var errMissingPlayer = errors.New("proto: packet requires a player identity")
