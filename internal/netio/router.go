package netio

// Outcome tells a worker what to do with a connection after routing one
// frame.
type Outcome int

const (
	// Ok means the packet was handled; keep the connection open.
	Ok Outcome = iota
	// Disconnect means the handler asked for an orderly close (e.g. after
	// a Status Ping, or a client-requested logout).
	Disconnect
	// ProtocolError means the frame violated the phase's accepted packet
	// set; close the connection.
	ProtocolError
)

// Result is what Router.Route returns for one routed frame.
type Result struct {
	Outcome Outcome
	Err     error
}

// Router dispatches one decoded frame for a connection currently in
// conn.Phase(). Implementations must be wait-free on conn: if a handler
// needs data it doesn't have, it returns ProtocolError rather than
// blocking.
type Router interface {
	Route(conn *Connection, packetID int32, payload []byte) Result
}
