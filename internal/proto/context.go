package proto

import (
	"time"

	"github.com/oriumgames/corestone/internal/netio"
	"github.com/oriumgames/corestone/internal/wire"
)

// enqueueDeadline bounds how long Send waits for a saturated outbound
// queue before giving up, matching the QueueBounded behavior in netio.
const enqueueDeadline = 5 * time.Second

// Context bundles everything a handler needs for one inbound frame: the
// connection it arrived on, a reader positioned at the packet body, and
// the server handle for side effects.
type Context struct {
	Conn   *netio.Connection
	Body   *wire.Buffer
	Server Server
}

// Send frames and enqueues one outbound packet. false means the packet
// was dropped: the connection is closed, or its outbound queue stayed
// full past the deadline (logged at Warn); the caller should fold that
// into a Disconnect/ProtocolError result.
func (c *Context) Send(packetID int32, payload []byte) bool {
	if c.Conn.Enqueue(wire.Frame(packetID, payload), enqueueDeadline) {
		return true
	}
	if !c.Conn.Closed() {
		c.Server.Log().WithField("conn", c.Conn.ID).Warn("proto: outbound queue full past deadline, dropping packet")
	}
	return false
}

// HandlerFunc handles one decoded packet for a connection currently in
// ctx.Conn.Phase(). It must be wait-free: if it needs data it can't get
// from ctx.Body, it returns a ProtocolError result rather than blocking.
type HandlerFunc func(ctx *Context) netio.Result
