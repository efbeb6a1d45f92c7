package netio

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oriumgames/corestone/internal/player"
)

const outboundQueueCapacity = 256

// Connection is one accepted peer: its socket, protocol phase, player
// identity once known, and its private outbound queue. The reactor's
// read-pump goroutine is the only thing that reads the socket; workers
// only touch phase/player/outbound under the handler lock.
type Connection struct {
	ID   uint64
	Conn net.Conn

	phase  atomic.Int32
	Player *player.Player

	handlerLock chan struct{} // size-1, non-blocking acquire via select
	outbound    chan []byte

	closeOnce sync.Once
	closed    atomic.Bool
	onClose   func(*Connection)
}

// NewConnection wraps conn as a Connection in PhaseHandshake, id'd by id.
// The reactor calls this on every accept; it is also exported so router
// and handler tests can exercise a Connection without a real listener.
func NewConnection(id uint64, conn net.Conn) *Connection {
	return newConnection(id, conn)
}

func newConnection(id uint64, conn net.Conn) *Connection {
	c := &Connection{
		ID:          id,
		Conn:        conn,
		handlerLock: make(chan struct{}, 1),
		outbound:    make(chan []byte, outboundQueueCapacity),
	}
	c.handlerLock <- struct{}{}
	c.phase.Store(int32(PhaseHandshake))
	return c
}

// Phase returns the connection's current phase.
func (c *Connection) Phase() Phase { return Phase(c.phase.Load()) }

// SetPhase transitions the connection to phase. Callers must hold the
// handler lock.
func (c *Connection) SetPhase(phase Phase) { c.phase.Store(int32(phase)) }

// TryLock attempts a non-blocking acquire of the per-connection handler
// lock, ensuring at most one worker processes this connection's frames
// at a time.
func (c *Connection) TryLock() bool {
	select {
	case <-c.handlerLock:
		return true
	default:
		return false
	}
}

// Unlock releases the handler lock acquired by TryLock.
func (c *Connection) Unlock() {
	select {
	case c.handlerLock <- struct{}{}:
	default:
	}
}

// Enqueue pushes a framed packet onto the connection's outbound queue. If
// the queue is still full after deadline, the packet is dropped and ok is
// false; the caller is expected to close the connection in that case.
func (c *Connection) Enqueue(frame []byte, deadline time.Duration) (ok bool) {
	if c.closed.Load() {
		return false
	}
	timer := time.NewTimer(deadline)
	defer timer.Stop()
	select {
	case c.outbound <- frame:
		return true
	case <-timer.C:
		return false
	}
}

// SetCloseHook registers fn to run exactly once when Close is called.
// The reactor's accept loop wires this to the server's player-table
// cleanup so a disconnect at any phase always releases its entity id.
func (c *Connection) SetCloseHook(fn func(*Connection)) {
	c.onClose = fn
}

// Close closes the socket and the outbound queue exactly once, then runs
// the close hook if one was set.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.Conn.Close()
		close(c.outbound)
		if c.onClose != nil {
			c.onClose(c)
		}
	})
}

// Closed reports whether Close has been called.
func (c *Connection) Closed() bool { return c.closed.Load() }
