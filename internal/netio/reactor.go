package netio

import (
	"bufio"
	"errors"
	"net"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/oriumgames/corestone/internal/wire"
)

// maxFrameLength bounds a single frame's declared length, guarding
// against a hostile or corrupt client claiming a multi-gigabyte frame.
const maxFrameLength = 2 * 1024 * 1024

// Inbound is one decoded frame handed from a read-pump goroutine to the
// worker pool's incoming queue.
type Inbound struct {
	Conn     *Connection
	PacketID int32
	Payload  []byte
}

// Reactor accepts connections and frames inbound bytes. Every read goes
// through this accumulator rather than ad-hoc blocking reads scattered
// across handlers; the only thing handlers ever see is already-framed
// payload.
type Reactor struct {
	listener net.Listener
	incoming chan Inbound
	log      *logrus.Entry
	shutdown *atomic.Bool

	nextConnID atomic.Uint64

	onAccept func(*Connection)
}

// SetOnAccept registers fn to run once per accepted connection, right
// after it is constructed and before its read-pump goroutine starts.
// The server core uses this to attach a close hook that releases the
// connection's player-table entry and entity id on disconnect.
func (r *Reactor) SetOnAccept(fn func(*Connection)) {
	r.onAccept = fn
}

// NewReactor wraps listener, delivering framed packets onto a channel of
// the given capacity (the "incoming queue").
func NewReactor(listener net.Listener, incomingCapacity int, log *logrus.Entry, shutdown *atomic.Bool) *Reactor {
	return &Reactor{
		listener: listener,
		incoming: make(chan Inbound, incomingCapacity),
		log:      log,
		shutdown: shutdown,
	}
}

// Incoming returns the channel workers consume from.
func (r *Reactor) Incoming() <-chan Inbound { return r.incoming }

// Requeue pushes a frame back onto the incoming queue, used by a worker
// that lost the race for a connection's handler lock.
func (r *Reactor) Requeue(item Inbound) {
	select {
	case r.incoming <- item:
	default:
		// incoming queue is saturated; drop rather than spin forever.
		r.log.WithField("conn", item.Conn.ID).Warn("netio: requeue dropped, incoming queue full")
	}
}

// Run accepts connections until the listener closes or shutdown is set,
// spawning one read-pump goroutine per connection.
func (r *Reactor) Run() {
	for {
		conn, err := r.listener.Accept()
		if err != nil {
			if r.shutdown.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			r.log.WithError(err).Warn("netio: accept failed")
			continue
		}
		id := r.nextConnID.Add(1)
		c := newConnection(id, conn)
		if r.onAccept != nil {
			r.onAccept(c)
		}
		StartSender(c, r.log)
		go r.readPump(c)
	}
}

// readPump is the per-connection "reactor" goroutine: it owns the socket
// and the inbound byte accumulator exclusively, framing VarInt-prefixed
// packets and handing them to the incoming queue.
func (r *Reactor) readPump(c *Connection) {
	defer c.Close()
	br := bufio.NewReaderSize(c.Conn, 4096)

	for {
		if r.shutdown.Load() {
			return
		}

		length, err := wire.ReadVarIntStream(br)
		if err != nil {
			return
		}
		if length <= 0 || length > maxFrameLength {
			r.log.WithField("conn", c.ID).Warn("netio: frame length out of bounds, closing")
			return
		}

		body := make([]byte, length)
		if _, err := readFull(br, body); err != nil {
			return
		}

		buf := wire.NewBuffer(body)
		packetID, err := buf.ReadVarInt()
		if err != nil {
			r.log.WithField("conn", c.ID).Warn("netio: malformed packet id, closing")
			return
		}
		payload := buf.Rest()

		// A saturated incoming queue applies back-pressure onto this
		// connection's own read-pump, never onto other connections.
		r.incoming <- Inbound{Conn: c, PacketID: packetID, Payload: payload}

		if c.Phase() == PhaseDisconnecting {
			return
		}
	}
}

func readFull(br *bufio.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := br.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
