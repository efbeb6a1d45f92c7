package netio

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// WorkerPool pops decoded frames from a Reactor's incoming queue, routes
// them, and acts on the result. Per-connection ordering is preserved by a
// non-blocking per-connection handler lock: a worker that loses the race
// re-queues the frame instead of blocking.
type WorkerPool struct {
	reactor  *Reactor
	router   Router
	log      *logrus.Entry
	shutdown *atomic.Bool

	wg sync.WaitGroup
}

// NewWorkerPool returns a pool bound to reactor's incoming queue.
func NewWorkerPool(reactor *Reactor, router Router, log *logrus.Entry, shutdown *atomic.Bool) *WorkerPool {
	return &WorkerPool{reactor: reactor, router: router, log: log, shutdown: shutdown}
}

// Start launches n worker goroutines.
func (p *WorkerPool) Start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go p.run()
	}
}

// Wait blocks until every worker goroutine has exited.
func (p *WorkerPool) Wait() { p.wg.Wait() }

func (p *WorkerPool) run() {
	defer p.wg.Done()
	incoming := p.reactor.Incoming()
	const pollInterval = 100 * time.Millisecond

	for {
		var item Inbound
		select {
		case it, ok := <-incoming:
			if !ok {
				return
			}
			item = it
		case <-time.After(pollInterval):
			if p.shutdown.Load() {
				return
			}
			continue
		}
		if p.shutdown.Load() {
			return
		}
		if item.Conn.Closed() {
			continue
		}
		if !item.Conn.TryLock() {
			p.reactor.Requeue(item)
			continue
		}
		p.handle(item)
	}
}

func (p *WorkerPool) handle(item Inbound) {
	defer item.Conn.Unlock()

	result := p.router.Route(item.Conn, item.PacketID, item.Payload)
	switch result.Outcome {
	case Ok:
		return
	case Disconnect:
		item.Conn.SetPhase(PhaseDisconnecting)
		item.Conn.Close()
	case ProtocolError:
		if result.Err != nil {
			p.log.WithField("conn", item.Conn.ID).WithError(result.Err).Info("netio: protocol violation, closing")
		}
		item.Conn.SetPhase(PhaseDisconnecting)
		item.Conn.Close()
	}
}
