package proto

import (
	"fmt"

	"github.com/oriumgames/corestone/internal/netio"
	"github.com/oriumgames/corestone/internal/wire"
)

// Router dispatches a decoded frame to the handler registered for
// (conn.Phase(), packetID). It implements netio.Router.
type Router struct {
	server Server
	table  map[netio.Phase]map[int32]HandlerFunc
}

// NewRouter returns a Router bound to server, with every phase's
// handler table pre-populated.
func NewRouter(server Server) *Router {
	r := &Router{
		server: server,
		table:  make(map[netio.Phase]map[int32]HandlerFunc),
	}
	r.register(netio.PhaseHandshake, SBHandshake, handleHandshake)
	r.register(netio.PhaseStatus, SBStatusRequest, handleStatusRequest)
	r.register(netio.PhaseStatus, SBPing, handlePing)
	r.register(netio.PhaseLogin, SBLoginStart, handleLoginStart)
	r.register(netio.PhaseLogin, SBLoginAcknowledged, handleLoginAcknowledged)
	r.register(netio.PhaseConfiguration, SBClientInformation, handleClientInformation)
	r.register(netio.PhaseConfiguration, SBConfigurationKnownPacks, handleConfigurationKnownPacks)
	r.register(netio.PhaseConfiguration, SBAcknowledgeFinishConfig, handleAcknowledgeFinishConfiguration)
	r.register(netio.PhasePlay, SBConfirmTeleport, handleConfirmTeleport)
	return r
}

func (r *Router) register(phase netio.Phase, id int32, fn HandlerFunc) {
	m, ok := r.table[phase]
	if !ok {
		m = make(map[int32]HandlerFunc)
		r.table[phase] = m
	}
	m[id] = fn
}

// Route implements netio.Router. A handler panic is recovered into a
// ProtocolError result so one malformed packet never takes the whole
// worker goroutine down with it.
func (r *Router) Route(conn *netio.Connection, packetID int32, payload []byte) (result netio.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			result = netio.Result{Outcome: netio.ProtocolError, Err: fmt.Errorf("proto: handler panic: %v", rec)}
		}
	}()

	handlers, ok := r.table[conn.Phase()]
	if !ok {
		return netio.Result{Outcome: netio.ProtocolError, Err: fmt.Errorf("proto: no handlers for phase %s", conn.Phase())}
	}
	handler, ok := handlers[packetID]
	if !ok {
		return netio.Result{Outcome: netio.ProtocolError, Err: fmt.Errorf("proto: packet id 0x%02X not accepted in phase %s", packetID, conn.Phase())}
	}

	ctx := &Context{Conn: conn, Body: wire.NewBuffer(payload), Server: r.server}
	return handler(ctx)
}
