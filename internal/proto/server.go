package proto

import (
	"github.com/sirupsen/logrus"

	"github.com/oriumgames/corestone/internal/config"
	"github.com/oriumgames/corestone/internal/idalloc"
	"github.com/oriumgames/corestone/internal/netio"
	"github.com/oriumgames/corestone/internal/registry"
	"github.com/oriumgames/corestone/internal/world"
)

// Server is the handle a handler gets back to the owning core. It is
// deliberately narrow: handlers read configuration and registries, reach
// the world query, allocate/release entity ids, and move a connection's
// player between the temporary and active tables. Everything else
// (lifecycle, listener, shutdown) belongs to internal/server alone.
type Server interface {
	Config() *config.Config
	Registries() *registry.Set
	World() world.ChunkSource
	Log() *logrus.Entry
	IDs() *idalloc.Manager

	// OnlineCount reports the number of active (post-Configuration)
	// players, for the Status response.
	OnlineCount() int32

	// RegisterTemporary records conn.Player as a temporary player,
	// between Login Start and Acknowledge Finish Configuration.
	RegisterTemporary(conn *netio.Connection)
	// PromoteToActive moves conn.Player from temporary to active.
	PromoteToActive(conn *netio.Connection)
	// RemovePlayer drops conn.Player from whichever table holds it.
	RemovePlayer(conn *netio.Connection)
}
