// Package server wires the reactor, worker pool, router, and shared
// state (registries, the world query, the id allocator, the player
// tables) into one runnable core.
package server

import (
	"net"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/oriumgames/corestone/internal/chunkcache"
	"github.com/oriumgames/corestone/internal/config"
	"github.com/oriumgames/corestone/internal/idalloc"
	"github.com/oriumgames/corestone/internal/logging"
	"github.com/oriumgames/corestone/internal/netio"
	"github.com/oriumgames/corestone/internal/proto"
	"github.com/oriumgames/corestone/internal/region"
	"github.com/oriumgames/corestone/internal/registry"
	"github.com/oriumgames/corestone/internal/world"
)

// Core is the concrete proto.Server: one listener, one reactor, one
// worker pool, one world query, one id allocator, and the two
// player tables spec.md's promotion lock order protects.
type Core struct {
	cfg  *config.Config
	regs *registry.Set
	log  *logrus.Logger
	ids  *idalloc.Manager
	query *world.Query

	listener net.Listener
	reactor  *netio.Reactor
	pool     *netio.WorkerPool
	shutdown atomic.Bool

	tempMu sync.Mutex
	temp   map[uint64]*netio.Connection

	activeMu sync.Mutex
	active   map[uint64]*netio.Connection
}

// New assembles a Core from cfg: loads registries (or the compiled-in
// seed), opens the region store and chunk cache, and binds the listener.
// It does not start accepting connections; call Run for that.
func New(cfg *config.Config) (*Core, error) {
	log := logging.New(cfg.LogLevel)

	regs, err := registry.Load(cfg.WorldPath + "/../registries")
	if err != nil {
		return nil, Wrap(KindRegistryLoadError, err)
	}

	decoder := region.NewDecoder(regs, regs, int(cfg.WorldHeight), int(cfg.MinY))
	decoder.OnUnknownBlock = func(name string) {
		log.WithField("block", name).Info("region: unknown block name, substituting air")
	}
	store := region.NewStore(cfg.WorldPath, decoder, airBlockID(regs), plainsBiomeID(regs), log.WithField("component", "region"))
	cache, err := chunkcache.New(store, cfg.ChunkCacheSize)
	if err != nil {
		return nil, Wrap(KindConfigError, err)
	}

	listener, err := net.Listen("tcp", addr(cfg.Port))
	if err != nil {
		return nil, Wrap(KindIoError, err)
	}

	c := &Core{
		cfg:   cfg,
		regs:  regs,
		log:   log,
		ids:   idalloc.New(log.WithField("component", "idalloc")),
		query: world.NewQuery(cache),

		listener: listener,
		temp:     make(map[uint64]*netio.Connection),
		active:   make(map[uint64]*netio.Connection),
	}

	router := proto.NewRouter(c)
	c.reactor = netio.NewReactor(listener, incomingQueueCapacity, log.WithField("component", "reactor"), &c.shutdown)
	c.reactor.SetOnAccept(func(conn *netio.Connection) {
		conn.SetCloseHook(c.RemovePlayer)
	})
	c.pool = netio.NewWorkerPool(c.reactor, router, log.WithField("component", "pool"), &c.shutdown)
	return c, nil
}

const incomingQueueCapacity = 4096

func addr(port uint16) string {
	return net.JoinHostPort("0.0.0.0", strconv.Itoa(int(port)))
}

func airBlockID(regs *registry.Set) int32 {
	id, _ := regs.ResolveBlockState("minecraft:air", nil)
	return id
}

func plainsBiomeID(regs *registry.Set) int32 {
	id, _ := regs.ResolveBiome("minecraft:plains")
	return id
}

// Run starts the worker pool and blocks accepting connections until
// Shutdown is called or the listener is closed, then waits for the
// workers to exit.
func (c *Core) Run() {
	c.pool.Start(c.cfg.Workers)
	c.reactor.Run()
	c.pool.Wait()
}

// Shutdown stops accepting new connections and signals every goroutine
// watching the shutdown flag to stop.
func (c *Core) Shutdown() {
	c.shutdown.Store(true)
	c.listener.Close()
}

// proto.Server implementation.

func (c *Core) Config() *config.Config    { return c.cfg }
func (c *Core) Registries() *registry.Set { return c.regs }
func (c *Core) World() world.ChunkSource  { return c.query }
func (c *Core) Log() *logrus.Entry        { return logrus.NewEntry(c.log) }
func (c *Core) IDs() *idalloc.Manager     { return c.ids }

func (c *Core) OnlineCount() int32 {
	c.activeMu.Lock()
	defer c.activeMu.Unlock()
	return int32(len(c.active))
}

// RegisterTemporary adds conn to the temporary table, entered right after
// Login Start, before the client has finished Configuration.
func (c *Core) RegisterTemporary(conn *netio.Connection) {
	c.tempMu.Lock()
	defer c.tempMu.Unlock()
	c.temp[conn.ID] = conn
}

// PromoteToActive moves conn from temporary to active. The locks are
// acquired in the fixed temp-then-active order spec.md requires so a
// concurrent RemovePlayer (which also takes both) can never deadlock
// against this call.
func (c *Core) PromoteToActive(conn *netio.Connection) {
	c.tempMu.Lock()
	defer c.tempMu.Unlock()
	delete(c.temp, conn.ID)

	c.activeMu.Lock()
	defer c.activeMu.Unlock()
	c.active[conn.ID] = conn
}

// RemovePlayer removes conn from both tables and releases its entity id,
// if it had one. Safe to call whether conn was temporary, active, or
// never registered (e.g. closed during Login/Status).
func (c *Core) RemovePlayer(conn *netio.Connection) {
	c.tempMu.Lock()
	delete(c.temp, conn.ID)
	c.tempMu.Unlock()

	c.activeMu.Lock()
	delete(c.active, conn.ID)
	c.activeMu.Unlock()

	if conn.Player != nil {
		c.ids.Release(conn.Player.EntityID)
	}
}
