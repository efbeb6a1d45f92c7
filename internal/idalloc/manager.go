package idalloc

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Manager hands out monotonically increasing u32 ids, reusing released
// ids before minting new ones. A single mutex protects both the counter
// and the free-list; contention is expected to be negligible since ids
// are only allocated/released on join/disconnect.
type Manager struct {
	mu       sync.Mutex
	next     uint32
	freeList []uint32
	log      *logrus.Entry
}

// New returns a Manager starting at id 1 (id 0 is reserved, matching the
// protocol's convention that entity id 0 never appears on the wire).
func New(log *logrus.Entry) *Manager {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Manager{next: 1, log: log}
}

// Allocate returns a fresh or reused id.
func (m *Manager) Allocate() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n := len(m.freeList); n > 0 {
		id := m.freeList[n-1]
		m.freeList = m.freeList[:n-1]
		return id
	}
	id := m.next
	m.next++
	return id
}

// Release returns an id to the free-list for reuse. Releasing an id that
// was never allocated (or already released) is logged at warn level and
// otherwise ignored — it never panics the caller.
func (m *Manager) Release(id uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == 0 || id >= m.next {
		m.log.WithField("id", id).Warn("idalloc: release of id outside allocated range")
		return
	}
	for _, existing := range m.freeList {
		if existing == id {
			m.log.WithField("id", id).Warn("idalloc: double release")
			return
		}
	}
	m.freeList = append(m.freeList, id)
}

// InUse reports the number of ids currently allocated (not on the
// free-list), for diagnostics.
func (m *Manager) InUse() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int(m.next) - 1 - len(m.freeList)
}
