package chunkcache

import (
	"encoding/binary"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/oriumgames/corestone/internal/chunk"
)

// Coord is a chunk column's (x, z) key.
type Coord struct {
	X, Z int32
}

// Source produces a ChunkData for one coordinate, e.g. region.Store.
// Decode failures must be reported through the error return; a failed
// decode is never cached.
type Source interface {
	FetchChunk(chunkX, chunkZ int32) (*chunk.ChunkData, error)
}

// BatchSource is an optional capability a Source can implement to fetch
// many coordinates while opening each backing region file at most once.
// region.Store implements this; FetchBatch uses it when available and
// falls back to per-coordinate Fetch otherwise.
type BatchSource interface {
	FetchChunkBatch(coords [][2]int32) (map[[2]int32]*chunk.ChunkData, error)
}

// singleflightKey folds a chunk coordinate into a compact de-dup key via
// xxhash rather than a formatted string.
func singleflightKey(cx, cz int32) string {
	var b [8]byte
	binary.BigEndian.PutUint32(b[0:4], uint32(cx))
	binary.BigEndian.PutUint32(b[4:8], uint32(cz))
	return strconv.FormatUint(xxhash.Sum64(b[:]), 36)
}

// Metrics are advisory counters for observability, never consulted for
// correctness.
type Metrics struct {
	Total    int64
	Hits     int64
	Misses   int64
	LastLoad time.Duration
	AvgLoad  time.Duration
}

// Cache is a fixed-capacity LRU of decoded chunks shared across worker
// goroutines. Concurrent fetches of the same coordinate are de-duplicated
// via singleflight so a cache stampede only decodes once.
type Cache struct {
	source Source
	lru    *lru.Cache[Coord, *chunk.ChunkData]
	group  singleflight.Group

	mu       sync.Mutex
	total    int64
	hits     int64
	misses   int64
	lastLoad time.Duration
	sumLoad  time.Duration
	loads    int64
}

// New returns a Cache of the given capacity (number of chunks) backed by
// source for misses.
func New(source Source, capacity int) (*Cache, error) {
	l, err := lru.New[Coord, *chunk.ChunkData](capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{source: source, lru: l}, nil
}

// Fetch returns the ChunkData for (cx, cz), decoding and caching on miss.
func (c *Cache) Fetch(cx, cz int32) (*chunk.ChunkData, error) {
	coord := Coord{X: cx, Z: cz}

	c.mu.Lock()
	c.total++
	if cd, ok := c.lru.Get(coord); ok {
		c.hits++
		c.mu.Unlock()
		return cd, nil
	}
	c.misses++
	c.mu.Unlock()

	key := singleflightKey(cx, cz)
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		start := time.Now()
		cd, err := c.source.FetchChunk(cx, cz)
		if err != nil {
			return nil, err
		}
		elapsed := time.Since(start)

		c.mu.Lock()
		c.lastLoad = elapsed
		c.sumLoad += elapsed
		c.loads++
		c.mu.Unlock()

		c.lru.Add(coord, cd)
		return cd, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*chunk.ChunkData), nil
}

// FetchBatch fetches many coordinates. LRU hits are served directly; the
// remaining misses are handed to the backing source's FetchChunkBatch in
// one call when it implements BatchSource, so a region file is opened at
// most once across the whole batch regardless of how many of its chunks
// are missing. Sources that don't implement BatchSource fall back to the
// per-coordinate Fetch path.
func (c *Cache) FetchBatch(coords []Coord) (map[Coord]*chunk.ChunkData, error) {
	out := make(map[Coord]*chunk.ChunkData, len(coords))

	batch, ok := c.source.(BatchSource)
	if !ok {
		for _, co := range coords {
			cd, err := c.Fetch(co.X, co.Z)
			if err != nil {
				return nil, err
			}
			out[co] = cd
		}
		return out, nil
	}

	var misses []Coord
	c.mu.Lock()
	c.total += int64(len(coords))
	for _, co := range coords {
		if cd, ok := c.lru.Get(co); ok {
			c.hits++
			out[co] = cd
		} else {
			c.misses++
			misses = append(misses, co)
		}
	}
	c.mu.Unlock()

	if len(misses) == 0 {
		return out, nil
	}

	missCoords := make([][2]int32, len(misses))
	for i, co := range misses {
		missCoords[i] = [2]int32{co.X, co.Z}
	}

	start := time.Now()
	decoded, err := batch.FetchChunkBatch(missCoords)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	c.mu.Lock()
	c.lastLoad = elapsed
	c.sumLoad += elapsed
	c.loads++
	c.mu.Unlock()

	for _, co := range misses {
		cd, ok := decoded[[2]int32{co.X, co.Z}]
		if !ok {
			continue
		}
		c.lru.Add(co, cd)
		out[co] = cd
	}
	return out, nil
}

// Preload warms the cache for coords without returning results.
func (c *Cache) Preload(coords []Coord) error {
	_, err := c.FetchBatch(coords)
	return err
}

// Evict removes one coordinate from the cache, if present.
func (c *Cache) Evict(cx, cz int32) {
	c.lru.Remove(Coord{X: cx, Z: cz})
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.lru.Purge()
}

// Stats returns a snapshot of the advisory metrics.
func (c *Cache) Stats() Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	var avg time.Duration
	if c.loads > 0 {
		avg = c.sumLoad / time.Duration(c.loads)
	}
	return Metrics{
		Total:    c.total,
		Hits:     c.hits,
		Misses:   c.misses,
		LastLoad: c.lastLoad,
		AvgLoad:  avg,
	}
}
