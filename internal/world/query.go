package world

import "github.com/oriumgames/corestone/internal/chunk"

// ChunkSource is the one operation handlers need from the world layer.
// A missing or corrupt chunk must never surface as an error here — the
// cache and the region store already collapse those cases into a
// synthesized empty chunk, so this interface's contract is simply
// "never fails for a structurally valid (cx, cz)". *Query implements
// this; proto handlers depend on the interface, never on Query's wider
// concrete API.
type ChunkSource interface {
	FetchChunk(chunkX, chunkZ int32) (*chunk.ChunkData, error)
}

// cache is the narrower operation Query needs from its backing store
// (typically a *chunkcache.Cache, whose own method is named Fetch, not
// FetchChunk, to avoid colliding with chunkcache.Source's FetchChunk).
type cache interface {
	Fetch(chunkX, chunkZ int32) (*chunk.ChunkData, error)
}

// Query composes a chunk cache with nothing else; it exists so proto
// handlers depend on the narrow ChunkSource interface instead of
// reaching into chunkcache.Cache's wider API (Preload, Evict, Stats)
// that only the server's lifecycle code needs.
type Query struct {
	cache cache
}

// NewQuery wraps c (typically a *chunkcache.Cache) behind the
// ChunkSource interface.
func NewQuery(c cache) *Query {
	return &Query{cache: c}
}

// FetchChunk implements ChunkSource.
func (q *Query) FetchChunk(chunkX, chunkZ int32) (*chunk.ChunkData, error) {
	return q.cache.Fetch(chunkX, chunkZ)
}
