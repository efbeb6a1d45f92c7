// Package chunkcache memoises decoded chunk.ChunkData keyed by (cx, cz),
// amortising region-file decode cost across repeated Play-phase chunk
// requests. Grounded on ChickenIQ-VibeShitCraft's pkg/server/chunk.go
// view-distance streaming (batch-by-region grouping) and
// nictuku-chunkymonkey's chunkstore caching, backed by
// github.com/hashicorp/golang-lru/v2 for eviction and
// golang.org/x/sync/singleflight to de-dup concurrent decodes of the
// same chunk.
package chunkcache
