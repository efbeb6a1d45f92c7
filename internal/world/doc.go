// Package world wraps the chunk cache behind the single
// fetchChunk(cx, cz) operation handlers consume, so a handler never
// touches region-file decoding directly.
package world
