// Package chunk implements the paletted-container bit-packing scheme, chunk
// sections, heightmaps, and the in-memory ChunkData the region decoder
// produces and the Play-phase handlers serialize onto the wire.
//
// Grounded on go-theft-craft-server's flat-world chunk section byte
// layout and ChickenIQ-VibeShitCraft's modern palette/bitmask shape, with
// the bit-packing tie-breaks (bpe floors, indirect-vs-direct threshold)
// matching the vanilla protocol's paletted-container and heightmap
// encoding.
package chunk
