// Package region decodes the game's region-file container: a 32x32-chunk
// archive with a fixed location/timestamp table and per-chunk compressed
// NBT payloads. Grounded on nictuku-chunkymonkey's
// src/chunkymonkey/chunkstore/beta.go (location-table math, sector
// decompression), reworked around github.com/edsrzf/mmap-go and
// github.com/klauspost/compress for the actual I/O and decompression, and
// extended to walk the modern section/heightmap NBT layout.
package region
