package proto

import (
	"github.com/oriumgames/corestone/internal/chunk"
	"github.com/oriumgames/corestone/internal/nbt"
	"github.com/oriumgames/corestone/internal/wire"
)

const bitsPerLong = 64

// buildLevelChunkWithLight composes one Level Chunk with Light packet
// body for cd. Light data always uses the same synthetic encoding: every
// section's sky-light mask bit is set and carries a 2048-byte array of
// full light (0xFF), and every section's block light is reported empty
// through the empty-block-light mask, with no block-light arrays. The
// arrays in ChunkSection.SkyLight/BlockLight are never sent.
func buildLevelChunkWithLight(cd *chunk.ChunkData) []byte {
	out := wire.NewWriteBuffer()
	out.WriteInt(cd.ChunkX)
	out.WriteInt(cd.ChunkZ)

	writeHeightmapsNBT(out, cd.Heights, cd.WorldHeight)

	sectionData := wire.NewWriteBuffer()
	for _, s := range cd.Sections {
		sectionData.WriteShort(int16(s.NonAirCount()))
		s.Blocks.Serialize(sectionData)
		s.Biomes.Serialize(sectionData)
	}
	out.WriteVarInt(int32(len(sectionData.Bytes())))
	out.Write(sectionData.Bytes())

	out.WriteVarInt(int32(len(cd.BlockEntities)))
	for _, be := range cd.BlockEntities {
		out.WriteByte(byte((be.X&0x0F)<<4 | (be.Z & 0x0F)))
		out.WriteShort(be.Y)
		out.WriteVarInt(be.Type)
		out.Write(be.Data)
	}

	n := len(cd.Sections)
	writeFullBitSet(out, n)     // sky light mask: every section full
	writeEmptyBitSet(out, n)    // block light mask: none set
	writeEmptyBitSet(out, n)    // empty sky light mask: none set
	writeFullBitSet(out, n)     // empty block light mask: every section

	out.WriteVarInt(int32(n))
	full := make([]byte, 2048)
	for i := range full {
		full[i] = 0xFF
	}
	for i := 0; i < n; i++ {
		out.WriteVarInt(2048)
		out.Write(full)
	}
	out.WriteVarInt(0) // block light array count

	return out.Bytes()
}

// writeHeightmapsNBT hand-writes the NBT compound the region decoder's
// reader never needs to produce, since internal/nbt only implements
// Parse. The root is an unnamed Compound holding one Long Array per
// heightmap kind, keyed by its wire name (e.g. "MOTION_BLOCKING").
func writeHeightmapsNBT(w *wire.Buffer, heights chunk.HeightMapSet, worldHeight int) {
	bpe := chunk.HeightMapBits(worldHeight)

	w.WriteByte(byte(nbt.KindCompound))
	w.WriteShort(0) // unnamed root

	for _, kind := range chunk.AllHeightMapKinds {
		name := string(kind)
		words := chunk.PackHeightMap(heights[kind], bpe)

		w.WriteByte(byte(nbt.KindLongArray))
		w.WriteShort(int16(len(name)))
		w.Write([]byte(name))
		w.WriteInt(int32(len(words)))
		for _, word := range words {
			w.WriteInt64(word)
		}
	}

	w.WriteByte(byte(nbt.KindEnd))
}

// writeFullBitSet and writeEmptyBitSet write the protocol's length-
// prefixed long-array BitSet encoding for n single-bit flags (one per
// chunk section), either all set or all clear.
func writeFullBitSet(w *wire.Buffer, n int) {
	longs := (n + bitsPerLong - 1) / bitsPerLong
	w.WriteVarInt(int32(longs))
	for i := 0; i < longs; i++ {
		bits := n - i*bitsPerLong
		if bits >= bitsPerLong {
			w.WriteInt64(-1) // all 64 bits set
			continue
		}
		w.WriteInt64(int64(uint64(1)<<uint(bits) - 1))
	}
}

func writeEmptyBitSet(w *wire.Buffer, n int) {
	longs := (n + bitsPerLong - 1) / bitsPerLong
	w.WriteVarInt(int32(longs))
	for i := 0; i < longs; i++ {
		w.WriteInt64(0)
	}
}
