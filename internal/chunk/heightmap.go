package chunk

// HeightMapKind identifies one of the five heightmap variants tracked per
// chunk, per the protocol.
type HeightMapKind string

const (
	MotionBlocking         HeightMapKind = "MOTION_BLOCKING"
	MotionBlockingNoLeaves HeightMapKind = "MOTION_BLOCKING_NO_LEAVES"
	OceanFloor             HeightMapKind = "OCEAN_FLOOR"
	WorldSurface           HeightMapKind = "WORLD_SURFACE"
	WorldSurfaceWG         HeightMapKind = "WORLD_SURFACE_WG"
)

// AllHeightMapKinds lists every kind the Play-phase chunk packet populates.
var AllHeightMapKinds = []HeightMapKind{
	MotionBlocking, MotionBlockingNoLeaves, OceanFloor, WorldSurface, WorldSurfaceWG,
}

const heightMapEntries = 256

// HeightMapBits returns ceil(log2(worldHeight + 1)), the bits-per-entry used
// to bit-pack a heightmap for a world of the given height.
func HeightMapBits(worldHeight int) int {
	return ceilLog2(worldHeight + 1)
}

// PackHeightMap bit-packs 256 u16 heights into big-endian-ordered i64 words
// using the same no-straddle scheme as a paletted container: bpe bits per
// entry, valuesPerLong = 64/bpe, zero-padded leftover bits.
func PackHeightMap(heights [heightMapEntries]uint16, bpe int) []int64 {
	values := make([]int32, heightMapEntries)
	for i, h := range heights {
		values[i] = int32(h)
	}
	words := packValues(values, bpe)
	out := make([]int64, len(words))
	for i, w := range words {
		out[i] = int64(w)
	}
	return out
}

// UnpackHeightMap is PackHeightMap's inverse.
func UnpackHeightMap(words []int64, bpe int) [heightMapEntries]uint16 {
	raw := make([]uint64, len(words))
	for i, w := range words {
		raw[i] = uint64(w)
	}
	var out [heightMapEntries]uint16
	for i := range out {
		out[i] = uint16(unpackValue(raw, bpe, i))
	}
	return out
}

// HeightMapSet bundles all five heightmap kinds for one chunk.
type HeightMapSet map[HeightMapKind][heightMapEntries]uint16

// NewHeightMapSet returns a set with every kind zeroed, matching an empty
// chunk's heightmaps.
func NewHeightMapSet() HeightMapSet {
	set := make(HeightMapSet, len(AllHeightMapKinds))
	for _, k := range AllHeightMapKinds {
		set[k] = [heightMapEntries]uint16{}
	}
	return set
}
