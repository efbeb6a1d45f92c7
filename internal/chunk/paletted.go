package chunk

import (
	"errors"
	"math/bits"

	"github.com/oriumgames/corestone/internal/wire"
)

// Encoding identifies which of the three paletted-container representations
// is active.
type Encoding int

const (
	SingleValued Encoding = iota
	Indirect
	Direct
)

// bpe floors/ceilings for the two container kinds the protocol defines.
const (
	BlockMinBPE         = 4
	BlockMaxIndirectBPE = 8 // unique count <= 2^8 = 256
	BlockDirectBPE      = 15

	BiomeMinBPE         = 1
	BiomeMaxIndirectBPE = 3 // unique count <= 2^3 = 8
	BiomeDirectBPE      = 6
)

// ErrInvalidSection is returned when a serialized container's lengths don't
// line up with its declared bpe/size.
var ErrInvalidSection = errors.New("chunk: invalid paletted container")

// PalettedContainer is a fixed-size array of ids (block states or biomes)
// stored in one of three encodings with identical get/set semantics.
type PalettedContainer struct {
	size    int
	isBlock bool

	encoding Encoding
	single   int32
	palette  []int32  // Indirect only
	bpe      int       // 0 for SingleValued
	words    []uint64  // bit-packed data, Indirect/Direct only
}

// NewPalettedContainer returns a SingleValued container of value 0 (air /
// the zeroth biome), matching an empty chunk section's initial state.
func NewPalettedContainer(size int, isBlock bool) *PalettedContainer {
	return &PalettedContainer{size: size, isBlock: isBlock, encoding: SingleValued, single: 0}
}

func (c *PalettedContainer) Size() int        { return c.size }
func (c *PalettedContainer) IsBlock() bool    { return c.isBlock }
func (c *PalettedContainer) Encoding() Encoding { return c.encoding }
func (c *PalettedContainer) BitsPerEntry() int { return c.bpe }

func (c *PalettedContainer) minMaxIndirectDirect() (minBPE, maxIndirect, directBPE int) {
	if c.isBlock {
		return BlockMinBPE, BlockMaxIndirectBPE, BlockDirectBPE
	}
	return BiomeMinBPE, BiomeMaxIndirectBPE, BiomeDirectBPE
}

// SetSingleValue collapses the container to a single uniform value.
func (c *PalettedContainer) SetSingleValue(v int32) {
	c.encoding = SingleValued
	c.single = v
	c.palette = nil
	c.bpe = 0
	c.words = nil
}

// SetFromArray chooses the optimal encoding for values (length must equal
// Size()): a single unique value collapses to SingleValued, a unique count
// that fits the indirect bpe ceiling picks Indirect, otherwise Direct.
func (c *PalettedContainer) SetFromArray(values []int32) {
	if len(values) != c.size {
		panic("chunk: SetFromArray length mismatch")
	}

	unique := uniqueValues(values)
	if len(unique) <= 1 {
		v := int32(0)
		if len(unique) == 1 {
			v = unique[0]
		}
		c.SetSingleValue(v)
		return
	}

	minBPE, maxIndirect, directBPE := c.minMaxIndirectDirect()
	if len(unique) <= 1<<maxIndirect {
		bpe := ceilLog2(len(unique))
		if bpe < minBPE {
			bpe = minBPE
		}
		index := make(map[int32]int, len(unique))
		for i, v := range unique {
			index[v] = i
		}
		indices := make([]int32, len(values))
		for i, v := range values {
			indices[i] = int32(index[v])
		}
		c.encoding = Indirect
		c.bpe = bpe
		c.palette = unique
		c.words = packValues(indices, bpe)
		return
	}

	c.encoding = Direct
	c.bpe = directBPE
	c.palette = nil
	c.words = packValues(values, directBPE)
}

// Get returns the value at the flat index (row-major within the section).
func (c *PalettedContainer) Get(index int) int32 {
	switch c.encoding {
	case SingleValued:
		return c.single
	case Indirect:
		i := unpackValue(c.words, c.bpe, index)
		if int(i) < 0 || int(i) >= len(c.palette) {
			return 0
		}
		return c.palette[i]
	case Direct:
		return unpackValue(c.words, c.bpe, index)
	default:
		return 0
	}
}

// Set writes a single value, re-deriving the whole container's encoding.
// Paletted containers in this core are built once by the region decoder and
// read many times by the network layer, so Set is implemented in terms of a
// full materialize + SetFromArray rather than maintaining palette-growth
// bookkeeping.
func (c *PalettedContainer) Set(index int, v int32) {
	values := c.ToArray()
	values[index] = v
	c.SetFromArray(values)
}

// ToArray materializes every entry into a flat slice of length Size().
func (c *PalettedContainer) ToArray() []int32 {
	out := make([]int32, c.size)
	for i := range out {
		out[i] = c.Get(i)
	}
	return out
}

// Serialize writes the wire encoding for a paletted container: u8 bpe, then
// a palette (VarInt count followed by VarInt ids) whenever the encoding
// carries one explicitly (SingleValued's one-entry palette, or Indirect's),
// then VarInt data length followed by that many little-endian i64 words.
// Direct carries no palette since every id is its own raw value.
func (c *PalettedContainer) Serialize(w *wire.Buffer) {
	w.WriteByte(byte(c.bpe))
	switch c.encoding {
	case SingleValued:
		w.WriteVarInt(1)
		w.WriteVarInt(c.single)
	case Indirect:
		w.WriteVarInt(int32(len(c.palette)))
		for _, id := range c.palette {
			w.WriteVarInt(id)
		}
	}
	w.WriteVarInt(int32(len(c.words)))
	for _, word := range c.words {
		w.WriteInt64LE(int64(word))
	}
}

// DeserializeContainer reads back what Serialize wrote, given the section's
// declared size/isBlock.
func DeserializeContainer(r *wire.Buffer, size int, isBlock bool) (*PalettedContainer, error) {
	bpeByte, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	c := &PalettedContainer{size: size, isBlock: isBlock}
	bpe := int(bpeByte)

	if bpe == 0 {
		// SingleValued: palette is a one-entry array, data empty.
		n, err := r.ReadVarInt()
		if err != nil {
			return nil, err
		}
		if n != 1 {
			return nil, ErrInvalidSection
		}
		v, err := r.ReadVarInt()
		if err != nil {
			return nil, err
		}
		dataLen, err := r.ReadVarInt()
		if err != nil {
			return nil, err
		}
		for i := int32(0); i < dataLen; i++ {
			if _, err := r.ReadInt64LE(); err != nil {
				return nil, err
			}
		}
		c.SetSingleValue(v)
		return c, nil
	}

	minBPE, maxIndirect, _ := c.minMaxIndirectDirect()
	isIndirect := bpe <= maxIndirect && bpe >= minBPE
	if isIndirect {
		n, err := r.ReadVarInt()
		if err != nil {
			return nil, err
		}
		palette := make([]int32, n)
		for i := range palette {
			v, err := r.ReadVarInt()
			if err != nil {
				return nil, err
			}
			palette[i] = v
		}
		c.palette = palette
		c.encoding = Indirect
	} else {
		c.encoding = Direct
	}
	c.bpe = bpe

	dataLen, err := r.ReadVarInt()
	if err != nil {
		return nil, err
	}
	words := make([]uint64, dataLen)
	for i := range words {
		v, err := r.ReadInt64LE()
		if err != nil {
			return nil, err
		}
		words[i] = uint64(v)
	}
	c.words = words
	return c, nil
}

func uniqueValues(values []int32) []int32 {
	seen := make(map[int32]struct{})
	var out []int32
	for _, v := range values {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

func ceilLog2(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}

func packValues(values []int32, bpe int) []uint64 {
	valuesPerLong := 64 / bpe
	numWords := (len(values) + valuesPerLong - 1) / valuesPerLong
	words := make([]uint64, numWords)
	mask := uint64(1)<<uint(bpe) - 1
	for i, v := range values {
		word := i / valuesPerLong
		offset := uint(i%valuesPerLong) * uint(bpe)
		words[word] |= (uint64(v) & mask) << offset
	}
	return words
}

func unpackValue(words []uint64, bpe, index int) int32 {
	if bpe == 0 || len(words) == 0 {
		return 0
	}
	valuesPerLong := 64 / bpe
	word := index / valuesPerLong
	if word >= len(words) {
		return 0
	}
	offset := uint(index%valuesPerLong) * uint(bpe)
	mask := uint64(1)<<uint(bpe) - 1
	return int32((words[word] >> offset) & mask)
}
