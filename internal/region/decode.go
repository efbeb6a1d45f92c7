package region

import (
	"bytes"

	"github.com/oriumgames/corestone/internal/chunk"
	"github.com/oriumgames/corestone/internal/nbt"
)

// BlockResolver maps a block-state's name and properties to the numeric
// protocol id used inside a PalettedContainer. Unknown names must resolve
// to (0, false); the decoder substitutes air and logs rather than failing
// the whole chunk.
type BlockResolver interface {
	ResolveBlockState(name string, properties map[string]string) (id int32, ok bool)
}

// BiomeResolver maps a biome name (e.g. "minecraft:plains") to its
// numeric registry id.
type BiomeResolver interface {
	ResolveBiome(name string) (id int32, ok bool)
}

// Decoder turns raw region-file NBT payloads into chunk.ChunkData,
// consulting the registries to resolve block and biome names to ids.
type Decoder struct {
	Blocks BlockResolver
	Biomes BiomeResolver

	WorldHeight int
	MinY        int

	// OnUnknownBlock, if set, is called once per palette entry that fails
	// to resolve; callers typically wire this to the server logger.
	OnUnknownBlock func(name string)
}

// NewDecoder returns a Decoder bound to the given registries and world
// vertical bounds.
func NewDecoder(blocks BlockResolver, biomes BiomeResolver, worldHeight, minY int) *Decoder {
	return &Decoder{Blocks: blocks, Biomes: biomes, WorldHeight: worldHeight, MinY: minY}
}

// Decode parses one chunk's NBT payload into a ChunkData. Both the
// modern root-level layout and the legacy "Level"-nested layout are
// accepted.
func (d *Decoder) Decode(chunkX, chunkZ int32, raw []byte) (*chunk.ChunkData, error) {
	root, err := nbt.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, nbt.ErrInvalidNBT
	}

	body := root
	if level, ok := root.Get("Level"); ok && level.Kind() == nbt.KindCompound {
		body = level
	}

	cd := &chunk.ChunkData{
		ChunkX:      chunkX,
		ChunkZ:      chunkZ,
		WorldHeight: d.WorldHeight,
		MinY:        d.MinY,
		Heights:     chunk.NewHeightMapSet(),
	}

	if v, ok := body.Get("LastUpdate"); ok {
		cd.LastUpdate = v.Long()
	}
	if v, ok := body.Get("InhabitedTime"); ok {
		cd.InhabitedTime = v.Long()
	}
	if v, ok := body.Get("Status"); ok {
		cd.GenerationStatus = v.String()
	} else if v, ok := body.Get("status"); ok {
		cd.GenerationStatus = v.String()
	}

	if sections, ok := body.Get("sections"); ok && sections.Kind() == nbt.KindList {
		for _, sec := range sections.List() {
			section, err := d.decodeSection(sec)
			if err != nil {
				return nil, err
			}
			cd.Sections = append(cd.Sections, section)
		}
	}

	if heightmaps, ok := body.Get("Heightmaps"); ok && heightmaps.Kind() == nbt.KindCompound {
		d.decodeHeightmaps(heightmaps, cd.Heights)
	}

	if entities, ok := body.Get("block_entities"); ok && entities.Kind() == nbt.KindList {
		cd.BlockEntities = decodeBlockEntities(entities)
	}

	return cd, nil
}

func (d *Decoder) decodeSection(sec nbt.Tag) (*chunk.ChunkSection, error) {
	y := int8(0)
	if v, ok := sec.Get("Y"); ok {
		y = v.Byte()
	}
	section := chunk.NewChunkSection(y)

	if blockStates, ok := sec.Get("block_states"); ok {
		blocks, err := d.decodeBlockPalette(blockStates)
		if err != nil {
			return nil, err
		}
		section.Blocks = blocks
	}
	if biomes, ok := sec.Get("biomes"); ok {
		b, err := d.decodeBiomePalette(biomes)
		if err != nil {
			return nil, err
		}
		section.Biomes = b
	}

	var sky, block []byte
	if v, ok := sec.Get("SkyLight"); ok {
		sky = v.ByteArray()
	}
	if v, ok := sec.Get("BlockLight"); ok {
		block = v.ByteArray()
	}
	if len(sky) != 0 || len(block) != 0 {
		if err := section.SetLighting(nonEmpty(sky), nonEmpty(block)); err != nil {
			return nil, err
		}
	}

	section.RecomputeNonAirCount()
	return section, nil
}

func nonEmpty(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}

// decodeBlockPalette resolves the four palette/data combinations a
// block_states compound can carry: palette with no data collapses to a
// single value (or air if the lone entry fails to resolve), palette with
// data unpacks indirect indices, data with no palette is already raw
// direct values, and neither present leaves the container all-air.
func (d *Decoder) decodeBlockPalette(tag nbt.Tag) (*chunk.PalettedContainer, error) {
	c := chunk.NewPalettedContainer(chunk.BlockContainerSize, true)
	palette, hasPalette := tag.Get("palette")
	data, hasData := tag.Get("data")

	switch {
	case hasPalette && !hasData:
		ids := d.resolveBlockPalette(palette)
		if len(ids) == 1 {
			c.SetSingleValue(ids[0])
		} else {
			// fail-safe: palette present without data but more than one
			// entry is malformed; fill with air and move on.
			c.SetSingleValue(0)
		}
	case hasPalette && hasData:
		ids := d.resolveBlockPalette(palette)
		indices := unpackLongArrayIndices(data.LongArray(), len(ids), chunk.BlockContainerSize)
		values := make([]int32, chunk.BlockContainerSize)
		for i, idx := range indices {
			if idx >= 0 && int(idx) < len(ids) {
				values[i] = ids[idx]
			}
		}
		c.SetFromArray(values)
	case !hasPalette && hasData:
		raw := unpackDirect(data.LongArray(), chunk.BlockDirectBPE, chunk.BlockContainerSize)
		c.SetFromArray(raw)
	default:
		c.SetSingleValue(0)
	}
	return c, nil
}

func (d *Decoder) decodeBiomePalette(tag nbt.Tag) (*chunk.PalettedContainer, error) {
	c := chunk.NewPalettedContainer(chunk.BiomeContainerSize, false)
	palette, hasPalette := tag.Get("palette")
	data, hasData := tag.Get("data")

	switch {
	case hasPalette && !hasData:
		ids := d.resolveBiomePalette(palette)
		if len(ids) == 1 {
			c.SetSingleValue(ids[0])
		} else {
			c.SetSingleValue(0)
		}
	case hasPalette && hasData:
		ids := d.resolveBiomePalette(palette)
		indices := unpackLongArrayIndices(data.LongArray(), len(ids), chunk.BiomeContainerSize)
		values := make([]int32, chunk.BiomeContainerSize)
		for i, idx := range indices {
			if idx >= 0 && int(idx) < len(ids) {
				values[i] = ids[idx]
			}
		}
		c.SetFromArray(values)
	case !hasPalette && hasData:
		raw := unpackDirect(data.LongArray(), chunk.BiomeDirectBPE, chunk.BiomeContainerSize)
		c.SetFromArray(raw)
	default:
		c.SetSingleValue(0)
	}
	return c, nil
}

func (d *Decoder) resolveBlockPalette(palette nbt.Tag) []int32 {
	entries := palette.List()
	ids := make([]int32, len(entries))
	for i, entry := range entries {
		name := ""
		if n, ok := entry.Get("Name"); ok {
			name = n.String()
		}
		props := map[string]string{}
		if p, ok := entry.Get("Properties"); ok && p.Kind() == nbt.KindCompound {
			for _, k := range p.Keys() {
				v, _ := p.Get(k)
				props[k] = v.String()
			}
		}
		id, ok := int32(0), false
		if d.Blocks != nil {
			id, ok = d.Blocks.ResolveBlockState(name, props)
		}
		if !ok {
			if d.OnUnknownBlock != nil {
				d.OnUnknownBlock(name)
			}
			id = 0
		}
		ids[i] = id
	}
	return ids
}

func (d *Decoder) resolveBiomePalette(palette nbt.Tag) []int32 {
	entries := palette.List()
	ids := make([]int32, len(entries))
	for i, entry := range entries {
		name := entry.String()
		id, ok := int32(0), false
		if d.Biomes != nil {
			id, ok = d.Biomes.ResolveBiome(name)
		}
		if !ok {
			id = 0
		}
		ids[i] = id
	}
	return ids
}

// unpackLongArrayIndices bit-unpacks count entries from data, each
// log2-sized to cover paletteLen values, with no entry straddling a
// 64-bit word boundary.
func unpackLongArrayIndices(data []int64, paletteLen, count int) []int32 {
	bpe := ceilLog2(paletteLen)
	if bpe < 1 {
		bpe = 1
	}
	return unpackBits(data, bpe, count)
}

func unpackDirect(data []int64, bpe, count int) []int32 {
	return unpackBits(data, bpe, count)
}

func unpackBits(data []int64, bpe, count int) []int32 {
	words := make([]uint64, len(data))
	for i, w := range data {
		words[i] = uint64(w)
	}
	valuesPerLong := 64 / bpe
	mask := uint64(1)<<uint(bpe) - 1
	out := make([]int32, count)
	for i := 0; i < count; i++ {
		word := i / valuesPerLong
		if word >= len(words) {
			break
		}
		offset := uint(i%valuesPerLong) * uint(bpe)
		out[i] = int32((words[word] >> offset) & mask)
	}
	return out
}

func ceilLog2(n int) int {
	if n <= 1 {
		return 0
	}
	v := 1
	bits := 0
	for v < n {
		v <<= 1
		bits++
	}
	return bits
}

func (d *Decoder) decodeHeightmaps(tag nbt.Tag, set chunk.HeightMapSet) {
	bpe := chunk.HeightMapBits(d.WorldHeight)
	names := map[string]chunk.HeightMapKind{
		"MOTION_BLOCKING":            chunk.MotionBlocking,
		"MOTION_BLOCKING_NO_LEAVES":  chunk.MotionBlockingNoLeaves,
		"OCEAN_FLOOR":                chunk.OceanFloor,
		"WORLD_SURFACE":              chunk.WorldSurface,
		"WORLD_SURFACE_WG":           chunk.WorldSurfaceWG,
	}
	for key, kind := range names {
		v, ok := tag.Get(key)
		if !ok {
			continue
		}
		set[kind] = chunk.UnpackHeightMap(v.LongArray(), bpe)
	}
}

func decodeBlockEntities(list nbt.Tag) []chunk.BlockEntity {
	var out []chunk.BlockEntity
	for _, t := range list.List() {
		var be chunk.BlockEntity
		if v, ok := t.Get("x"); ok {
			be.X = int8(v.Int() & 0xF)
		}
		if v, ok := t.Get("z"); ok {
			be.Z = int8(v.Int() & 0xF)
		}
		if v, ok := t.Get("y"); ok {
			be.Y = int16(v.Int())
		}
		out = append(out, be)
	}
	return out
}
