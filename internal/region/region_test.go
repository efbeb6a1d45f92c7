package region

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

type stubBlocks struct{}

func (stubBlocks) ResolveBlockState(name string, props map[string]string) (int32, bool) {
	if name == "minecraft:stone" {
		return 1, true
	}
	return 0, false
}

type stubBiomes struct{}

func (stubBiomes) ResolveBiome(name string) (int32, bool) {
	if name == "minecraft:plains" {
		return 4, true
	}
	return 0, false
}

// writeRegionFile adds one chunk to the region file backing (chunkX,
// chunkZ), creating the file if needed: a zlib-compressed payload holding
// the given raw bytes, stored in new sectors appended at the end of the
// file (sector 2 for a fresh file).
func writeRegionFile(t *testing.T, dir string, chunkX, chunkZ int32, payload []byte) string {
	t.Helper()

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(payload); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	zw.Close()

	body := make([]byte, 0, 5+compressed.Len())
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(compressed.Len()+1))
	body = append(body, lenBuf[:]...)
	body = append(body, schemeZlib)
	body = append(body, compressed.Bytes()...)

	sectorCount := (len(body) + sectorSize - 1) / sectorSize
	if sectorCount == 0 {
		sectorCount = 1
	}
	path := Path(dir, chunkX, chunkZ)
	buf := make([]byte, headerBytes)
	if existing, err := os.ReadFile(path); err == nil {
		buf = existing
	}

	idx := locationIndex(chunkX, chunkZ) * 4
	sectorOffset := len(buf) / sectorSize // sector 2 for a fresh file
	entry := uint32(sectorOffset)<<8 | uint32(sectorCount)
	binary.BigEndian.PutUint32(buf[idx:idx+4], entry)

	start := sectorOffset * sectorSize
	buf = append(buf, make([]byte, sectorCount*sectorSize)...)
	copy(buf[start:], body)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir region dir: %v", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write region file: %v", err)
	}
	return path
}

func minimalChunkNBT() []byte {
	// A hand-built root compound: {Status: "minecraft:full"} — enough to
	// exercise decode without a palette, matching the "sections absent"
	// empty-list path.
	var buf bytes.Buffer
	buf.WriteByte(10) // TAG_Compound
	buf.Write([]byte{0, 0})

	buf.WriteByte(8) // TAG_String
	writeName(&buf, "Status")
	writeName(&buf, "minecraft:full")

	buf.WriteByte(0) // TAG_End
	return buf.Bytes()
}

func writeName(buf *bytes.Buffer, s string) {
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(s)))
	buf.Write(lenBuf[:])
	buf.WriteString(s)
}

func TestFetchChunkMissingRegionReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	decoder := NewDecoder(stubBlocks{}, stubBiomes{}, 384, -64)
	store := NewStore(dir, decoder, 0, 4, nil)

	cd, err := store.FetchChunk(0, 0)
	if err != nil {
		t.Fatalf("FetchChunk: %v", err)
	}
	if !cd.IsEmpty() {
		t.Fatalf("expected empty chunk for missing region file")
	}
}

func TestFetchChunkZeroLocationEntryReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	buf := make([]byte, headerBytes)
	path := Path(dir, 0, 0)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir region dir: %v", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write region file: %v", err)
	}

	decoder := NewDecoder(stubBlocks{}, stubBiomes{}, 384, -64)
	store := NewStore(dir, decoder, 0, 4, nil)

	cd, err := store.FetchChunk(0, 0)
	if err != nil {
		t.Fatalf("FetchChunk: %v", err)
	}
	if !cd.IsEmpty() {
		t.Fatalf("expected empty chunk for zero location entry")
	}
}

func TestFetchChunkDecodesStatus(t *testing.T) {
	dir := t.TempDir()
	writeRegionFile(t, dir, 0, 0, minimalChunkNBT())

	decoder := NewDecoder(stubBlocks{}, stubBiomes{}, 384, -64)
	store := NewStore(dir, decoder, 0, 4, nil)

	cd, err := store.FetchChunk(0, 0)
	if err != nil {
		t.Fatalf("FetchChunk: %v", err)
	}
	if !cd.IsFullyGenerated() {
		t.Fatalf("expected GenerationStatus minecraft:full, got %q", cd.GenerationStatus)
	}
}

// writeRegionFileWithScheme writes a single chunk entry whose payload
// declares an unrecognized compression scheme byte, so decompress hits its
// default branch and returns ErrDecompressionFailed.
func writeRegionFileWithScheme(t *testing.T, dir string, chunkX, chunkZ int32) string {
	t.Helper()

	garbage := []byte("not a real compressed payload")
	body := make([]byte, 0, 5+len(garbage))
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(garbage)+1))
	body = append(body, lenBuf[:]...)
	body = append(body, 0x7F) // unrecognized scheme byte
	body = append(body, garbage...)

	sectorCount := (len(body) + sectorSize - 1) / sectorSize
	if sectorCount == 0 {
		sectorCount = 1
	}
	fileSize := headerBytes + sectorCount*sectorSize
	buf := make([]byte, fileSize)

	idx := locationIndex(chunkX, chunkZ) * 4
	const sectorOffset = 2
	entry := uint32(sectorOffset)<<8 | uint32(sectorCount)
	binary.BigEndian.PutUint32(buf[idx:idx+4], entry)

	start := sectorOffset * sectorSize
	copy(buf[start:], body)

	path := Path(dir, chunkX, chunkZ)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir region dir: %v", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write region file: %v", err)
	}
	return path
}

func TestFetchChunkRecoversDecompressionFailure(t *testing.T) {
	dir := t.TempDir()
	writeRegionFileWithScheme(t, dir, 0, 0)

	decoder := NewDecoder(stubBlocks{}, stubBiomes{}, 384, -64)
	store := NewStore(dir, decoder, 0, 4, nil)

	cd, err := store.FetchChunk(0, 0)
	if err != nil {
		t.Fatalf("FetchChunk: expected recovered empty chunk, got error: %v", err)
	}
	if !cd.IsEmpty() {
		t.Fatalf("expected empty chunk for an unrecognized compression scheme")
	}
}

func TestFetchChunkBatchDecodesChunksAcrossRegions(t *testing.T) {
	dir := t.TempDir()
	writeRegionFile(t, dir, 0, 0, minimalChunkNBT())
	writeRegionFile(t, dir, 31, 31, minimalChunkNBT())
	writeRegionFile(t, dir, 32, 0, minimalChunkNBT())

	decoder := NewDecoder(stubBlocks{}, stubBiomes{}, 384, -64)
	store := NewStore(dir, decoder, 0, 4, nil)

	coords := [][2]int32{{0, 0}, {31, 31}, {32, 0}}
	out, err := store.FetchChunkBatch(coords)
	if err != nil {
		t.Fatalf("FetchChunkBatch: %v", err)
	}
	if len(out) != len(coords) {
		t.Fatalf("expected %d results, got %d", len(coords), len(out))
	}
	for _, co := range coords {
		cd, ok := out[co]
		if !ok {
			t.Fatalf("missing result for %v", co)
		}
		if !cd.IsFullyGenerated() {
			t.Fatalf("expected GenerationStatus minecraft:full for %v, got %q", co, cd.GenerationStatus)
		}
	}
}

func TestFetchChunkBatchRecoversMissingRegion(t *testing.T) {
	dir := t.TempDir()
	decoder := NewDecoder(stubBlocks{}, stubBiomes{}, 384, -64)
	store := NewStore(dir, decoder, 0, 4, nil)

	out, err := store.FetchChunkBatch([][2]int32{{0, 0}, {1, 0}})
	if err != nil {
		t.Fatalf("FetchChunkBatch: %v", err)
	}
	for _, co := range [][2]int32{{0, 0}, {1, 0}} {
		cd, ok := out[co]
		if !ok || !cd.IsEmpty() {
			t.Fatalf("expected recovered empty chunk for %v", co)
		}
	}
}
