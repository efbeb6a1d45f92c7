package region

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/edsrzf/mmap-go"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

const (
	sectorSize     = 4096
	locationBytes  = 4096
	timestampBytes = 4096
	headerBytes    = locationBytes + timestampBytes

	schemeGzip       = 1
	schemeZlib       = 2
	schemeUncompressed = 3
)

// File is a memory-mapped region file (32x32 chunks). Callers should Close
// it once no decode is in flight; Store keeps a region open only for the
// duration of one FetchChunk/FetchChunkBatch call.
type File struct {
	path string
	mm   mmap.MMap
	f    *os.File
}

// Path builds the conventional "r.<rx>.<rz>.mca" region file path for a
// world directory and chunk coordinate.
func Path(worldPath string, chunkX, chunkZ int32) string {
	rx := chunkX >> 5
	rz := chunkZ >> 5
	return filepath.Join(worldPath, "region", fmt.Sprintf("r.%d.%d.mca", rx, rz))
}

// Open memory-maps the region file backing chunkX/chunkZ under worldPath.
// A missing file is reported as ErrRegionMissing, which callers should
// treat as "every chunk in this region is absent" rather than a hard
// failure.
func Open(worldPath string, chunkX, chunkZ int32) (*File, error) {
	path := Path(worldPath, chunkX, chunkZ)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrRegionMissing
		}
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size() < headerBytes {
		f.Close()
		return nil, ErrInvalidRegionFile
	}
	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &File{path: path, mm: mm, f: f}, nil
}

// Close unmaps and closes the underlying file.
func (r *File) Close() error {
	var err error
	if r.mm != nil {
		err = r.mm.Unmap()
	}
	if cerr := r.f.Close(); err == nil {
		err = cerr
	}
	return err
}

func locationIndex(chunkX, chunkZ int32) int {
	return int(chunkX&31) + int(chunkZ&31)*32
}

// Has reports whether the location table carries a non-zero entry for
// (chunkX, chunkZ) without reading or decompressing the payload.
func (r *File) Has(chunkX, chunkZ int32) bool {
	idx := locationIndex(chunkX, chunkZ) * 4
	entry := binary.BigEndian.Uint32(r.mm[idx : idx+4])
	return entry != 0
}

// ReadChunkNBT returns the decompressed, NBT-encoded chunk payload for
// (chunkX, chunkZ). A zero location entry means the chunk is absent; this
// is reported via ok=false rather than an error, leaving the caller to
// substitute a synthesized empty chunk.
func (r *File) ReadChunkNBT(chunkX, chunkZ int32) (data []byte, ok bool, err error) {
	idx := locationIndex(chunkX, chunkZ) * 4
	entry := binary.BigEndian.Uint32(r.mm[idx : idx+4])
	if entry == 0 {
		return nil, false, nil
	}
	sectorOffset := entry >> 8
	sectorCount := entry & 0xFF
	start := int(sectorOffset) * sectorSize
	end := start + int(sectorCount)*sectorSize
	if sectorOffset < headerBytes/sectorSize || end > len(r.mm) {
		return nil, false, ErrInvalidRegionFile
	}

	payload := r.mm[start:end]
	if len(payload) < 5 {
		return nil, false, ErrInvalidRegionFile
	}
	length := binary.BigEndian.Uint32(payload[0:4])
	scheme := payload[4]
	if int(length) < 1 || 4+int(length) > len(payload) {
		return nil, false, ErrInvalidRegionFile
	}
	compressed := payload[5 : 4+int(length)]

	raw, err := decompress(scheme, compressed)
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func decompress(scheme byte, compressed []byte) ([]byte, error) {
	switch scheme {
	case schemeGzip:
		zr, err := gzip.NewReader(bytes.NewReader(compressed))
		if err != nil {
			return nil, ErrDecompressionFailed
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, ErrDecompressionFailed
		}
		return out, nil
	case schemeZlib:
		zr, err := zlib.NewReader(bytes.NewReader(compressed))
		if err != nil {
			return nil, ErrDecompressionFailed
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, ErrDecompressionFailed
		}
		return out, nil
	case schemeUncompressed:
		out := make([]byte, len(compressed))
		copy(out, compressed)
		return out, nil
	default:
		return nil, ErrDecompressionFailed
	}
}
