package region

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oriumgames/corestone/internal/chunk"
	"github.com/oriumgames/corestone/internal/nbt"
)

// Store glues File open/lookup and Decoder together into a single
// fetchChunk(cx, cz) operation. A missing region file, a zero location
// entry, or a corrupt/undecodable chunk payload all resolve to a
// synthesized empty chunk, never an error — a bad .mca file must never
// take a player's connection down with it.
type Store struct {
	WorldPath     string
	Decoder       *Decoder
	AirBlockID    int32
	PlainsBiomeID int32
	Log           *logrus.Entry
}

// NewStore returns a Store rooted at worldPath. log may be nil, in which
// case recovered-error notices go to the standard logger.
func NewStore(worldPath string, decoder *Decoder, airBlockID, plainsBiomeID int32, log *logrus.Entry) *Store {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Store{WorldPath: worldPath, Decoder: decoder, AirBlockID: airBlockID, PlainsBiomeID: plainsBiomeID, Log: log}
}

// isRecoverable reports whether err is one of the region/NBT/chunk decode
// failures that spec §7 requires be recovered locally into an empty chunk
// rather than propagated as a hard error.
func isRecoverable(err error) bool {
	return errors.Is(err, ErrRegionMissing) ||
		errors.Is(err, ErrDecompressionFailed) ||
		errors.Is(err, ErrInvalidRegionFile) ||
		errors.Is(err, nbt.ErrInvalidNBT) ||
		errors.Is(err, chunk.ErrInvalidSection)
}

func (s *Store) logRecovered(err error, chunkX, chunkZ int32) {
	s.Log.WithFields(logrus.Fields{"chunkX": chunkX, "chunkZ": chunkZ, "err": err}).
		Info("region: recovered decode failure, substituting empty chunk")
}

// FetchChunk performs the full open -> lookup -> decompress -> decode
// pipeline for one chunk.
func (s *Store) FetchChunk(chunkX, chunkZ int32) (*chunk.ChunkData, error) {
	f, err := Open(s.WorldPath, chunkX, chunkZ)
	if err != nil {
		if isRecoverable(err) {
			s.logRecovered(err, chunkX, chunkZ)
			return s.emptyChunk(chunkX, chunkZ), nil
		}
		return nil, err
	}
	defer f.Close()

	return s.decodeOne(f, chunkX, chunkZ)
}

// decodeOne reads and decodes one chunk out of an already-open region
// File, recovering any decode failure into an empty chunk per
// isRecoverable.
func (s *Store) decodeOne(f *File, chunkX, chunkZ int32) (*chunk.ChunkData, error) {
	raw, ok, err := f.ReadChunkNBT(chunkX, chunkZ)
	if err != nil {
		if isRecoverable(err) {
			s.logRecovered(err, chunkX, chunkZ)
			return s.emptyChunk(chunkX, chunkZ), nil
		}
		return nil, err
	}
	if !ok {
		return s.emptyChunk(chunkX, chunkZ), nil
	}

	cd, err := s.Decoder.Decode(chunkX, chunkZ, raw)
	if err != nil {
		if isRecoverable(err) {
			s.logRecovered(err, chunkX, chunkZ)
			return s.emptyChunk(chunkX, chunkZ), nil
		}
		return nil, err
	}
	return cd, nil
}

// regionCoord identifies a region file by its (rx, rz) coordinate.
type regionCoord struct {
	X, Z int32
}

func regionKeyOf(chunkX, chunkZ int32) regionCoord {
	return regionCoord{X: chunkX >> 5, Z: chunkZ >> 5}
}

// FetchChunkBatch fetches many chunk coordinates, opening each backing
// region file at most once across the whole batch: coordinates are
// grouped by region, each region's File is opened once, every member
// coordinate is decoded against that one open File, and the File is
// closed before the next region is opened.
func (s *Store) FetchChunkBatch(coords [][2]int32) (map[[2]int32]*chunk.ChunkData, error) {
	byRegion := make(map[regionCoord][][2]int32)
	for _, co := range coords {
		rk := regionKeyOf(co[0], co[1])
		byRegion[rk] = append(byRegion[rk], co)
	}

	out := make(map[[2]int32]*chunk.ChunkData, len(coords))
	for _, group := range byRegion {
		cx0, cz0 := group[0][0], group[0][1]
		f, err := Open(s.WorldPath, cx0, cz0)
		if err != nil {
			if isRecoverable(err) {
				s.logRecovered(err, cx0, cz0)
				for _, co := range group {
					out[co] = s.emptyChunk(co[0], co[1])
				}
				continue
			}
			return nil, err
		}

		for _, co := range group {
			cd, err := s.decodeOne(f, co[0], co[1])
			if err != nil {
				f.Close()
				return nil, err
			}
			out[co] = cd
		}
		f.Close()
	}
	return out, nil
}

func (s *Store) emptyChunk(chunkX, chunkZ int32) *chunk.ChunkData {
	return chunk.NewEmptyChunkData(chunkX, chunkZ, s.Decoder.WorldHeight, s.Decoder.MinY, s.AirBlockID, s.PlainsBiomeID)
}
