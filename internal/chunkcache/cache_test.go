package chunkcache

import (
	"sync"
	"testing"

	"github.com/oriumgames/corestone/internal/chunk"
)

type countingSource struct {
	mu    sync.Mutex
	calls map[Coord]int
	fail  map[Coord]bool
}

func newCountingSource() *countingSource {
	return &countingSource{calls: make(map[Coord]int), fail: make(map[Coord]bool)}
}

func (s *countingSource) FetchChunk(cx, cz int32) (*chunk.ChunkData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	co := Coord{X: cx, Z: cz}
	s.calls[co]++
	if s.fail[co] {
		return nil, errFailed
	}
	return chunk.NewEmptyChunkData(cx, cz, 384, -64, 0, 4), nil
}

// regionOpeningSource is a BatchSource stub that counts how many times a
// distinct region (chunkX>>5, chunkZ>>5) is "opened" across a batch, so
// tests can assert FetchBatch genuinely groups by region instead of
// discarding the grouping and fetching one coordinate at a time.
type regionOpeningSource struct {
	mu    sync.Mutex
	opens map[[2]int32]int
}

func newRegionOpeningSource() *regionOpeningSource {
	return &regionOpeningSource{opens: make(map[[2]int32]int)}
}

func (s *regionOpeningSource) FetchChunk(cx, cz int32) (*chunk.ChunkData, error) {
	out, err := s.FetchChunkBatch([][2]int32{{cx, cz}})
	if err != nil {
		return nil, err
	}
	return out[[2]int32{cx, cz}], nil
}

func (s *regionOpeningSource) FetchChunkBatch(coords [][2]int32) (map[[2]int32]*chunk.ChunkData, error) {
	byRegion := make(map[[2]int32][][2]int32)
	for _, co := range coords {
		rk := [2]int32{co[0] >> 5, co[1] >> 5}
		byRegion[rk] = append(byRegion[rk], co)
	}

	out := make(map[[2]int32]*chunk.ChunkData, len(coords))
	s.mu.Lock()
	for rk, group := range byRegion {
		s.opens[rk]++
		for _, co := range group {
			out[co] = chunk.NewEmptyChunkData(co[0], co[1], 384, -64, 0, 4)
		}
	}
	s.mu.Unlock()
	return out, nil
}

var errFailed = &fetchError{"decode failed"}

type fetchError struct{ msg string }

func (e *fetchError) Error() string { return e.msg }

func TestFetchCachesResult(t *testing.T) {
	src := newCountingSource()
	c, err := New(src, 16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := c.Fetch(0, 0); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if _, err := c.Fetch(0, 0); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	src.mu.Lock()
	calls := src.calls[Coord{0, 0}]
	src.mu.Unlock()
	if calls != 1 {
		t.Fatalf("expected source to be called once, got %d", calls)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("expected 1 hit and 1 miss, got %+v", stats)
	}
}

func TestFailedDecodeIsNotCached(t *testing.T) {
	src := newCountingSource()
	src.fail[Coord{1, 1}] = true
	c, err := New(src, 16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := c.Fetch(1, 1); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := c.Fetch(1, 1); err == nil {
		t.Fatalf("expected error on second attempt too")
	}

	src.mu.Lock()
	calls := src.calls[Coord{1, 1}]
	src.mu.Unlock()
	if calls != 2 {
		t.Fatalf("expected source to be retried after failed decode, got %d calls", calls)
	}
}

func TestFetchBatchGroupsByRegion(t *testing.T) {
	src := newRegionOpeningSource()
	c, err := New(src, 64)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// (0,0), (1,0), (31,31) all fall in region (0,0); (32,0) falls in
	// region (1,0) — two distinct regions across four coordinates.
	coords := []Coord{{0, 0}, {1, 0}, {31, 31}, {32, 0}}
	out, err := c.FetchBatch(coords)
	if err != nil {
		t.Fatalf("FetchBatch: %v", err)
	}
	if len(out) != len(coords) {
		t.Fatalf("expected %d results, got %d", len(coords), len(out))
	}

	src.mu.Lock()
	defer src.mu.Unlock()
	if got := src.opens[[2]int32{0, 0}]; got != 1 {
		t.Fatalf("region (0,0) opened %d times, want 1", got)
	}
	if got := src.opens[[2]int32{1, 0}]; got != 1 {
		t.Fatalf("region (1,0) opened %d times, want 1", got)
	}
	if len(src.opens) != 2 {
		t.Fatalf("expected exactly 2 distinct regions opened, got %d", len(src.opens))
	}
}

func TestEvictAndClear(t *testing.T) {
	src := newCountingSource()
	c, err := New(src, 16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Fetch(5, 5); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	c.Evict(5, 5)
	if _, err := c.Fetch(5, 5); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	src.mu.Lock()
	calls := src.calls[Coord{5, 5}]
	src.mu.Unlock()
	if calls != 2 {
		t.Fatalf("expected re-fetch after evict, got %d calls", calls)
	}

	c.Clear()
	if _, err := c.Fetch(5, 5); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	src.mu.Lock()
	calls = src.calls[Coord{5, 5}]
	src.mu.Unlock()
	if calls != 3 {
		t.Fatalf("expected re-fetch after clear, got %d calls", calls)
	}
}
