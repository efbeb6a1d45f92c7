package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Entry is one named member of a registry, with its assigned protocol id
// and optional attached NBT (currently unused by any seed registry but
// kept so a richer external data source can populate it without an API
// change).
type Entry struct {
	ID         string
	ProtocolID int32
	Data       []byte // raw NBT compound bytes, nil if the entry carries none
}

// Registry is one ordered, immutable id -> entries mapping, e.g.
// "minecraft:dimension_type".
type Registry struct {
	ID      string
	Entries []Entry

	byName map[string]int32
}

func newRegistry(id string, entries []Entry) *Registry {
	byName := make(map[string]int32, len(entries))
	for i, e := range entries {
		byName[e.ID] = int32(i)
	}
	return &Registry{ID: id, Entries: entries, byName: byName}
}

// Resolve returns the protocol id of a named entry.
func (r *Registry) Resolve(name string) (int32, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// Set bundles every loaded registry, keyed by registry id.
type Set struct {
	registries map[string]*Registry
}

// IDs returns the registry ids in a stable, deterministic order (used to
// drive the Configuration phase's per-registry Registry Data packet
// sequence).
func (s *Set) IDs() []string {
	ids := maps.Keys(s.registries)
	slices.Sort(ids)
	return ids
}

// Get returns one registry by id.
func (s *Set) Get(id string) (*Registry, bool) {
	r, ok := s.registries[id]
	return r, ok
}

// ResolveBlockState implements region.BlockResolver by looking the block
// name up in the "minecraft:block" registry. Block-state properties are
// not distinguished by this core — the property map is accepted to
// satisfy the interface but the numeric id is keyed on name alone, since
// per-property state ids are part of the registry's *contents*, which
// an external data source this core does not own.
func (s *Set) ResolveBlockState(name string, _ map[string]string) (int32, bool) {
	r, ok := s.registries["minecraft:block"]
	if !ok {
		return 0, false
	}
	return r.Resolve(name)
}

// ResolveBiome implements region.BiomeResolver.
func (s *Set) ResolveBiome(name string) (int32, bool) {
	r, ok := s.registries["minecraft:worldgen/biome"]
	if !ok {
		return 0, false
	}
	return r.Resolve(name)
}

type fileEntry struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Load reads every "<name>.json" file directly inside dir as registry
// "minecraft:<name>" (an array of {id, data} objects mirroring vanilla's
// generated/reports/registries.json shape), layered over the seed set.
// Subdirectories are not read, and no character of the file name is
// mapped back to a slash.
// If dir does not exist, Load returns the compiled-in seed set instead of
// failing, so the Configuration phase stays observable without a full
// vanilla data dump.
func Load(dir string) (*Set, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return seedSet(), nil
	} else if err != nil {
		return nil, err
	}

	seed := seedSet()
	registries := make(map[string]*Registry, len(seed.registries))
	for id, r := range seed.registries {
		registries[id] = r
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	for _, path := range matches {
		id := registryIDFromFilename(filepath.Base(path))
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("registry: reading %s: %w", path, err)
		}
		var files []fileEntry
		if err := json.Unmarshal(raw, &files); err != nil {
			return nil, fmt.Errorf("registry: parsing %s: %w", path, err)
		}
		entries := make([]Entry, len(files))
		for i, fe := range files {
			entries[i] = Entry{ID: fe.ID, ProtocolID: int32(i), Data: []byte(fe.Data)}
		}
		registries[id] = newRegistry(id, entries)
	}

	return &Set{registries: registries}, nil
}

func registryIDFromFilename(name string) string {
	base := name[:len(name)-len(filepath.Ext(name))]
	return "minecraft:" + filepath.ToSlash(base)
}

// seedSet is the compiled-in fallback: one dimension type, one biome, and
// a block registry holding air and stone,
// just enough to make the Configuration and chunk-streaming phases
// observable without an external data directory.
func seedSet() *Set {
	return &Set{registries: map[string]*Registry{
		"minecraft:dimension_type": newRegistry("minecraft:dimension_type", []Entry{
			{ID: "minecraft:overworld", ProtocolID: 0},
		}),
		"minecraft:worldgen/biome": newRegistry("minecraft:worldgen/biome", []Entry{
			{ID: "minecraft:plains", ProtocolID: 0},
		}),
		"minecraft:block": newRegistry("minecraft:block", []Entry{
			{ID: "minecraft:air", ProtocolID: 0},
			{ID: "minecraft:stone", ProtocolID: 1},
		}),
	}}
}
