package registry

import "testing"

func TestLoadMissingDirFallsBackToSeed(t *testing.T) {
	set, err := Load("/nonexistent/path/for/registry/test")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := set.Get("minecraft:dimension_type"); !ok {
		t.Fatalf("expected seed dimension_type registry")
	}
	if id, ok := set.ResolveBiome("minecraft:plains"); !ok || id != 0 {
		t.Fatalf("expected plains biome id 0, got %d ok=%v", id, ok)
	}
}

func TestIDsAreSorted(t *testing.T) {
	set := seedSet()
	ids := set.IDs()
	for i := 1; i < len(ids); i++ {
		if ids[i-1] > ids[i] {
			t.Fatalf("IDs() not sorted: %v", ids)
		}
	}
}

func TestResolveUnknownBlock(t *testing.T) {
	set := seedSet()
	if _, ok := set.ResolveBlockState("minecraft:bogus_block", nil); ok {
		t.Fatalf("expected unknown block to fail resolution")
	}
}
