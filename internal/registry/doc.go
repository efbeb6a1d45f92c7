// Package registry loads the immutable, process-lifetime registry tables
// (block states, biomes, dimension types, and whatever else the
// Configuration phase advertises) that the region decoder and the
// Configuration-phase handlers consult. Grounded on
// a compiled-in fallback table approach, so
// a small compiled-in table when no external data directory is present.
package registry
