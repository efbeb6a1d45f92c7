// Package nbt implements a reader for the game's binary Named Binary Tag
// format: a sum-type tag tree rooted at a single Compound.
//
// Grounded on nictuku-chunkymonkey/src/chunkymonkey/nbt/nbt.go's ITag
// sum-type shape (NewTagByType dispatch, per-kind Read, Compound as a name
// map), modernized off the pre-generics `os.Error` era and extended with
// the IntArray/LongArray kinds later protocol versions added. Edge cases
// (negative list/array lengths, list length <= 0) are handled
// defensively rather than trusted from the wire.
package nbt
