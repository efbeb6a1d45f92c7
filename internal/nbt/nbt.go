package nbt

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

// Kind identifies one of the twelve non-End tag types plus End itself.
type Kind byte

const (
	KindEnd Kind = iota
	KindByte
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindByteArray
	KindString
	KindList
	KindCompound
	KindIntArray
	KindLongArray
)

// ErrInvalidNBT is returned for a root tag that isn't Compound, an unknown
// tag kind, or a negative byte/int/long array length. A negative list
// length reads as an empty list, and truncated input returns the
// underlying io error.
var ErrInvalidNBT = errors.New("nbt: invalid data")

// Tag is the sum type over every NBT value kind. Only the accessor matching
// the tag's Kind() is meaningful. The integer accessors (Byte, Short, Int,
// Long) share one stored value, as do Float and Double, so a mismatched
// accessor within the same group returns that value converted; any other
// accessor returns the zero value.
type Tag struct {
	kind Kind

	i64 int64   // Byte, Short, Int, Long
	f64 float64 // Float, Double
	str string  // String
	bs  []byte  // ByteArray
	is  []int32 // IntArray
	ls  []int64 // LongArray
	list []Tag  // List
	elem Kind    // List element kind
	comp map[string]Tag // Compound
	keys []string       // Compound insertion order
}

func (t Tag) Kind() Kind { return t.kind }

func (t Tag) Byte() int8      { return int8(t.i64) }
func (t Tag) Short() int16    { return int16(t.i64) }
func (t Tag) Int() int32      { return int32(t.i64) }
func (t Tag) Long() int64     { return t.i64 }
func (t Tag) Float() float32  { return float32(t.f64) }
func (t Tag) Double() float64 { return t.f64 }
func (t Tag) String() string  { return t.str }
func (t Tag) ByteArray() []byte  { return t.bs }
func (t Tag) IntArray() []int32  { return t.is }
func (t Tag) LongArray() []int64 { return t.ls }
func (t Tag) List() []Tag        { return t.list }
func (t Tag) ListElemKind() Kind { return t.elem }

// Get looks up a named child of a Compound tag. ok is false if t is not a
// Compound or the name is absent.
func (t Tag) Get(name string) (Tag, bool) {
	if t.kind != KindCompound {
		return Tag{}, false
	}
	v, ok := t.comp[name]
	return v, ok
}

// Keys returns a Compound's child names in the order they were parsed.
func (t Tag) Keys() []string { return t.keys }

// Parse reads a single root tag, which must be Compound: a type byte, a
// big-endian u16-length name (discarded — callers don't need the root's
// name), then the compound's contents until End.
func Parse(r io.Reader) (Tag, error) {
	kind, err := readTagID(r)
	if err != nil {
		return Tag{}, err
	}
	if Kind(kind) != KindCompound {
		return Tag{}, ErrInvalidNBT
	}
	if _, err := readName(r); err != nil {
		return Tag{}, err
	}
	return readCompoundBody(r)
}

func readTagID(r io.Reader) (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func readName(r io.Reader) (string, error) {
	var lenBuf [2]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return "", err
	}
	n := binary.BigEndian.Uint16(lenBuf[:])
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func readValue(r io.Reader, kind Kind) (Tag, error) {
	switch kind {
	case KindEnd:
		return Tag{kind: KindEnd}, nil
	case KindByte:
		var v [1]byte
		if _, err := io.ReadFull(r, v[:]); err != nil {
			return Tag{}, err
		}
		return Tag{kind: kind, i64: int64(int8(v[0]))}, nil
	case KindShort:
		var v [2]byte
		if _, err := io.ReadFull(r, v[:]); err != nil {
			return Tag{}, err
		}
		return Tag{kind: kind, i64: int64(int16(binary.BigEndian.Uint16(v[:])))}, nil
	case KindInt:
		var v [4]byte
		if _, err := io.ReadFull(r, v[:]); err != nil {
			return Tag{}, err
		}
		return Tag{kind: kind, i64: int64(int32(binary.BigEndian.Uint32(v[:])))}, nil
	case KindLong:
		var v [8]byte
		if _, err := io.ReadFull(r, v[:]); err != nil {
			return Tag{}, err
		}
		return Tag{kind: kind, i64: int64(binary.BigEndian.Uint64(v[:]))}, nil
	case KindFloat:
		var v [4]byte
		if _, err := io.ReadFull(r, v[:]); err != nil {
			return Tag{}, err
		}
		bits := binary.BigEndian.Uint32(v[:])
		return Tag{kind: kind, f64: float64(math.Float32frombits(bits))}, nil
	case KindDouble:
		var v [8]byte
		if _, err := io.ReadFull(r, v[:]); err != nil {
			return Tag{}, err
		}
		bits := binary.BigEndian.Uint64(v[:])
		return Tag{kind: kind, f64: math.Float64frombits(bits)}, nil
	case KindByteArray:
		n, err := readInt32(r)
		if err != nil {
			return Tag{}, err
		}
		if n < 0 {
			return Tag{}, ErrInvalidNBT
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return Tag{}, err
		}
		return Tag{kind: kind, bs: buf}, nil
	case KindString:
		s, err := readName(r)
		if err != nil {
			return Tag{}, err
		}
		return Tag{kind: kind, str: s}, nil
	case KindList:
		elemID, err := readTagID(r)
		if err != nil {
			return Tag{}, err
		}
		n, err := readInt32(r)
		if err != nil {
			return Tag{}, err
		}
		if n < 0 {
			n = 0
		}
		list := make([]Tag, 0, n)
		for i := int32(0); i < n; i++ {
			v, err := readValue(r, Kind(elemID))
			if err != nil {
				return Tag{}, err
			}
			list = append(list, v)
		}
		return Tag{kind: kind, elem: Kind(elemID), list: list}, nil
	case KindCompound:
		return readCompoundBody(r)
	case KindIntArray:
		n, err := readInt32(r)
		if err != nil {
			return Tag{}, err
		}
		if n < 0 {
			return Tag{}, ErrInvalidNBT
		}
		out := make([]int32, n)
		for i := range out {
			v, err := readInt32(r)
			if err != nil {
				return Tag{}, err
			}
			out[i] = v
		}
		return Tag{kind: kind, is: out}, nil
	case KindLongArray:
		n, err := readInt32(r)
		if err != nil {
			return Tag{}, err
		}
		if n < 0 {
			return Tag{}, ErrInvalidNBT
		}
		out := make([]int64, n)
		for i := range out {
			var v [8]byte
			if _, err := io.ReadFull(r, v[:]); err != nil {
				return Tag{}, err
			}
			out[i] = int64(binary.BigEndian.Uint64(v[:]))
		}
		return Tag{kind: kind, ls: out}, nil
	default:
		return Tag{}, ErrInvalidNBT
	}
}

func readCompoundBody(r io.Reader) (Tag, error) {
	comp := map[string]Tag{}
	var keys []string
	for {
		id, err := readTagID(r)
		if err != nil {
			return Tag{}, err
		}
		if Kind(id) == KindEnd {
			break
		}
		name, err := readName(r)
		if err != nil {
			return Tag{}, err
		}
		v, err := readValue(r, Kind(id))
		if err != nil {
			return Tag{}, err
		}
		if _, exists := comp[name]; !exists {
			keys = append(keys, name)
		}
		comp[name] = v
	}
	return Tag{kind: KindCompound, comp: comp, keys: keys}, nil
}

func readInt32(r io.Reader) (int32, error) {
	var v [4]byte
	if _, err := io.ReadFull(r, v[:]); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(v[:])), nil
}
