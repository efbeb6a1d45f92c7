package wire

import (
	"encoding/binary"
	"math"

	"github.com/google/uuid"
)

// Buffer is a growable byte sequence with an independent read cursor. Writes
// always append to the end and always succeed; reads advance the cursor and
// fail with one of the sentinel errors in errors.go when they would run past
// the written bytes.
type Buffer struct {
	data []byte
	pos  int
}

// NewBuffer wraps an existing byte slice for reading (e.g. a decoded frame
// body). The returned Buffer's cursor starts at zero.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// NewWriteBuffer returns an empty Buffer ready to be written into, e.g. to
// compose an outbound packet body.
func NewWriteBuffer() *Buffer {
	return &Buffer{data: make([]byte, 0, 64)}
}

// Bytes returns the full underlying slice, ignoring the read cursor.
func (b *Buffer) Bytes() []byte { return b.data }

// Remaining returns the number of unread bytes past the cursor.
func (b *Buffer) Remaining() int { return len(b.data) - b.pos }

// Rest returns every unread byte past the cursor without advancing it.
func (b *Buffer) Rest() []byte { return b.data[b.pos:] }

func (b *Buffer) take(n int) ([]byte, error) {
	if n < 0 || b.Remaining() < n {
		return nil, ErrBufferUnderflow
	}
	out := b.data[b.pos : b.pos+n]
	b.pos += n
	return out, nil
}

// ReadByte implements io.ByteReader so a Buffer can be handed to anything
// that wants single-byte reads (e.g. shared VarInt decoding helpers).
func (b *Buffer) ReadByte() (byte, error) {
	chunk, err := b.take(1)
	if err != nil {
		return 0, err
	}
	return chunk[0], nil
}

// WriteByte appends a single byte.
func (b *Buffer) WriteByte(v byte) error {
	b.data = append(b.data, v)
	return nil
}

// Write appends raw bytes, satisfying io.Writer.
func (b *Buffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

const (
	varIntMaxBytes   = 5
	varLongMaxBytes  = 10
	segmentBits      = 0x7F
	continueBit      = 0x80
	maxStringChars   = 32767 // vanilla protocol cap before the per-call max
	stringCharBudget = 4     // UTF-8 worst case bytes per char when bounding by max
)

// ReadVarInt reads a Minecraft protocol VarInt: 7 payload bits per byte, MSB
// continuation flag, little-endian group order, sign-extended into an int32.
func (b *Buffer) ReadVarInt() (int32, error) {
	var result int32
	var numRead uint
	for {
		by, err := b.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= int32(by&segmentBits) << (7 * numRead)
		numRead++
		if numRead > varIntMaxBytes {
			return 0, ErrVarIntTooBig
		}
		if by&continueBit == 0 {
			break
		}
	}
	return result, nil
}

// ReadVarInt64 is ReadVarInt's 64-bit counterpart, capped at 10 bytes.
func (b *Buffer) ReadVarInt64() (int64, error) {
	var result int64
	var numRead uint
	for {
		by, err := b.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= int64(by&segmentBits) << (7 * numRead)
		numRead++
		if numRead > varLongMaxBytes {
			return 0, ErrVarIntTooBig
		}
		if by&continueBit == 0 {
			break
		}
	}
	return result, nil
}

// WriteVarInt emits the smallest continuation sequence encoding v as
// unsigned.
func (b *Buffer) WriteVarInt(v int32) {
	u := uint32(v)
	for {
		if u&^segmentBits == 0 {
			b.data = append(b.data, byte(u))
			return
		}
		b.data = append(b.data, byte(u&segmentBits)|continueBit)
		u >>= 7
	}
}

// WriteVarInt64 is WriteVarInt's 64-bit counterpart.
func (b *Buffer) WriteVarInt64(v int64) {
	u := uint64(v)
	for {
		if u&^uint64(segmentBits) == 0 {
			b.data = append(b.data, byte(u))
			return
		}
		b.data = append(b.data, byte(u&segmentBits)|continueBit)
		u >>= 7
	}
}

// VarIntLen returns the encoded length of v in bytes, without writing it.
func VarIntLen(v int32) int {
	u := uint32(v)
	n := 1
	for u&^segmentBits != 0 {
		n++
		u >>= 7
	}
	return n
}

// ReadUShort reads a big-endian unsigned 16-bit integer.
func (b *Buffer) ReadUShort() (uint16, error) {
	chunk, err := b.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(chunk), nil
}

// WriteUShort writes a big-endian unsigned 16-bit integer.
func (b *Buffer) WriteUShort(v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	b.data = append(b.data, tmp[:]...)
}

// ReadShort reads a big-endian signed 16-bit integer.
func (b *Buffer) ReadShort() (int16, error) {
	v, err := b.ReadUShort()
	return int16(v), err
}

// WriteShort writes a big-endian signed 16-bit integer.
func (b *Buffer) WriteShort(v int16) { b.WriteUShort(uint16(v)) }

// ReadInt reads a big-endian signed 32-bit integer.
func (b *Buffer) ReadInt() (int32, error) {
	chunk, err := b.take(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(chunk)), nil
}

// WriteInt writes a big-endian signed 32-bit integer.
func (b *Buffer) WriteInt(v int32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(v))
	b.data = append(b.data, tmp[:]...)
}

// ReadInt64 reads a big-endian signed 64-bit integer.
func (b *Buffer) ReadInt64() (int64, error) {
	chunk, err := b.take(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(chunk)), nil
}

// WriteInt64 writes a big-endian signed 64-bit integer.
func (b *Buffer) WriteInt64(v int64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], uint64(v))
	b.data = append(b.data, tmp[:]...)
}

// ReadInt64LE reads a little-endian signed 64-bit integer. Used for the
// paletted-container wire format, which packs its bit-packed words
// little-endian while every other field in the protocol is big-endian.
func (b *Buffer) ReadInt64LE() (int64, error) {
	chunk, err := b.take(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(chunk)), nil
}

// WriteInt64LE writes a little-endian signed 64-bit integer.
func (b *Buffer) WriteInt64LE(v int64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], uint64(v))
	b.data = append(b.data, tmp[:]...)
}

// ReadFloat reads a big-endian IEEE-754 single-precision float.
func (b *Buffer) ReadFloat() (float32, error) {
	v, err := b.ReadInt()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(v)), nil
}

// WriteFloat writes a big-endian IEEE-754 single-precision float.
func (b *Buffer) WriteFloat(v float32) {
	b.WriteInt(int32(math.Float32bits(v)))
}

// ReadDouble reads a big-endian IEEE-754 double-precision float.
func (b *Buffer) ReadDouble() (float64, error) {
	v, err := b.ReadInt64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(uint64(v)), nil
}

// WriteDouble writes a big-endian IEEE-754 double-precision float.
func (b *Buffer) WriteDouble(v float64) {
	b.WriteInt64(int64(math.Float64bits(v)))
}

// ReadBool reads a single boolean byte.
func (b *Buffer) ReadBool() (bool, error) {
	by, err := b.ReadByte()
	if err != nil {
		return false, err
	}
	return by != 0, nil
}

// WriteBool writes a single boolean byte.
func (b *Buffer) WriteBool(v bool) {
	if v {
		b.data = append(b.data, 1)
		return
	}
	b.data = append(b.data, 0)
}

// ReadString reads a VarInt-length-prefixed UTF-8 string, rejecting any
// length whose byte count exceeds 4*max (the worst-case UTF-8 expansion of
// max characters), rejecting oversized strings early.
func (b *Buffer) ReadString(max int) (string, error) {
	n, err := b.ReadVarInt()
	if err != nil {
		return "", err
	}
	if n < 0 || int(n) > max*stringCharBudget {
		return "", ErrStringTooLong
	}
	chunk, err := b.take(int(n))
	if err != nil {
		return "", err
	}
	return string(chunk), nil
}

// WriteString writes a VarInt-length-prefixed UTF-8 string.
func (b *Buffer) WriteString(s string) {
	raw := []byte(s)
	b.WriteVarInt(int32(len(raw)))
	b.data = append(b.data, raw...)
}

// ReadUUID reads two big-endian uint64s, most-significant first.
func (b *Buffer) ReadUUID() (uuid.UUID, error) {
	hi, err := b.take(8)
	if err != nil {
		return uuid.UUID{}, err
	}
	lo, err := b.take(8)
	if err != nil {
		return uuid.UUID{}, err
	}
	var out uuid.UUID
	copy(out[0:8], hi)
	copy(out[8:16], lo)
	return out, nil
}

// WriteUUID writes a UUID as two big-endian uint64s, most-significant first.
func (b *Buffer) WriteUUID(u uuid.UUID) {
	b.data = append(b.data, u[:]...)
}

// bit widths for the packed position encoding.
const (
	posXZBits  = 26
	posYBits   = 12
	posXZMask  = (1 << posXZBits) - 1
	posYMask   = (1 << posYBits) - 1
	posXShift  = 38
	posZShift  = 12
	signExtend = 1 << (posXZBits - 1)
)

// WritePosition packs signed x (26 bits) | z (26 bits) | y (12 bits) into one
// big-endian int64.
func (b *Buffer) WritePosition(x, y, z int32) {
	packed := (int64(x)&posXZMask)<<posXShift | (int64(z)&posXZMask)<<posZShift | (int64(y) & posYMask)
	b.WriteInt64(packed)
}

// ReadPosition unpacks the encoding written by WritePosition.
func (b *Buffer) ReadPosition() (x, y, z int32, err error) {
	packed, err := b.ReadInt64()
	if err != nil {
		return 0, 0, 0, err
	}
	x = signExtend26(int32((packed >> posXShift) & posXZMask))
	z = signExtend26(int32((packed >> posZShift) & posXZMask))
	y = signExtend12(int32(packed & posYMask))
	return x, y, z, nil
}

func signExtend26(v int32) int32 {
	if v >= signExtend {
		v -= 1 << posXZBits
	}
	return v
}

func signExtend12(v int32) int32 {
	if v >= 1<<(posYBits-1) {
		v -= 1 << posYBits
	}
	return v
}
