package wire

import (
	"testing"

	"github.com/google/uuid"
)

func TestVarIntRoundTrip(t *testing.T) {
	cases := []int32{0, 1, -1, 127, 128, 255, 2097151, 1 << 30, -1 << 30}
	for _, v := range cases {
		buf := NewWriteBuffer()
		buf.WriteVarInt(v)
		if got, want := len(buf.Bytes()), VarIntLen(v); got != want {
			t.Errorf("VarIntLen(%d) = %d, WriteVarInt produced %d bytes", v, want, got)
		}
		r := NewBuffer(buf.Bytes())
		got, err := r.ReadVarInt()
		if err != nil {
			t.Fatalf("ReadVarInt(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("round trip: got %d, want %d", got, v)
		}
		if n := len(buf.Bytes()); n < 1 || n > 5 {
			t.Errorf("encoded length %d out of [1,5] for %d", n, v)
		}
	}
}

func TestVarIntTooBig(t *testing.T) {
	// Six continuation bytes (MSB set) never terminate within the 5-byte cap.
	data := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	r := NewBuffer(data)
	if _, err := r.ReadVarInt(); err != ErrVarIntTooBig {
		t.Fatalf("expected ErrVarIntTooBig, got %v", err)
	}
}

func TestVarInt64RoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 1 << 40, -(1 << 40), 1<<63 - 1, -(1 << 62)}
	for _, v := range cases {
		buf := NewWriteBuffer()
		buf.WriteVarInt64(v)
		if n := len(buf.Bytes()); n < 1 || n > 10 {
			t.Errorf("encoded length %d out of [1,10] for %d", n, v)
		}
		r := NewBuffer(buf.Bytes())
		got, err := r.ReadVarInt64()
		if err != nil {
			t.Fatalf("ReadVarInt64(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("round trip: got %d, want %d", got, v)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	buf := NewWriteBuffer()
	buf.WriteString("localhost")
	r := NewBuffer(buf.Bytes())
	got, err := r.ReadString(255)
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if got != "localhost" {
		t.Errorf("got %q, want %q", got, "localhost")
	}
}

func TestStringTooLong(t *testing.T) {
	buf := NewWriteBuffer()
	buf.WriteVarInt(100) // claims 100 bytes follow
	r := NewBuffer(buf.Bytes())
	if _, err := r.ReadString(10); err != ErrStringTooLong {
		t.Fatalf("expected ErrStringTooLong, got %v", err)
	}
}

func TestBufferUnderflow(t *testing.T) {
	r := NewBuffer([]byte{0x01})
	if _, err := r.ReadInt(); err != ErrBufferUnderflow {
		t.Fatalf("expected ErrBufferUnderflow, got %v", err)
	}
}

func TestUUIDRoundTrip(t *testing.T) {
	want := uuid.New()
	buf := NewWriteBuffer()
	buf.WriteUUID(want)
	r := NewBuffer(buf.Bytes())
	got, err := r.ReadUUID()
	if err != nil {
		t.Fatalf("ReadUUID: %v", err)
	}
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestPositionRoundTrip(t *testing.T) {
	cases := []struct{ x, y, z int32 }{
		{0, 0, 0},
		{-1, -1, -1},
		{18615, 64, 4063},
		{-33554432, -2048, 33554431},
	}
	for _, c := range cases {
		buf := NewWriteBuffer()
		buf.WritePosition(c.x, c.y, c.z)
		r := NewBuffer(buf.Bytes())
		x, y, z, err := r.ReadPosition()
		if err != nil {
			t.Fatalf("ReadPosition: %v", err)
		}
		if x != c.x || y != c.y || z != c.z {
			t.Errorf("got (%d,%d,%d), want (%d,%d,%d)", x, y, z, c.x, c.y, c.z)
		}
	}
}

func TestFloatDoubleRoundTrip(t *testing.T) {
	buf := NewWriteBuffer()
	buf.WriteFloat(3.5)
	buf.WriteDouble(-12.25)
	r := NewBuffer(buf.Bytes())
	f, err := r.ReadFloat()
	if err != nil || f != 3.5 {
		t.Fatalf("ReadFloat: %v %v", f, err)
	}
	d, err := r.ReadDouble()
	if err != nil || d != -12.25 {
		t.Fatalf("ReadDouble: %v %v", d, err)
	}
}

func TestFrame(t *testing.T) {
	payload := []byte{0xAA, 0xBB}
	f := Frame(0x02, payload)
	r := NewBuffer(f)
	length, err := r.ReadVarInt()
	if err != nil {
		t.Fatalf("ReadVarInt length: %v", err)
	}
	if int(length) != r.Remaining() {
		t.Fatalf("length %d does not match remaining %d", length, r.Remaining())
	}
	id, err := r.ReadVarInt()
	if err != nil || id != 0x02 {
		t.Fatalf("id: %d %v", id, err)
	}
}
