package wire

import "io"

// ReadVarIntStream reads a VarInt directly off any io.ByteReader, for the
// framing step where bytes haven't been accumulated into a Buffer yet
// (e.g. a bufio.Reader wrapped around a live socket).
func ReadVarIntStream(r io.ByteReader) (int32, error) {
	var result int32
	var numRead uint
	for {
		by, err := r.ReadByte()
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
