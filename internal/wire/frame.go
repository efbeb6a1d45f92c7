package wire

// Frame assembles a complete outbound frame: VarInt length, VarInt packet
// id, then the payload. The returned slice is ready to write to a socket
// verbatim.
func Frame(id int32, payload []byte) []byte {
	idBuf := NewWriteBuffer()
	idBuf.WriteVarInt(id)
	body := append(idBuf.Bytes(), payload...)

	out := NewWriteBuffer()
	out.WriteVarInt(int32(len(body)))
	out.Write(body)
	return out.Bytes()
}
