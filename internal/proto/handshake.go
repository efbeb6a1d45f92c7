package proto

import (
	"fmt"

	"github.com/oriumgames/corestone/internal/netio"
)

const maxServerAddressChars = 255

func handleHandshake(ctx *Context) netio.Result {
	if _, err := ctx.Body.ReadVarInt(); err != nil { // protocolVersion, unused: this core speaks one protocol
		return protocolError(err)
	}
	if _, err := ctx.Body.ReadString(maxServerAddressChars); err != nil { // serverAddress, unused
		return protocolError(err)
	}
	if _, err := ctx.Body.ReadUShort(); err != nil { // port, unused
		return protocolError(err)
	}
	next, err := ctx.Body.ReadVarInt()
	if err != nil {
		return protocolError(err)
	}

	switch next {
	case 1:
		ctx.Conn.SetPhase(netio.PhaseStatus)
	case 2:
		ctx.Conn.SetPhase(netio.PhaseLogin)
	default:
		return protocolError(fmt.Errorf("proto: handshake next state %d out of range", next))
	}
	return netio.Result{Outcome: netio.Ok}
}

func protocolError(err error) netio.Result {
	return netio.Result{Outcome: netio.ProtocolError, Err: err}
}
