package proto

import (
	"github.com/oriumgames/corestone/internal/netio"
	"github.com/oriumgames/corestone/internal/player"
	"github.com/oriumgames/corestone/internal/wire"
)

func handleLoginStart(ctx *Context) netio.Result {
	name, err := ctx.Body.ReadString(player.MaxDisplayNameBytes)
	if err != nil {
		return protocolError(err)
	}
	if err := player.ValidateDisplayName(name); err != nil {
		return protocolError(err)
	}

	entityID := ctx.Server.IDs().Allocate()
	p := player.New(name, entityID)
	ctx.Conn.Player = p
	ctx.Server.RegisterTemporary(ctx.Conn)

	out := wire.NewWriteBuffer()
	out.WriteUUID(p.UUID)
	out.WriteString(p.Name)
	out.WriteVarInt(0) // propertiesCount
	if !ctx.Send(CBLoginSuccess, out.Bytes()) {
		return netio.Result{Outcome: netio.ProtocolError, Err: errQueueBounded}
	}
	return netio.Result{Outcome: netio.Ok}
}

func handleLoginAcknowledged(ctx *Context) netio.Result {
	ctx.Conn.SetPhase(netio.PhaseConfiguration)
	return sendRegistryData(ctx)
}

// sendRegistryData streams one Registry Data packet per registry id, in
// the set's deterministic order, then Finish Configuration.
func sendRegistryData(ctx *Context) netio.Result {
	registries := ctx.Server.Registries()
	for _, id := range registries.IDs() {
		reg, ok := registries.Get(id)
		if !ok {
			continue
		}
		out := wire.NewWriteBuffer()
		out.WriteString(id)
		out.WriteVarInt(int32(len(reg.Entries)))
		for _, entry := range reg.Entries {
			out.WriteString(entry.ID)
			out.WriteBool(entry.Data != nil)
			if entry.Data != nil {
				out.Write(entry.Data)
			}
		}
		if !ctx.Send(CBRegistryData, out.Bytes()) {
			return netio.Result{Outcome: netio.ProtocolError, Err: errQueueBounded}
		}
	}

	if !ctx.Send(CBFinishConfiguration, nil) {
		return netio.Result{Outcome: netio.ProtocolError, Err: errQueueBounded}
	}
	return netio.Result{Outcome: netio.Ok}
}
