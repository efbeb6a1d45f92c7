package proto

import (
	"github.com/oriumgames/corestone/internal/netio"
	"github.com/oriumgames/corestone/internal/player"
	"github.com/oriumgames/corestone/internal/wire"
)

// Gamemode this core assigns every player: there is no progression or
// inventory system behind the Play-phase handlers, so every player
// joins creative, matching the "creative" branch of end-to-end scenario
// 5's Player Abilities flags.
const gamemodeCreative = 1

const (
	difficultyNormal    = 2
	defaultSeaLevel     = 64
	defaultSpawnY       = 64
	abilitiesFlagsFull  = 0x0D // invulnerable | fly-allowed | creative
)

func handleConfirmTeleport(ctx *Context) netio.Result {
	if _, err := ctx.Body.ReadVarInt(); err != nil {
		return protocolError(err)
	}
	return netio.Result{Outcome: netio.Ok}
}

// sendPlaySequence emits the fixed packet sequence a freshly promoted
// player receives, in the order end-to-end scenario 5 requires.
func sendPlaySequence(ctx *Context) netio.Result {
	if ctx.Conn.Player == nil {
		return protocolError(errMissingPlayer)
	}

	if !sendJoinGame(ctx) {
		return queueBoundedResult()
	}
	if !sendChangeDifficulty(ctx) {
		return queueBoundedResult()
	}
	if !sendPlayerAbilities(ctx) {
		return queueBoundedResult()
	}
	if !sendSetHeldItem(ctx) {
		return queueBoundedResult()
	}
	if !sendSynchronizePlayerPosition(ctx) {
		return queueBoundedResult()
	}
	if !sendSetCenterChunk(ctx, 0, 0) {
		return queueBoundedResult()
	}
	if result, ok := sendChunkBatch(ctx); !ok {
		return result
	}
	if !sendSetDefaultSpawnPosition(ctx) {
		return queueBoundedResult()
	}
	if !sendSetHealth(ctx) {
		return queueBoundedResult()
	}
	if !sendSetExperience(ctx) {
		return queueBoundedResult()
	}
	if !sendUpdateTime(ctx) {
		return queueBoundedResult()
	}
	if !sendGameEvent(ctx, GameEventStartWaitingForChunks, 0) {
		return queueBoundedResult()
	}
	return netio.Result{Outcome: netio.Ok}
}

func queueBoundedResult() netio.Result {
	return netio.Result{Outcome: netio.ProtocolError, Err: errQueueBounded}
}

func sendJoinGame(ctx *Context) bool {
	cfg := ctx.Server.Config()
	dimTypeID := int32(0)
	if reg, ok := ctx.Server.Registries().Get("minecraft:dimension_type"); ok {
		if id, ok := reg.Resolve("minecraft:overworld"); ok {
			dimTypeID = id
		}
	}

	out := wire.NewWriteBuffer()
	out.WriteInt(int32(ctx.Conn.Player.EntityID))
	out.WriteBool(false) // isHardcore
	out.WriteVarInt(1)   // dimCount
	out.WriteString("minecraft:overworld")
	out.WriteVarInt(cfg.MaxPlayers)
	out.WriteVarInt(int32(viewDistanceFor(ctx)))
	out.WriteVarInt(int32(viewDistanceFor(ctx)))
	out.WriteBool(false) // reducedDebug
	out.WriteBool(true)  // respawnScreen
	out.WriteBool(false) // limitedCrafting
	out.WriteVarInt(dimTypeID)
	out.WriteString("minecraft:overworld")
	out.WriteInt64(0) // hashedSeed
	out.WriteByte(gamemodeCreative)
	out.WriteByte(0xFF) // prevGamemode: none
	out.WriteBool(false) // isDebug
	out.WriteBool(true)  // isFlat
	out.WriteBool(false) // hasDeathLocation
	out.WriteVarInt(0)   // portalCooldown
	out.WriteVarInt(defaultSeaLevel)
	out.WriteBool(false) // enforcesSecureChat
	return ctx.Send(CBJoinGame, out.Bytes())
}

func sendChangeDifficulty(ctx *Context) bool {
	out := wire.NewWriteBuffer()
	out.WriteByte(difficultyNormal)
	out.WriteBool(true) // locked
	return ctx.Send(CBChangeDifficulty, out.Bytes())
}

func sendPlayerAbilities(ctx *Context) bool {
	out := wire.NewWriteBuffer()
	out.WriteByte(abilitiesFlagsFull)
	out.WriteFloat(0.05)
	out.WriteFloat(0.1)
	return ctx.Send(CBPlayerAbilities, out.Bytes())
}

func sendSetHeldItem(ctx *Context) bool {
	out := wire.NewWriteBuffer()
	out.WriteVarInt(0)
	return ctx.Send(CBSetHeldItem, out.Bytes())
}

func sendSynchronizePlayerPosition(ctx *Context) bool {
	p := ctx.Conn.Player
	out := wire.NewWriteBuffer()
	out.WriteDouble(p.X)
	out.WriteDouble(p.Y)
	out.WriteDouble(p.Z)
	out.WriteFloat(p.Yaw)
	out.WriteFloat(p.Pitch)
	out.WriteByte(0) // flags: absolute
	out.WriteVarInt(0) // teleportId
	return ctx.Send(CBSynchronizePlayerPosition, out.Bytes())
}

func sendSetCenterChunk(ctx *Context, cx, cz int32) bool {
	out := wire.NewWriteBuffer()
	out.WriteVarInt(cx)
	out.WriteVarInt(cz)
	return ctx.Send(CBSetCenterChunk, out.Bytes())
}

func sendSetDefaultSpawnPosition(ctx *Context) bool {
	out := wire.NewWriteBuffer()
	out.WritePosition(0, defaultSpawnY, 0)
	out.WriteFloat(0)
	return ctx.Send(CBSetDefaultSpawnPosition, out.Bytes())
}

func sendSetHealth(ctx *Context) bool {
	out := wire.NewWriteBuffer()
	out.WriteFloat(20)
	out.WriteVarInt(20)
	out.WriteFloat(5)
	return ctx.Send(CBSetHealth, out.Bytes())
}

func sendSetExperience(ctx *Context) bool {
	out := wire.NewWriteBuffer()
	out.WriteFloat(0)
	out.WriteVarInt(0)
	out.WriteVarInt(0)
	return ctx.Send(CBSetExperience, out.Bytes())
}

func sendUpdateTime(ctx *Context) bool {
	out := wire.NewWriteBuffer()
	out.WriteInt64(0)
	out.WriteInt64(0)
	return ctx.Send(CBUpdateTime, out.Bytes())
}

func sendGameEvent(ctx *Context, event byte, value float32) bool {
	out := wire.NewWriteBuffer()
	out.WriteByte(event)
	out.WriteFloat(value)
	return ctx.Send(CBGameEvent, out.Bytes())
}

func viewDistanceFor(ctx *Context) uint8 {
	if ctx.Conn.Player.Config != nil {
		return ctx.Conn.Player.Config.ViewDistance
	}
	return player.ClampViewDistance(ctx.Server.Config().ViewDistance)
}

// sendChunkBatch streams the (2*viewDistance+1)^2 columns centered on
// (0,0), bracketed by Chunk Batch Start/Finished. Returns ok=false with
// the result to return from the caller if any send fails.
func sendChunkBatch(ctx *Context) (netio.Result, bool) {
	vd := int32(viewDistanceFor(ctx))
	world := ctx.Server.World()

	if !ctx.Send(CBChunkBatchStart, nil) {
		return queueBoundedResult(), false
	}

	count := int32(0)
	for dx := -vd; dx <= vd; dx++ {
		for dz := -vd; dz <= vd; dz++ {
			cd, err := world.FetchChunk(dx, dz)
			if err != nil {
				return protocolError(err), false
			}
			if !ctx.Send(CBLevelChunkWithLight, buildLevelChunkWithLight(cd)) {
				return queueBoundedResult(), false
			}
			count++
		}
	}

	finished := wire.NewWriteBuffer()
	finished.WriteVarInt(count)
	if !ctx.Send(CBChunkBatchFinished, finished.Bytes()) {
		return queueBoundedResult(), false
	}
	return netio.Result{}, true
}
