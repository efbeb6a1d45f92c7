package proto

import (
	"github.com/oriumgames/corestone/internal/netio"
	"github.com/oriumgames/corestone/internal/player"
)

func handleClientInformation(ctx *Context) netio.Result {
	locale, err := ctx.Body.ReadString(16)
	if err != nil {
		return protocolError(err)
	}
	viewDistanceByte, err := ctx.Body.ReadByte()
	if err != nil {
		return protocolError(err)
	}
	chatMode, err := ctx.Body.ReadVarInt()
	if err != nil {
		return protocolError(err)
	}
	chatColors, err := ctx.Body.ReadBool()
	if err != nil {
		return protocolError(err)
	}
	skinParts, err := ctx.Body.ReadByte()
	if err != nil {
		return protocolError(err)
	}
	mainHand, err := ctx.Body.ReadVarInt()
	if err != nil {
		return protocolError(err)
	}
	textFiltering, err := ctx.Body.ReadBool()
	if err != nil {
		return protocolError(err)
	}
	serverListings, err := ctx.Body.ReadBool()
	if err != nil {
		return protocolError(err)
	}

	if ctx.Conn.Player == nil {
		return protocolError(errMissingPlayer)
	}
	ctx.Conn.Player.Config = &player.Config{
		Locale:             locale,
		ViewDistance:       player.ClampViewDistance(viewDistanceByte),
		ChatMode:           player.ChatMode(chatMode),
		ChatColors:         chatColors,
		DisplayedSkinParts: skinParts,
		MainHand:           player.MainHand(mainHand),
		TextFiltering:      textFiltering,
		ServerListings:     serverListings,
	}
	return netio.Result{Outcome: netio.Ok}
}

// handleConfigurationKnownPacks acknowledges the client's reply to the
// server's resource-pack negotiation. This core ships no data packs of
// its own, so the reply carries no information worth acting on.
func handleConfigurationKnownPacks(ctx *Context) netio.Result {
	return netio.Result{Outcome: netio.Ok}
}

func handleAcknowledgeFinishConfiguration(ctx *Context) netio.Result {
	ctx.Conn.SetPhase(netio.PhasePlay)
	ctx.Server.PromoteToActive(ctx.Conn)
	return sendPlaySequence(ctx)
}
