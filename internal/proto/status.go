package proto

import (
	"encoding/json"

	"github.com/oriumgames/corestone/internal/netio"
	"github.com/oriumgames/corestone/internal/wire"
)

// statusResponse mirrors the JSON shape the wire contract requires for
// the Status Response packet.
type statusResponse struct {
	Version     statusVersion     `json:"version"`
	Players     statusPlayers     `json:"players"`
	Description statusDescription `json:"description"`
}

type statusVersion struct {
	Name     string `json:"name"`
	Protocol int32  `json:"protocol"`
}

type statusPlayers struct {
	Max    int32         `json:"max"`
	Online int32         `json:"online"`
	Sample []interface{} `json:"sample"`
}

type statusDescription struct {
	Text string `json:"text"`
}

func handleStatusRequest(ctx *Context) netio.Result {
	cfg := ctx.Server.Config()
	resp := statusResponse{
		Version:     statusVersion{Name: cfg.VersionName, Protocol: cfg.ProtocolVersion},
		Players:     statusPlayers{Max: cfg.MaxPlayers, Online: ctx.Server.OnlineCount(), Sample: []interface{}{}},
		Description: statusDescription{Text: cfg.Motd},
	}
	body, err := json.Marshal(resp)
	if err != nil {
		return protocolError(err)
	}

	out := wire.NewWriteBuffer()
	out.WriteString(string(body))
	if !ctx.Send(CBStatusResponse, out.Bytes()) {
		return netio.Result{Outcome: netio.ProtocolError, Err: errQueueBounded}
	}
	return netio.Result{Outcome: netio.Ok}
}

func handlePing(ctx *Context) netio.Result {
	payload, err := ctx.Body.ReadInt64()
	if err != nil {
		return protocolError(err)
	}
	out := wire.NewWriteBuffer()
	out.WriteInt64(payload)
	if !ctx.Send(CBPong, out.Bytes()) {
		return netio.Result{Outcome: netio.ProtocolError, Err: errQueueBounded}
	}
	return netio.Result{Outcome: netio.Disconnect}
}
