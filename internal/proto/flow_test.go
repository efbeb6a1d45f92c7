package proto

import (
	"testing"

	"github.com/oriumgames/corestone/internal/netio"
	"github.com/oriumgames/corestone/internal/wire"
)

// TestFullLoginToPlayFlow drives a connection through every phase
// transition handled by this package and checks the packets a real
// client would see along the way, in order.
func TestFullLoginToPlayFlow(t *testing.T) {
	srv := newFakeServer(t)
	router := NewRouter(srv)
	conn, peer := newTestConn(t)
	conn.SetPhase(netio.PhaseHandshake)

	handshake := wire.NewWriteBuffer()
	handshake.WriteVarInt(769)
	handshake.WriteString("localhost")
	handshake.WriteUShort(25565)
	handshake.WriteVarInt(2) // next=Login
	if result := router.Route(conn, SBHandshake, handshake.Bytes()); result.Outcome != netio.Ok {
		t.Fatalf("handshake: outcome=%v err=%v", result.Outcome, result.Err)
	}
	if conn.Phase() != netio.PhaseLogin {
		t.Fatalf("phase after handshake = %v, want Login", conn.Phase())
	}

	loginStart := wire.NewWriteBuffer()
	loginStart.WriteString("Steve")
	if result := router.Route(conn, SBLoginStart, loginStart.Bytes()); result.Outcome != netio.Ok {
		t.Fatalf("login start: outcome=%v err=%v", result.Outcome, result.Err)
	}
	if conn.Player == nil || conn.Player.Name != "Steve" {
		t.Fatalf("player not set after login start: %+v", conn.Player)
	}
	id, _ := readFrame(t, peer)
	if id != CBLoginSuccess {
		t.Fatalf("packet id = 0x%02X, want CBLoginSuccess", id)
	}

	if result := router.Route(conn, SBLoginAcknowledged, nil); result.Outcome != netio.Ok {
		t.Fatalf("login acknowledged: outcome=%v err=%v", result.Outcome, result.Err)
	}
	if conn.Phase() != netio.PhaseConfiguration {
		t.Fatalf("phase after login acknowledged = %v, want Configuration", conn.Phase())
	}

	// One Registry Data packet per seeded registry, then Finish Configuration.
	registryCount := len(srv.Registries().IDs())
	for i := 0; i < registryCount; i++ {
		if id, _ := readFrame(t, peer); id != CBRegistryData {
			t.Fatalf("packet %d id = 0x%02X, want CBRegistryData", i, id)
		}
	}
	if id, _ := readFrame(t, peer); id != CBFinishConfiguration {
		t.Fatalf("packet id = 0x%02X, want CBFinishConfiguration", id)
	}

	clientInfo := wire.NewWriteBuffer()
	clientInfo.WriteString("en_us")
	clientInfo.WriteByte(2) // view distance (clamped minimum, keeps the chunk batch small)
	clientInfo.WriteVarInt(0)
	clientInfo.WriteBool(true)
	clientInfo.WriteByte(0x7F)
	clientInfo.WriteVarInt(1)
	clientInfo.WriteBool(true)
	clientInfo.WriteBool(true)
	if result := router.Route(conn, SBClientInformation, clientInfo.Bytes()); result.Outcome != netio.Ok {
		t.Fatalf("client information: outcome=%v err=%v", result.Outcome, result.Err)
	}
	if conn.Player.Config == nil || conn.Player.Config.ViewDistance != 2 {
		t.Fatalf("player config not applied: %+v", conn.Player.Config)
	}

	if result := router.Route(conn, SBAcknowledgeFinishConfig, nil); result.Outcome != netio.Ok {
		t.Fatalf("acknowledge finish configuration: outcome=%v err=%v", result.Outcome, result.Err)
	}
	if conn.Phase() != netio.PhasePlay {
		t.Fatalf("phase after acknowledge finish configuration = %v, want Play", conn.Phase())
	}

	expected := []int32{
		CBJoinGame, CBChangeDifficulty, CBPlayerAbilities, CBSetHeldItem,
		CBSynchronizePlayerPosition, CBSetCenterChunk, CBChunkBatchStart,
	}
	for i, want := range expected {
		if id, _ := readFrame(t, peer); id != want {
			t.Fatalf("play packet %d id = 0x%02X, want 0x%02X", i, id, want)
		}
	}
}
