package proto

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oriumgames/corestone/internal/chunk"
	"github.com/oriumgames/corestone/internal/config"
	"github.com/oriumgames/corestone/internal/idalloc"
	"github.com/oriumgames/corestone/internal/netio"
	"github.com/oriumgames/corestone/internal/registry"
	"github.com/oriumgames/corestone/internal/wire"
	"github.com/oriumgames/corestone/internal/world"
)

type fakeWorld struct{}

func (fakeWorld) FetchChunk(cx, cz int32) (*chunk.ChunkData, error) {
	return chunk.NewEmptyChunkData(cx, cz, 384, -64, 0, 0), nil
}

type fakeServer struct {
	cfg    *config.Config
	regs   *registry.Set
	log    *logrus.Entry
	ids    *idalloc.Manager
	online int32
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	regs, err := registry.Load("/nonexistent-registry-dir-for-tests")
	if err != nil {
		t.Fatalf("registry.Load: %v", err)
	}
	log := logrus.NewEntry(logrus.New())
	return &fakeServer{
		cfg: &config.Config{
			Port: 25565, MaxPlayers: 20, ViewDistance: 0, WorldHeight: 384, MinY: -64,
			Motd: "A test server", VersionName: "1.21.4", ProtocolVersion: 769,
		},
		regs: regs,
		log:  log,
		ids:  idalloc.New(log),
	}
}

func (f *fakeServer) Config() *config.Config              { return f.cfg }
func (f *fakeServer) Registries() *registry.Set           { return f.regs }
func (f *fakeServer) World() world.ChunkSource            { return fakeWorld{} }
func (f *fakeServer) Log() *logrus.Entry                  { return f.log }
func (f *fakeServer) IDs() *idalloc.Manager               { return f.ids }
func (f *fakeServer) OnlineCount() int32                  { return f.online }
func (f *fakeServer) RegisterTemporary(*netio.Connection) {}
func (f *fakeServer) PromoteToActive(*netio.Connection)   {}
func (f *fakeServer) RemovePlayer(*netio.Connection)      {}

// newTestConn returns a Connection backed by a net.Pipe, plus the peer
// end a test can read framed output from.
func newTestConn(t *testing.T) (*netio.Connection, net.Conn) {
	t.Helper()
	serverSide, peer := net.Pipe()
	conn := netio.NewConnection(1, serverSide)
	netio.StartSender(conn, logrus.NewEntry(logrus.New()))
	t.Cleanup(func() { peer.Close() })
	return conn, peer
}

// readFrame reads one length-prefixed frame off peer and returns its
// packet id and payload.
func readFrame(t *testing.T, peer net.Conn) (int32, []byte) {
	t.Helper()
	peer.SetReadDeadline(time.Now().Add(2 * time.Second))
	br := bufio.NewReader(peer)
	length, err := wire.ReadVarIntStream(br)
	if err != nil {
		t.Fatalf("reading frame length: %v", err)
	}
	body := make([]byte, length)
	if _, err := readFull(br, body); err != nil {
		t.Fatalf("reading frame body: %v", err)
	}
	buf := wire.NewBuffer(body)
	id, err := buf.ReadVarInt()
	if err != nil {
		t.Fatalf("reading packet id: %v", err)
	}
	return id, buf.Rest()
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func TestRouterRejectsUnknownPacketID(t *testing.T) {
	srv := newFakeServer(t)
	router := NewRouter(srv)
	conn, _ := newTestConn(t)
	conn.SetPhase(netio.PhaseStatus)

	result := router.Route(conn, 0x7F, nil)
	if result.Outcome != netio.ProtocolError {
		t.Fatalf("outcome = %v, want ProtocolError", result.Outcome)
	}
}

func TestRouterRejectsWrongPhase(t *testing.T) {
	srv := newFakeServer(t)
	router := NewRouter(srv)
	conn, _ := newTestConn(t)
	conn.SetPhase(netio.PhaseHandshake)

	// SBLoginStart is only registered for PhaseLogin.
	result := router.Route(conn, SBLoginStart, nil)
	if result.Outcome != netio.ProtocolError {
		t.Fatalf("outcome = %v, want ProtocolError", result.Outcome)
	}
}

func TestHandshakeTransitionsToStatus(t *testing.T) {
	srv := newFakeServer(t)
	router := NewRouter(srv)
	conn, _ := newTestConn(t)
	conn.SetPhase(netio.PhaseHandshake)

	payload := wire.NewWriteBuffer()
	payload.WriteVarInt(754)
	payload.WriteString("localhost")
	payload.WriteUShort(25565)
	payload.WriteVarInt(1) // next=Status

	result := router.Route(conn, SBHandshake, payload.Bytes())
	if result.Outcome != netio.Ok {
		t.Fatalf("outcome = %v, want Ok (err=%v)", result.Outcome, result.Err)
	}
	if conn.Phase() != netio.PhaseStatus {
		t.Fatalf("phase = %v, want Status", conn.Phase())
	}
}

func TestHandshakeRejectsBadNextState(t *testing.T) {
	srv := newFakeServer(t)
	router := NewRouter(srv)
	conn, _ := newTestConn(t)
	conn.SetPhase(netio.PhaseHandshake)

	payload := wire.NewWriteBuffer()
	payload.WriteVarInt(754)
	payload.WriteString("localhost")
	payload.WriteUShort(25565)
	payload.WriteVarInt(9) // invalid

	result := router.Route(conn, SBHandshake, payload.Bytes())
	if result.Outcome != netio.ProtocolError {
		t.Fatalf("outcome = %v, want ProtocolError", result.Outcome)
	}
}

func TestStatusRequestReturnsConfiguredFields(t *testing.T) {
	srv := newFakeServer(t)
	router := NewRouter(srv)
	conn, peer := newTestConn(t)
	conn.SetPhase(netio.PhaseStatus)

	result := router.Route(conn, SBStatusRequest, nil)
	if result.Outcome != netio.Ok {
		t.Fatalf("outcome = %v, want Ok (err=%v)", result.Outcome, result.Err)
	}

	id, payload := readFrame(t, peer)
	if id != CBStatusResponse {
		t.Fatalf("packet id = 0x%02X, want CBStatusResponse", id)
	}
	body := wire.NewBuffer(payload)
	json, err := body.ReadString(1 << 20)
	if err != nil {
		t.Fatalf("reading status JSON: %v", err)
	}
	if !contains(json, `"name":"1.21.4"`) || !contains(json, `"protocol":769`) {
		t.Fatalf("status JSON missing configured version fields: %s", json)
	}
	if !contains(json, `A test server`) {
		t.Fatalf("status JSON missing description text: %s", json)
	}
}

func contains(haystack, needle string) bool {
	return len(haystack) >= len(needle) && indexOf(haystack, needle) >= 0
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}

func TestPingEchoesAndDisconnects(t *testing.T) {
	srv := newFakeServer(t)
	router := NewRouter(srv)
	conn, peer := newTestConn(t)
	conn.SetPhase(netio.PhaseStatus)

	payload := wire.NewWriteBuffer()
	payload.WriteInt64(42)

	result := router.Route(conn, SBPing, payload.Bytes())
	if result.Outcome != netio.Disconnect {
		t.Fatalf("outcome = %v, want Disconnect", result.Outcome)
	}

	id, echoed := readFrame(t, peer)
	if id != CBPong {
		t.Fatalf("packet id = 0x%02X, want CBPong", id)
	}
	v, err := wire.NewBuffer(echoed).ReadInt64()
	if err != nil || v != 42 {
		t.Fatalf("echoed payload = %d, err=%v, want 42", v, err)
	}
}
