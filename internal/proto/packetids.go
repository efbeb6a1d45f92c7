package proto

// Packet ids below. Five are pinned by the wire contract this core
// targets: Handshake serverbound (0x00), Status Response clientbound
// (0x00), Login Success clientbound (0x02), Registry Data clientbound
// (0x07), and Join Game clientbound (0x2B). Every other id in this file
// is this core's own self-consistent assignment for ids the wire
// contract leaves unspecified — there is no external client to
// cross-check them against, so internal consistency between the
// Router's dispatch table and the handlers that emit these ids is what
// matters, not numeric agreement with any one released client version.

// Handshake phase.
const (
	SBHandshake int32 = 0x00
)

// Status phase.
const (
	SBStatusRequest int32 = 0x00
	SBPing          int32 = 0x01

	CBStatusResponse int32 = 0x00
	CBPong           int32 = 0x01
)

// Login phase.
const (
	SBLoginStart        int32 = 0x00
	SBLoginAcknowledged int32 = 0x03

	CBLoginDisconnect int32 = 0x00
	CBLoginSuccess    int32 = 0x02
)

// Configuration phase.
const (
	SBClientInformation             int32 = 0x00
	SBConfigurationKnownPacks       int32 = 0x07
	SBAcknowledgeFinishConfig       int32 = 0x03

	CBConfigurationDisconnect int32 = 0x02
	CBFinishConfiguration     int32 = 0x03
	CBRegistryData            int32 = 0x07
	CBConfigurationKnownPacks int32 = 0x0E
	CBUpdateTags              int32 = 0x0D
)

// Play phase.
const (
	SBConfirmTeleport int32 = 0x00

	CBGameEvent                 int32 = 0x22
	CBJoinGame                  int32 = 0x2B
	CBChunkBatchFinished        int32 = 0x0C
	CBChunkBatchStart           int32 = 0x0D
	CBChangeDifficulty          int32 = 0x0B
	CBLevelChunkWithLight       int32 = 0x27
	CBPlayDisconnect            int32 = 0x1D
	CBPlayerAbilities           int32 = 0x39
	CBSetCenterChunk            int32 = 0x57
	CBSetDefaultSpawnPosition   int32 = 0x5A
	CBSetExperience             int32 = 0x5C
	CBSetHeldItem               int32 = 0x63
	CBSetHealth                 int32 = 0x5D
	CBSynchronizePlayerPosition int32 = 0x41
	CBUpdateTime                int32 = 0x6A
)

// GameEventStartWaitingForChunks is the Game Event id that tells the
// client to stop rendering its loading screen once chunk streaming
// begins.
const GameEventStartWaitingForChunks = 13
