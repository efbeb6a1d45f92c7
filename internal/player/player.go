package player

import "github.com/google/uuid"

// MainHand is the player's reported dominant hand.
type MainHand int32

const (
	MainHandLeft MainHand = iota
	MainHandRight
)

// ChatMode mirrors the client's chat visibility setting.
type ChatMode int32

const (
	ChatModeEnabled ChatMode = iota
	ChatModeCommandsOnly
	ChatModeHidden
)

// Config is the client-settings packet payload sent during Configuration.
type Config struct {
	Locale             string
	ViewDistance       uint8 // 2..32
	ChatMode           ChatMode
	ChatColors         bool
	DisplayedSkinParts uint8 // bitmask
	MainHand           MainHand
	TextFiltering      bool
	ServerListings     bool
}

// DefaultViewDistance is the vanilla client default. Nothing in this module
// reads it: until the client sends its own Config, the Play handlers use
// the server's configured view distance.
const DefaultViewDistance = 10

// MinViewDistance and MaxViewDistance bound Config.ViewDistance.
const (
	MinViewDistance = 2
	MaxViewDistance = 32
)

// ClampViewDistance clamps v into [MinViewDistance, MaxViewDistance].
func ClampViewDistance(v uint8) uint8 {
	if v < MinViewDistance {
		return MinViewDistance
	}
	if v > MaxViewDistance {
		return MaxViewDistance
	}
	return v
}

// Player is one connected player's identity, settings, and last known
// position.
type Player struct {
	EntityID    uint32
	Name        string
	UUID        uuid.UUID
	Config      *Config // nil until the client sends Client Information

	X, Y, Z     float64
	Yaw, Pitch  float32
}

// New returns a Player for name, deriving its offline UUID and assigning
// entityID (allocated by idalloc.Manager).
func New(name string, entityID uint32) *Player {
	return &Player{
		EntityID: entityID,
		Name:     name,
		UUID:     OfflineUUID(name),
	}
}
