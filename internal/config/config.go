package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the core's external configuration surface.
type Config struct {
	Port       uint16 `yaml:"port"`
	MaxPlayers int32  `yaml:"max_players"`

	ViewDistance uint8 `yaml:"view_distance"` // 2..32
	WorldHeight  int32 `yaml:"world_height"`
	MinY         int32 `yaml:"min_y"`

	Workers        int    `yaml:"workers"`
	ChunkCacheSize int    `yaml:"chunk_cache_size"`

	Motd            string `yaml:"motd"`
	VersionName     string `yaml:"version_name"`
	ProtocolVersion int32  `yaml:"protocol_version"`
	WorldPath       string `yaml:"world_path"`

	// LogLevel selects the logger's level. HandshakeTimeout is decoded and
	// defaulted to 30s, but no component reads it: connections have no
	// idle-handshake timeout.
	LogLevel         string        `yaml:"log_level"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
}

// ErrConfigError wraps a configuration load failure; startup aborts on it.
type ErrConfigError struct {
	Path string
	Err  error
}

func (e *ErrConfigError) Error() string {
	return fmt.Sprintf("config: %s: %v", e.Path, e.Err)
}

func (e *ErrConfigError) Unwrap() error { return e.Err }

// Load reads and decodes path, applying defaults for anything left at its
// zero value via applyDefaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ErrConfigError{Path: path, Err: err}
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, &ErrConfigError{Path: path, Err: err}
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Port == 0 {
		cfg.Port = 25565
	}
	if cfg.MaxPlayers == 0 {
		cfg.MaxPlayers = 20
	}
	if cfg.ViewDistance == 0 {
		cfg.ViewDistance = 10
	}
	if cfg.WorldHeight == 0 {
		cfg.WorldHeight = 384
	}
	if cfg.MinY == 0 {
		cfg.MinY = -64
	}
	if cfg.Workers == 0 {
		cfg.Workers = 4
	}
	if cfg.ChunkCacheSize == 0 {
		cfg.ChunkCacheSize = 1024
	}
	if cfg.VersionName == "" {
		cfg.VersionName = "1.21.4"
	}
	if cfg.ProtocolVersion == 0 {
		cfg.ProtocolVersion = 769
	}
	if cfg.WorldPath == "" {
		cfg.WorldPath = "world"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.HandshakeTimeout == 0 {
		cfg.HandshakeTimeout = 30 * time.Second
	}
}
