// Package config defines the server's on-disk configuration shape. Actual
// config file loading is an external collaborator (spec.md §1 "Out of
// scope: configuration file loading") — this package only owns the struct
// and a thin yaml.v3-backed Load, grounded on the pack's yaml-based config
// structs (other_examples) generalized to this server's settings.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full set of settings the orchestrator (pkg/server) threads
// through a world context.
type Config struct {
	Server struct {
		Address          string `yaml:"address"`
		Port             int    `yaml:"port"`
		MaxPlayers        int    `yaml:"max_players"`
		OnlineMode       bool   `yaml:"online_mode"`
		MOTD             string `yaml:"motd"`
		ViewDistance     int32  `yaml:"view_distance"`
		SimulationDistance int32 `yaml:"simulation_distance"`
	} `yaml:"server"`

	Network struct {
		CompressionThreshold int `yaml:"compression_threshold"`
	} `yaml:"network"`

	World struct {
		Name       string `yaml:"name"`
		RegionDir  string `yaml:"region_dir"`
		BedrockID  int32  `yaml:"bedrock_state_id"`
		DirtID     int32  `yaml:"dirt_state_id"`
		GrassID    int32  `yaml:"grass_state_id"`
		BiomeID    int32  `yaml:"biome_id"`
		SpawnY     int32  `yaml:"spawn_y"`
	} `yaml:"world"`

	// WorldBorder seeds pkg/world.Border (spec.md §3 "World border"),
	// grounded on the reference server's WorldBorderConfig
	// (original_source/src/core/config.h).
	WorldBorder struct {
		Size          float64 `yaml:"size"`
		CenterX       float64 `yaml:"center_x"`
		CenterZ       float64 `yaml:"center_z"`
		WarningBlocks int32   `yaml:"warning_blocks"`
		WarningTime   int32   `yaml:"warning_time"`
	} `yaml:"world_border"`

	WorkerPool struct {
		Workers int `yaml:"workers"`
		QueueSize int `yaml:"queue_size"`
	} `yaml:"worker_pool"`
}

// Default returns the configuration a fresh single-node server starts with.
func Default() Config {
	var c Config
	c.Server.Address = "0.0.0.0"
	c.Server.Port = 25565
	c.Server.MaxPlayers = 20
	c.Server.OnlineMode = true
	c.Server.MOTD = "A vanillago server"
	c.Server.ViewDistance = 10
	c.Server.SimulationDistance = 10
	c.Network.CompressionThreshold = 256
	c.World.Name = "world"
	c.World.RegionDir = "./world/region"
	c.World.SpawnY = 64
	c.WorldBorder.Size = 60000000
	c.WorldBorder.WarningBlocks = 5
	c.WorldBorder.WarningTime = 15
	c.WorkerPool.Workers = 8
	c.WorkerPool.QueueSize = 256
	return c
}

// Load reads and parses a yaml config file, filling in defaults for
// anything the file omits by starting from Default().
func Load(path string) (Config, error) {
	c := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return c, nil
}
