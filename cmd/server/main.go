package main

import (
	"bufio"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/ChickenIQ/vanillago/pkg/auth"
	"github.com/ChickenIQ/vanillago/pkg/chunkrepo"
	"github.com/ChickenIQ/vanillago/pkg/command"
	"github.com/ChickenIQ/vanillago/pkg/config"
	"github.com/ChickenIQ/vanillago/pkg/registry"
	"github.com/ChickenIQ/vanillago/pkg/server"
	"github.com/ChickenIQ/vanillago/pkg/session"
)

func main() {
	configPath := flag.String("config", "", "path to a yaml config file (defaults are used when omitted)")
	flag.Parse()

	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.WithError(err).Fatal("loading config")
		}
		cfg = loaded
	}

	var authClient *auth.Client
	if cfg.Server.OnlineMode {
		authClient = auth.New()
	}
	login, err := session.NewLoginFlow(serverID(), cfg.Server.OnlineMode, authClient)
	if err != nil {
		log.WithError(err).Fatal("generating server keypair")
	}

	region := chunkrepo.NewAnvilRegion(cfg.World.RegionDir)
	preset := chunkrepo.ClassicFlat(cfg.World.BedrockID, cfg.World.DirtID, cfg.World.GrassID, cfg.World.BiomeID)
	chunks := chunkrepo.New(region, preset)

	registries, err := registry.Load([]byte(minimalRegistryDocument))
	if err != nil {
		log.WithError(err).Fatal("loading registries")
	}

	graph := buildCommandGraph()

	world := server.NewWorldContext(cfg, chunks, graph, registries, login, log)
	world.StartTickLoop()
	defer world.Stop()

	listener, err := world.Listen()
	if err != nil {
		log.WithError(err).Fatal("opening listener")
	}
	log.WithField("address", cfg.Server.Address).WithField("port", cfg.Server.Port).Info("server listening")

	serveErr := make(chan error, 1)
	go func() { serveErr <- listener.Serve() }()

	go runConsole(world, log)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.WithField("signal", sig).Info("shutting down")
	case err := <-serveErr:
		log.WithError(err).Warn("listener stopped")
	case <-world.StopRequested():
		log.Info("stop requested via /stop")
	}

	listener.Close()
}

// runConsole reads one command per stdin line and dispatches it with console
// privileges, grounded on the reference server's consoleThread in
// original_source/src/core/server.cpp (a detached std::getline loop feeding
// handleConsoleCommand). Exits silently once stdin is closed.
func runConsole(world *server.WorldContext, log *logrus.Logger) {
	scanner := bufio.NewScanner(os.Stdin)
	ctx := &command.ExecContext{
		IsConsole: true,
		SendOutput: func(key string, isError bool, args []string) {
			if isError {
				log.WithField("args", args).Warn(key)
				return
			}
			log.WithField("args", args).Info(key)
		},
		Data: &server.CommandContext{World: world},
	}
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		command.Parse(world.Commands, ctx, line)
	}
}

// serverID is the login-phase server_id field (spec.md §4.9); a constant
// placeholder is correct here since Minecraft Java Edition has sent an empty
// string since the removal of the legacy session-server handshake.
func serverID() string { return "" }

// buildCommandGraph assembles the default command set (SPEC_FULL.md
// SUPPLEMENTED FEATURES), grounded on the reference server's
// buildAllCommands (original_source/src/commands/CommandBuilder.cpp): the
// /time subtree and /gamemode are carried over against this graph's
// Handler shape, and /tp, /worldborder, /stop are this core's minimal
// analogues built the same way.
func buildCommandGraph() *command.Graph {
	b := command.NewBuilder()

	b.Literal("time").
		Literal("set").
		Argument("value", command.ParserInteger).
		Range(command.NumericRange{HasMin: true, Min: 0}).
		Executable().ConsoleExecutable().
		Handle(server.HandleTimeSet).
		End().
		End().
		Literal("query").
		Literal("daytime").
		Executable().ConsoleExecutable().
		Handle(server.HandleTimeQueryDaytime).
		End().
		End().
		End()

	b.Literal("gamemode").
		Argument("mode", command.ParserBrigadierString).
		Executable().
		Handle(server.HandleGamemode).
		End().
		End()

	b.Literal("tp").
		Argument("x", command.ParserDouble).
		Argument("y", command.ParserDouble).
		Argument("z", command.ParserDouble).
		Executable().
		Handle(server.HandleTeleport).
		End().
		End().
		End().
		End()

	b.Literal("worldborder").
		Literal("set").
		Argument("size", command.ParserDouble).
		Range(command.NumericRange{HasMin: true, Min: 1}).
		Executable().ConsoleExecutable().
		Handle(server.HandleWorldBorderSet).
		Argument("seconds", command.ParserInteger).
		Range(command.NumericRange{HasMin: true, Min: 0}).
		Executable().ConsoleExecutable().
		Handle(server.HandleWorldBorderSet).
		End().
		End().
		End().
		Literal("center").
		Argument("x", command.ParserDouble).
		Argument("z", command.ParserDouble).
		Executable().ConsoleExecutable().
		Handle(server.HandleWorldBorderCenter).
		End().
		End().
		End().
		End()

	b.Literal("stop").
		Executable().ConsoleExecutable().
		Handle(server.HandleStop)

	return b.Build()
}

const minimalRegistryDocument = `{
  "minecraft:dimension_type": {
    "minecraft:overworld": {"has_skylight": true, "has_ceiling": false, "ultrawarm": false, "natural": true, "coordinate_scale": 1.0, "bed_works": true, "respawn_anchor_works": false, "min_y": -64, "height": 384, "logical_height": 384, "infiniburn": "#minecraft:infiniburn_overworld", "effects": "minecraft:overworld", "ambient_light": 0.0}
  },
  "minecraft:worldgen/biome": {
    "minecraft:plains": {"has_precipitation": true, "temperature": 0.8, "downfall": 0.4}
  },
  "minecraft:painting_variant": {
    "minecraft:kebab": {"width": 1, "height": 1, "asset_id": "minecraft:kebab"}
  },
  "minecraft:wolf_variant": {
    "minecraft:pale": {"wild_texture": "minecraft:entity/wolf/wolf_pale", "tame_texture": "minecraft:entity/wolf/wolf_pale_tame", "angry_texture": "minecraft:entity/wolf/wolf_pale_angry"}
  },
  "minecraft:damage_type": {
    "minecraft:generic": {"message_id": "generic", "scaling": "when_caused_by_living_non_player", "exhaustion": 0.1}
  },
  "minecraft:chat_type": {
    "minecraft:chat": {"chat": {"translation_key": "chat.type.text"}, "narration": {"translation_key": "chat.type.text.narrate"}}
  }
}`
