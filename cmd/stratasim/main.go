package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/strata-ecs/strata/internal/component"
	"github.com/strata-ecs/strata/internal/config"
	"github.com/strata-ecs/strata/internal/core/ecs"
	coresys "github.com/strata-ecs/strata/internal/core/system"
	"github.com/strata-ecs/strata/internal/scene"
	"github.com/strata-ecs/strata/internal/scripting"
	"github.com/strata-ecs/strata/internal/system"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m             strata  v0.1.0                \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      archetype entity-component store     \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main simulation logic ─────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/strata.toml"
	if p := os.Getenv("STRATA_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = config.Defaults()
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	// 3. Create store and register component kinds
	printSection("store")

	core := ecs.NewCore(log)
	ecs.RegisterComponent[component.Position](core, true)
	ecs.RegisterComponent[component.Velocity](core, true)
	ecs.RegisterComponent[component.Acceleration](core, true)
	ecs.RegisterComponent[component.Health](core, true)
	ecs.RegisterComponent[component.Lifetime](core, true)
	printOK("component kinds registered")

	// 4. Init Lua scripting engine
	engine, err := scripting.NewEngine(cfg.Scene.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer engine.Close()
	printOK("lua scripts loaded")

	// 5. Load and populate scene
	printSection("scene")

	var sc *scene.Scene
	if cfg.Scene.Path != "" {
		sc, err = scene.Load(cfg.Scene.Path)
		if err != nil {
			log.Warn("scene file unavailable, using built-in default", zap.Error(err))
			sc = scene.Default()
		}
	} else {
		sc = scene.Default()
	}

	rng := rand.New(rand.NewSource(cfg.Sim.Seed))
	created, err := sc.Populate(core, rng)
	if err != nil {
		return fmt.Errorf("populate scene %q: %w", sc.Name, err)
	}
	printStat("entities", created)
	printStat("archetypes", core.Archetypes().ArchetypeCount())
	fmt.Println()

	// 6. Create systems and register with runner
	runner := coresys.NewRunner()
	runner.Register(system.NewEventsSystem(core.Bus()))

	behaviorSys, err := system.NewBehaviorSystem(core, engine, cfg.Scene.Behavior, log)
	if err != nil {
		return fmt.Errorf("behavior system: %w", err)
	}
	runner.Register(behaviorSys)

	movementSys, err := system.NewMovementSystem(core, log)
	if err != nil {
		return fmt.Errorf("movement system: %w", err)
	}
	runner.Register(movementSys)

	lifetimeSys, err := system.NewLifetimeSystem(core, log)
	if err != nil {
		return fmt.Errorf("lifetime system: %w", err)
	}
	runner.Register(lifetimeSys)

	runner.Register(system.NewReportSystem(core, cfg.Sim.ReportEvery, log))

	// 7. Run simulation loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Sim.TickRate)
	defer ticker.Stop()

	printSection("simulation ready")
	printReady(fmt.Sprintf("loop started (tick: %s, ticks: %d)", cfg.Sim.TickRate, cfg.Sim.Ticks))
	fmt.Println()

	ticks := 0
	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Sim.TickRate)
			ticks++
			if cfg.Sim.Ticks > 0 && ticks >= cfg.Sim.Ticks {
				log.Info("simulation complete",
					zap.Int("ticks", ticks),
					zap.Int("entities", core.Archetypes().EntityCount()),
					zap.Int("archetypes", core.Archetypes().ArchetypeCount()),
				)
				return nil
			}
		case sig := <-shutdownCh:
			log.Info("received shutdown signal", zap.String("signal", sig.String()))
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
