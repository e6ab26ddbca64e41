package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/krillworks/krill/internal/config"
	"github.com/krillworks/krill/internal/core/ecs"
	"github.com/krillworks/krill/internal/core/event"
	"github.com/krillworks/krill/internal/core/schedule"
	"github.com/krillworks/krill/internal/persist"
	"github.com/krillworks/krill/internal/scenario"
	"github.com/krillworks/krill/internal/scripting"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", "krill.toml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng, err := scripting.NewEngine(cfg.Simulation.ScriptsDir, log)
	if err != nil {
		return err
	}
	defer eng.Close()

	sc, err := scenario.Load(cfg.Simulation.Scenario)
	if err != nil {
		return err
	}

	w := ecs.NewWorld()
	sched := schedule.New()
	if err := sc.Apply(w, eng, sched); err != nil {
		return fmt.Errorf("apply scenario: %w", err)
	}

	bus := event.NewBus()
	ecs.InsertResource(w, bus)
	event.Subscribe(bus, func(e event.SnapshotSaved) {
		log.Info("snapshot saved",
			zap.Uint64("tick", uint64(e.Tick)),
			zap.Int("entities", e.Entities))
	})
	sched.Add(schedule.PhaseFirst, w.RegisterSystem(tickEvents))

	if cfg.Database.DSN != "" {
		db, err := persist.Open(ctx, cfg.Database, log)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := persist.Migrate(ctx, db.Pool, log); err != nil {
			return err
		}
		log.Info("database connected")

		if cfg.Snapshot.Enabled {
			repo := persist.NewSnapshotRepo(db)
			fn := snapshotSystem(ctx, repo, cfg.Snapshot.Interval, log)
			sched.Add(schedule.PhasePersist, w.RegisterSystem(fn))
		}
	}

	maxTicks := cfg.Simulation.MaxTicks
	if sc.Ticks > 0 && (maxTicks == 0 || sc.Ticks < maxTicks) {
		maxTicks = sc.Ticks
	}

	log.Info("simulation starting",
		zap.String("scenario", sc.Name),
		zap.Int("systems", sched.Len()),
		zap.Duration("tick_rate", cfg.Simulation.TickRate),
		zap.Int("max_ticks", maxTicks))

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()

	ticks := 0
	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown signal received")
			logSummary(log, w, ticks)
			return nil
		case <-ticker.C:
			if err := sched.Tick(w); err != nil {
				return fmt.Errorf("tick %d: %w", ticks, err)
			}
			ticks++
			if maxTicks > 0 && ticks >= maxTicks {
				logSummary(log, w, ticks)
				return nil
			}
		}
	}
}

// tickEvents runs first every tick: rotate event buffers, deliver last tick's
// events, announce the new tick.
func tickEvents(w *ecs.World, state *ecs.SystemState) {
	bus := ecs.MustResource[event.Bus](w)
	bus.SwapBuffers()
	bus.DispatchAll()

	n := ecs.Local[int](state)
	*n++
	event.Emit(bus, event.TickStarted{Number: *n, Tick: w.ChangeTick()})
}

// snapshotSystem saves a world snapshot every interval ticks.
func snapshotSystem(ctx context.Context, repo *persist.SnapshotRepo, interval int, log *zap.Logger) ecs.SystemFn {
	return func(w *ecs.World, state *ecs.SystemState) {
		count := ecs.Local[int](state)
		*count++
		if *count%interval != 0 {
			return
		}

		bb := ecs.MustResource[scripting.Blackboard](w)
		values := make(map[string]float64, len(bb.Values))
		for k, v := range bb.Values {
			values[k] = v
		}

		snap := &persist.Snapshot{
			Tick:       uint64(w.ChangeTick()),
			Entities:   w.EntityCount(),
			Blackboard: values,
		}
		if err := repo.Save(ctx, snap); err != nil {
			log.Error("snapshot save failed", zap.Error(err))
			return
		}

		bus := ecs.MustResource[event.Bus](w)
		event.Emit(bus, event.SnapshotSaved{
			Tick:     ecs.Tick(snap.Tick),
			Entities: snap.Entities,
		})
	}
}

func logSummary(log *zap.Logger, w *ecs.World, ticks int) {
	fields := []zap.Field{
		zap.Int("ticks", ticks),
		zap.Int("entities", w.EntityCount()),
	}
	if bb, ok := ecs.Resource[scripting.Blackboard](w); ok {
		fields = append(fields, zap.Any("blackboard", bb.Values))
	}
	log.Info("simulation finished", fields...)
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
