package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"landersim/pkg/config"
	"landersim/pkg/contact"
	"landersim/pkg/logging"
	"landersim/pkg/sim"
	"landersim/pkg/sites"
	"landersim/pkg/tracker"
	"landersim/pkg/version"
)

const defaultConfigPath = "configs/landersim.yaml"

var (
	configPath = flag.String("config", defaultConfigPath, "Path to the config file")
	initConfig = flag.Bool("init-config", false, "Generate default config file and exit")
	seed       = flag.Int64("seed", 0, "Terrain seed (0 keeps the configured seed)")
	duration   = flag.Duration("duration", 0, "Simulated run time (0 keeps the configured duration)")
)

// overrides carries command line settings that win over the config file.
type overrides struct {
	Seed     int64
	Duration time.Duration
}

// outcome summarises a finished run.
type outcome struct {
	State   contact.State
	Elapsed float64
	Fuel    float64
	Credits float64
	Frames  int
	Visited []string
}

func main() {
	flag.Parse()

	if *initConfig {
		if err := config.GenerateDefault(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config file generated:", *configPath)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := run(ctx, *configPath, overrides{Seed: *seed, Duration: *duration}); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: landersim failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path string, ov overrides) (outcome, error) {
	// .env is optional; it only feeds the LANDERSIM_* overrides.
	envErr := godotenv.Load()

	cfg, err := config.Load(path)
	if err != nil {
		return outcome{}, fmt.Errorf("failed to load config: %w", err)
	}
	if ov.Seed != 0 {
		cfg.Terrain.Seed = ov.Seed
	}
	if ov.Duration > 0 {
		cfg.Run.Duration = config.Duration(ov.Duration)
	}

	cleanupLogs, err := logging.Init(&cfg.Log)
	if err != nil {
		return outcome{}, fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	logger := slog.Default()
	logger.Info("landersim started", "version", version.Version, "config", path)
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		logger.Warn("Failed to read .env", "error", envErr)
	}

	tr := tracker.New()
	world, actor := buildWorld(cfg, logger, tr)

	out := fly(ctx, world, actor, cfg.Run.FrameStep.Seconds(), cfg.Run.Duration.Seconds())

	logger.Info("Run finished",
		"actor", actor.UID,
		"state", out.State,
		"elapsed", out.Elapsed,
		"frames", out.Frames,
		"x", actor.Pos.X,
		"y", actor.Pos.Y,
		"fuel", out.Fuel,
		"credits", out.Credits,
		"visited", out.Visited,
	)
	logStats(logger, tr)
	return out, nil
}

// fly advances the world frame by frame until the actor settles, the run
// time is used up or ctx is cancelled.
func fly(ctx context.Context, world *sim.World, actor *sim.Actor, frame, limit float64) outcome {
	if frame <= 0 {
		frame = sim.DefaultSensorDT
	}

	out := outcome{}
	for world.Elapsed() < limit {
		if ctx.Err() != nil {
			break
		}
		world.Update(frame)
		out.Frames++
		if actor.State != contact.StateFlying {
			break
		}
	}

	out.State = actor.State
	out.Elapsed = world.Elapsed()
	out.Fuel = actor.Fuel
	out.Credits = actor.Credits
	out.Visited = visitedSites(world.Registry())
	return out
}

// visitedSites lists the sites whose award has been paid, in spawn order.
func visitedSites(reg *sites.Registry) []string {
	var out []string
	for _, uid := range reg.UIDs() {
		if e, ok := reg.Entity(uid); ok && e.Economy.Visited {
			out = append(out, uid)
		}
	}
	return out
}

func logStats(logger *slog.Logger, tr *tracker.Tracker) {
	snap := tr.Snapshot()
	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s := snap[name]
		logger.Info("Tracker stats",
			"component", name,
			"hits", s.CacheHits,
			"misses", s.CacheMisses,
			"hit_rate", s.HitRate(),
			"evictions", s.Evictions,
			"rebuilds", s.Rebuilds,
		)
	}
}
