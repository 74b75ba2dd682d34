package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landersim/pkg/config"
	"landersim/pkg/contact"
	"landersim/pkg/geom"
	"landersim/pkg/sim"
	"landersim/pkg/sites"
)

func writeConfig(t *testing.T, pilot string) string {
	t.Helper()
	dir := t.TempDir()
	cfg := fmt.Sprintf(`
log:
    sim:
        path: %q
        level: "debug"
sites:
    each_side: 2
run:
    duration: 1s
    frame_step: 16.666666ms
    start_y: 400
    pilot: %s
`, filepath.Join(dir, "logs", "landersim.log"), pilot)

	path := filepath.Join(dir, "landersim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func TestRun(t *testing.T) {
	for _, pilot := range []string{"none", "descent"} {
		t.Run(pilot, func(t *testing.T) {
			path := writeConfig(t, pilot)

			out, err := run(context.Background(), path, overrides{Seed: 7})
			require.NoError(t, err)

			// 400 units up, one second of flight.
			assert.Equal(t, contact.StateFlying, out.State)
			assert.InDelta(t, 1.0, out.Elapsed, 0.05)
			assert.Greater(t, out.Frames, 50)
			assert.LessOrEqual(t, out.Fuel, 100.0)
		})
	}
}

func TestRun_DurationOverride(t *testing.T) {
	path := writeConfig(t, "none")

	out, err := run(context.Background(), path, overrides{Duration: 250 * time.Millisecond})
	require.NoError(t, err)
	assert.InDelta(t, 0.25, out.Elapsed, 0.05)
}

func TestRun_Cancelled(t *testing.T) {
	path := writeConfig(t, "none")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := run(ctx, path, overrides{})
	require.NoError(t, err)
	assert.Zero(t, out.Frames)
	assert.Zero(t, out.Elapsed)
}

func TestRun_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("run:\n  pilot: autopilot\n"), 0o644))

	_, err := run(context.Background(), path, overrides{})
	assert.Error(t, err)
}

func TestVisitedSites(t *testing.T) {
	reg := sites.NewRegistry(nil,
		sites.Seed{UID: "alpha", X: -100, Size: 20, Award: 10},
		sites.Seed{UID: "bravo", X: 100, Size: 20, Award: 10},
		sites.Seed{UID: "charlie", X: 300, Size: 20, Award: 10},
	)
	assert.Empty(t, visitedSites(reg))

	reg.MarkVisited("charlie")
	reg.MarkVisited("alpha")
	reg.MarkVisited("ghost")
	assert.Equal(t, []string{"alpha", "charlie"}, visitedSites(reg))
}

func TestVehicle_Hull(t *testing.T) {
	cfg := config.DefaultConfig()
	a := sim.NewActor("box", vehicle(cfg), geom.V(0, 0))
	assert.Equal(t, [][]geom.Vec2{geom.Box(8, 8)}, a.Hull())

	cfg.Vehicle.Hull = [][][]float64{{{-5, -3}, {5, -3}, {0, 3}}}
	a = sim.NewActor("tri", vehicle(cfg), geom.V(0, 0))
	assert.Equal(t, 10.0, a.Width)
	assert.Equal(t, 6.0, a.Height)
	require.Len(t, a.Hull(), 1)
	assert.Equal(t, []geom.Vec2{geom.V(-5, -3), geom.V(5, -3), geom.V(0, 3)}, a.Hull()[0])
}
