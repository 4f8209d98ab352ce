package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jwebster45206/hallway/internal/config"
	"github.com/jwebster45206/hallway/internal/logger"
	backend "github.com/jwebster45206/hallway/internal/storage"
	"github.com/jwebster45206/hallway/pkg/scenario"
	"github.com/jwebster45206/hallway/pkg/storage"
)

const usage = `Usage: %s <map> <command> [args]

Commands:
  show                 print the map configuration
  add X1 Y1 X2 Y2      add a walkable rectangle
  start X Y            set the player start position
  clear                remove every walkable area
  check X Y            report whether a point is walkable
`

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, usage, os.Args[0])
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg, os.Stderr)
	res := backend.NewResources(cfg.DataDir, cfg.MapsDir, cfg.WorldFile, log)

	editor := &MapEditor{store: res, out: os.Stdout}
	if err := editor.Run(context.Background(), os.Args[1], os.Args[2], os.Args[3:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// mapStore is the part of the resource loader the editor needs.
type mapStore interface {
	GetMapConfig(ctx context.Context, name string) (*scenario.MapConfig, error)
	SaveMapConfig(ctx context.Context, cfg *scenario.MapConfig) error
	GetWorld(ctx context.Context) (*scenario.World, error)
}

type MapEditor struct {
	store mapStore
	out   io.Writer
}

// Run applies one command to the named map, saving it when it changes.
func (e *MapEditor) Run(ctx context.Context, mapName, command string, args []string) error {
	cfg, err := e.load(ctx, mapName)
	if err != nil {
		return err
	}

	switch strings.ToLower(command) {
	case "show":
		e.show(cfg)
		return nil

	case "add":
		n, err := ints(args, 4)
		if err != nil {
			return err
		}
		area, err := cfg.AddArea(n[0], n[1], n[2], n[3])
		if err != nil {
			return err
		}
		fmt.Fprintf(e.out, "Added area [%d, %d, %d, %d]\n", area.X1, area.Y1, area.X2, area.Y2)

	case "start":
		n, err := ints(args, 2)
		if err != nil {
			return err
		}
		cfg.SetStart(n[0], n[1])
		if !cfg.IsWalkable(cfg.StartPosition) {
			fmt.Fprintln(e.out, "Warning: start position is outside every walkable area")
		}
		fmt.Fprintf(e.out, "Start position set to (%d, %d)\n", n[0], n[1])

	case "clear":
		cfg.ClearAreas()
		fmt.Fprintln(e.out, "Cleared all walkable areas")

	case "check":
		n, err := ints(args, 2)
		if err != nil {
			return err
		}
		p := scenario.Point{X: n[0], Y: n[1]}
		if cfg.IsWalkable(p) {
			fmt.Fprintf(e.out, "(%d, %d) is walkable\n", p.X, p.Y)
		} else {
			fmt.Fprintf(e.out, "(%d, %d) is blocked\n", p.X, p.Y)
		}
		return nil

	default:
		return fmt.Errorf("unknown command %q", command)
	}

	if err := e.store.SaveMapConfig(ctx, cfg); err != nil {
		return fmt.Errorf("failed to save map %s: %w", mapName, err)
	}
	return nil
}

// load reads the saved map or starts from the default layout sized for the
// location that uses it.
func (e *MapEditor) load(ctx context.Context, mapName string) (*scenario.MapConfig, error) {
	cfg, err := e.store.GetMapConfig(ctx, mapName)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	w, h := scenario.DefaultMapWidth, scenario.DefaultMapHeight
	if world, err := e.store.GetWorld(ctx); err == nil {
		for _, loc := range world.Locations {
			if loc.Map == mapName {
				w, h = loc.Size()
				break
			}
		}
	}
	fmt.Fprintf(e.out, "No configuration for %s, starting from defaults (%dx%d)\n", mapName, w, h)
	return scenario.DefaultMapConfig(mapName, w, h), nil
}

func (e *MapEditor) show(cfg *scenario.MapConfig) {
	fmt.Fprintf(e.out, "Map: %s\n", cfg.MapName)
	fmt.Fprintf(e.out, "Start: (%d, %d)\n", cfg.StartPosition.X, cfg.StartPosition.Y)
	if len(cfg.WalkableAreas) == 0 {
		fmt.Fprintln(e.out, "Walkable areas: none (everything is walkable)")
		return
	}
	fmt.Fprintf(e.out, "Walkable areas: %d\n", len(cfg.WalkableAreas))
	for i, r := range cfg.WalkableAreas {
		fmt.Fprintf(e.out, "  %d: [%d, %d, %d, %d]\n", i+1, r.X1, r.Y1, r.X2, r.Y2)
	}
}

func ints(args []string, n int) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("expected %d numbers, got %d", n, len(args))
	}
	out := make([]int, n)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = v
	}
	return out, nil
}
