package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jwebster45206/hallway/pkg/npc"
	"github.com/jwebster45206/hallway/pkg/scenario"
)

var (
	profileFilename = regexp.MustCompile(`^student_[1-9][0-9]*\.json$`)
	mapFilename     = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*_config\.json$`)
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <student_N.json|name_config.json|world.yaml>...\n", os.Args[0])
		os.Exit(1)
	}

	failed := false
	for _, filename := range os.Args[1:] {
		validator := &Validator{}
		if err := validator.validateFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
			continue
		}
		fmt.Printf("%s is valid!\n", filename)
	}
	if failed {
		os.Exit(1)
	}
}

type Validator struct {
	errors []string
}

func (v *Validator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil
	baseName := filepath.Base(filename)

	switch {
	case profileFilename.MatchString(baseName):
		v.validateProfile(data)
	case mapFilename.MatchString(baseName):
		v.validateMapConfig(data, strings.TrimSuffix(baseName, "_config.json"))
	case strings.HasSuffix(baseName, ".yaml") || strings.HasSuffix(baseName, ".yml"):
		v.validateWorld(data)
	default:
		return fmt.Errorf("unrecognized file name %s: expected student_N.json, name_config.json or a .yaml world", baseName)
	}

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *Validator) validateProfile(data []byte) {
	p, err := npc.ParseProfile(data)
	if err != nil {
		v.addError("%v", err)
		return
	}
	for _, name := range p.Psychology.EmotionalStats.Names() {
		value, err := p.Psychology.EmotionalStats.Float(name)
		if err != nil {
			v.addError("emotional_stats.%s: %q is not a number", name, p.Psychology.EmotionalStats[name])
			continue
		}
		if value < 0 || value > 100 {
			v.addError("emotional_stats.%s: %v is outside 0-100", name, value)
		}
	}
}

func (v *Validator) validateMapConfig(data []byte, expectedName string) {
	if !json.Valid(data) {
		v.addError("invalid JSON")
		return
	}

	var cfg scenario.MapConfig
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		v.addError("failed strict JSON unmarshaling: %v", err)
		return
	}

	if cfg.MapName != expectedName {
		v.addError("map_name %q does not match file name (expected %q)", cfg.MapName, expectedName)
	}
	for i, r := range cfg.WalkableAreas {
		if r.X1 > r.X2 || r.Y1 > r.Y2 {
			v.addError("walkable_areas[%d]: corners are not normalized", i)
		}
		if r.X2-r.X1 < scenario.MinAreaSize || r.Y2-r.Y1 < scenario.MinAreaSize {
			v.addError("walkable_areas[%d]: smaller than %d pixels", i, scenario.MinAreaSize)
		}
	}
	if !cfg.IsWalkable(cfg.StartPosition) {
		v.addError("start_position (%d, %d) is not walkable", cfg.StartPosition.X, cfg.StartPosition.Y)
	}
}

func (v *Validator) validateWorld(data []byte) {
	w, err := scenario.ParseWorld(data)
	if err != nil {
		v.addError("%v", err)
		return
	}
	maps := make(map[string]string)
	for _, loc := range w.Locations {
		if loc.Width < 0 || loc.Height < 0 {
			v.addError("location %q has a negative size", loc.Name)
		}
		if loc.Map == "" {
			continue
		}
		if other, dup := maps[loc.Map]; dup {
			v.addError("locations %q and %q share map %q", other, loc.Name, loc.Map)
		}
		maps[loc.Map] = loc.Name
	}
}

func (v *Validator) addError(format string, args ...any) {
	v.errors = append(v.errors, "  - "+fmt.Sprintf(format, args...))
}
