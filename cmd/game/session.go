package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jwebster45206/hallway/internal/game"
	"github.com/jwebster45206/hallway/pkg/emotion"
	"github.com/jwebster45206/hallway/pkg/npc"
	"github.com/jwebster45206/hallway/pkg/scenario"
	"github.com/jwebster45206/hallway/pkg/state"
	"github.com/jwebster45206/hallway/pkg/storage"
)

const barWidth = 10

var errUnknownCommand = errors.New("unknown command")

// session is the game loop's view of everything a command can touch. It is
// only used from the bubbletea update loop.
type session struct {
	world     *scenario.World
	gs        *state.GameState
	store     storage.Storage
	engine    *state.EmotionEngine
	registry  *npc.Registry
	turns     *game.TurnProcessor
	lifecycle *state.Lifecycle
	rng       scenario.IntRange
	logger    *slog.Logger

	maps      map[string]*scenario.MapConfig
	lastReply string
}

// mapFor returns the walkable map for a location, falling back to the
// default inset map when none was saved.
func (s *session) mapFor(ctx context.Context, loc scenario.Location) *scenario.MapConfig {
	if cfg, ok := s.maps[loc.Map]; ok {
		return cfg
	}
	w, h := loc.Size()
	cfg, err := s.store.GetMapConfig(ctx, loc.Map)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("Using default map", "map", loc.Map, "error", err)
		}
		cfg = scenario.DefaultMapConfig(loc.Map, w, h)
	}
	s.maps[loc.Map] = cfg
	return cfg
}

func (s *session) currentLocation() scenario.Location {
	loc, _ := s.world.Location(s.gs.Location)
	return loc
}

// enter puts the player at the current map's start position.
func (s *session) enter(ctx context.Context) {
	s.gs.PlayerPosition = s.mapFor(ctx, s.currentLocation()).StartPosition
}

// run executes a slash command and returns the text to show.
func (s *session) run(ctx context.Context, input string) (string, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return "", errUnknownCommand
	}
	arg := strings.TrimSpace(strings.TrimPrefix(input, fields[0]))

	switch strings.ToLower(fields[0]) {
	case "/help":
		return helpText, nil
	case "/go":
		return s.goTo(ctx, arg)
	case "/talk":
		return s.talk(arg)
	case "/look":
		return s.look(ctx), nil
	case "/emotions":
		return s.emotions(ctx)
	case "/move":
		return s.move(ctx, arg)
	default:
		return "", fmt.Errorf("%w: %s", errUnknownCommand, fields[0])
	}
}

func (s *session) goTo(ctx context.Context, location string) (string, error) {
	if location == "" {
		return "", fmt.Errorf("갈 곳을 입력하세요: %s", strings.Join(s.world.LocationNames(), ", "))
	}
	if location == s.gs.Location {
		return fmt.Sprintf("이미 %s에 있습니다.", location), nil
	}
	if err := s.gs.MoveTo(location); err != nil {
		return "", err
	}
	s.enter(ctx)
	s.logger.Info("Player moved", "location", location)
	return s.look(ctx), nil
}

func (s *session) talk(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("대화할 상대를 입력하세요")
	}
	if err := s.gs.SelectNPC(name); err != nil {
		return "", err
	}
	s.logger.Info("NPC selected", "npc_id", s.registry.ID(name))
	return fmt.Sprintf("%s에게 말을 겁니다.", name), nil
}

func (s *session) look(ctx context.Context) string {
	loc := s.currentLocation()
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s\n", loc.Name, loc.Description)

	names := s.gs.NPCsAt(loc.Name)
	if len(names) == 0 {
		sb.WriteString("아무도 없습니다.\n")
	} else {
		w, h := loc.Size()
		placed := s.mapFor(ctx, loc).PlaceNPCs(names, w, h, s.rng)
		for _, name := range names {
			if p, ok := placed[name]; ok {
				fmt.Fprintf(&sb, "- %s (%d, %d)\n", name, p.X, p.Y)
			} else {
				fmt.Fprintf(&sb, "- %s\n", name)
			}
		}
	}
	fmt.Fprintf(&sb, "현재 위치: (%d, %d)", s.gs.PlayerPosition.X, s.gs.PlayerPosition.Y)
	return sb.String()
}

func (s *session) emotions(ctx context.Context) (string, error) {
	if s.gs.SelectedNPC == "" {
		return "", game.ErrNoNPCSelected
	}
	id := s.registry.ID(s.gs.SelectedNPC)
	v := s.engine.Current(ctx, id)
	score, level := s.engine.Relationship(ctx, id)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s의 감정 (관계: %s, %.1f)\n", s.gs.SelectedNPC, level, score)
	for _, line := range emotionBars(v) {
		sb.WriteString(line + "\n")
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

var directions = map[string][2]int{
	"up":    {0, -scenario.MoveStep},
	"down":  {0, scenario.MoveStep},
	"left":  {-scenario.MoveStep, 0},
	"right": {scenario.MoveStep, 0},
}

func (s *session) move(ctx context.Context, dir string) (string, error) {
	delta, ok := directions[strings.ToLower(dir)]
	if !ok {
		return "", fmt.Errorf("방향은 up, down, left, right 중 하나입니다")
	}
	loc := s.currentLocation()
	w, h := loc.Size()
	from := s.gs.PlayerPosition
	to := s.mapFor(ctx, loc).Move(from, delta[0], delta[1], w, h)
	s.gs.PlayerPosition = to
	if to == from {
		return "더 이상 갈 수 없습니다.", nil
	}
	return fmt.Sprintf("현재 위치: (%d, %d)", to.X, to.Y), nil
}

// emotionBars renders one labelled bar per numeric emotion, sorted by name.
func emotionBars(v emotion.Vector) []string {
	lines := make([]string, 0, len(v))
	for _, name := range v.Names() {
		value, err := v.Float(name)
		if err != nil {
			lines = append(lines, fmt.Sprintf("%s  %s", emotion.DisplayName(name), v[name]))
			continue
		}
		filled := min(max(int(value/emotion.MaxValue*barWidth+0.5), 0), barWidth)
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		lines = append(lines, fmt.Sprintf("%s %s %s", bar, emotion.DisplayName(name), emotion.FormatValue(value)))
	}
	return lines
}

const helpText = `명령어:
• /go <장소> - 장소 이동
• /talk <이름> - 대화 상대 선택
• /look - 주변 살펴보기
• /emotions - 상대의 감정 보기
• /move <up|down|left|right> - 맵 안에서 이동
• /copy - 마지막 대답 복사
• /help - 도움말
• Ctrl+C - 종료`
