package main

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/hallway/internal/game"
	"github.com/jwebster45206/hallway/internal/services"
	"github.com/jwebster45206/hallway/pkg/emotion"
	"github.com/jwebster45206/hallway/pkg/scenario"
	"github.com/jwebster45206/hallway/pkg/state"
	"github.com/jwebster45206/hallway/pkg/storage"
)

func newTestSession(t *testing.T) (*session, *storage.MockStorage) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	world := scenario.DefaultWorld()
	registry, err := world.Registry()
	require.NoError(t, err)

	mock := storage.NewMockStorage()
	emotionStore := state.NewEmotionStore(mock, log)
	engine := state.NewEmotionEngine(emotionStore, emotion.NewAnalyzer(log, emotion.WithSeed(1)), log)
	lifecycle := state.NewLifecycle(emotionStore, registry.IDs(), state.ProfileBaselines(nil), log)
	require.NoError(t, lifecycle.Start(ctx))

	gs := state.NewGameState(world)
	gs.NPCsByLocation["복도"] = []string{"강현준"}
	gs.NPCsByLocation["도서관"] = []string{"유지은", "임지수"}

	sess := newSession(world, gs, mock, engine, registry, lifecycle, rand.New(rand.NewPCG(1, 2)), log)
	sess.turns = game.NewTurnProcessor(services.NewMockLLMAPI(), engine, world, registry, nil, log)
	sess.enter(ctx)
	return sess, mock
}

func TestSession_Go(t *testing.T) {
	sess, _ := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, sess.gs.SelectNPC("강현준"))

	out, err := sess.run(ctx, "/go 도서관")
	require.NoError(t, err)
	assert.Equal(t, "도서관", sess.gs.Location)
	assert.Empty(t, sess.gs.SelectedNPC, "moving ends the conversation")
	assert.Contains(t, out, "유지은")
	assert.Contains(t, out, "임지수")
	assert.Equal(t, scenario.Point{X: 100, Y: 100}, sess.gs.PlayerPosition)

	_, err = sess.run(ctx, "/go 옥상")
	assert.ErrorIs(t, err, state.ErrUnknownLocation)

	_, err = sess.run(ctx, "/go")
	assert.Error(t, err)
}

func TestSession_Talk(t *testing.T) {
	sess, _ := newTestSession(t)
	ctx := context.Background()

	_, err := sess.run(ctx, "/talk 유지은")
	assert.ErrorIs(t, err, state.ErrNPCNotHere)

	out, err := sess.run(ctx, "/talk 강현준")
	require.NoError(t, err)
	assert.Contains(t, out, "강현준")
	assert.Equal(t, "강현준", sess.gs.SelectedNPC)
}

func TestSession_Emotions(t *testing.T) {
	sess, _ := newTestSession(t)
	ctx := context.Background()

	_, err := sess.run(ctx, "/emotions")
	assert.ErrorIs(t, err, game.ErrNoNPCSelected)

	require.NoError(t, sess.gs.SelectNPC("강현준"))
	out, err := sess.run(ctx, "/emotions")
	require.NoError(t, err)
	assert.Contains(t, out, "신뢰")
	assert.Contains(t, out, emotion.LevelDistant)
	assert.Len(t, strings.Split(out, "\n"), 1+len(emotion.DefaultVector()))
}

func TestSession_Move(t *testing.T) {
	sess, mock := newTestSession(t)
	ctx := context.Background()

	cfg := &scenario.MapConfig{MapName: "corridor", StartPosition: scenario.Point{X: 100, Y: 100}}
	_, err := cfg.AddArea(90, 90, 105, 200)
	require.NoError(t, err)
	require.NoError(t, mock.SaveMapConfig(ctx, cfg))
	sess.maps = map[string]*scenario.MapConfig{}
	sess.enter(ctx)

	out, err := sess.run(ctx, "/move down")
	require.NoError(t, err)
	assert.Contains(t, out, "(100, 110)")

	out, err = sess.run(ctx, "/move right")
	require.NoError(t, err)
	assert.Contains(t, out, "더 이상")
	assert.Equal(t, scenario.Point{X: 100, Y: 110}, sess.gs.PlayerPosition)

	_, err = sess.run(ctx, "/move sideways")
	assert.Error(t, err)
}

func TestSession_LookEmptyRoom(t *testing.T) {
	sess, _ := newTestSession(t)
	_, err := sess.run(context.Background(), "/go 운동장")
	require.NoError(t, err)

	out, err := sess.run(context.Background(), "/look")
	require.NoError(t, err)
	assert.Contains(t, out, "아무도 없습니다")
}

func TestSession_UnknownCommand(t *testing.T) {
	sess, _ := newTestSession(t)
	_, err := sess.run(context.Background(), "/dance")
	assert.ErrorIs(t, err, errUnknownCommand)

	out, err := sess.run(context.Background(), "/HELP")
	require.NoError(t, err)
	assert.Equal(t, helpText, out)
}

func TestEmotionBars(t *testing.T) {
	lines := emotionBars(emotion.Vector{"trust": "75", "fear": "0", "note": "high", "hostility": "150"})
	require.Len(t, lines, 4)
	assert.Equal(t, "░░░░░░░░░░ 공포 0", lines[0])
	assert.Equal(t, "██████████ 적대감 100", lines[1])
	assert.Equal(t, "note  high", lines[2])
	assert.Equal(t, "████████░░ 신뢰 75", lines[3])
}
