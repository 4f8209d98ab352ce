package scenario

import (
	"testing"

	"github.com/jwebster45206/hallway/pkg/npc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWorld_IsValid(t *testing.T) {
	w := DefaultWorld()
	require.NoError(t, w.Validate())

	assert.Equal(t, []string{"복도", "운동장", "과학실", "도서관"}, w.LocationNames())
	reg, err := w.Registry()
	require.NoError(t, err)
	assert.Equal(t, npc.ID(5), reg.ID("박하린"))
}

func TestParseWorld(t *testing.T) {
	doc := `
title: Test School
event: 정전
player_name: 민수
locations:
  - name: 교실
    image: images/class.png
    width: 640
    height: 480
  - name: 옥상
roster:
  철수: 1
  영희: 2
`
	w, err := ParseWorld([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "교실", w.StartLocation, "start defaults to the first location")
	loc, ok := w.Location("교실")
	require.True(t, ok)
	width, height := loc.Size()
	assert.Equal(t, 640, width)
	assert.Equal(t, 480, height)

	roof, _ := w.Location("옥상")
	width, height = roof.Size()
	assert.Equal(t, DefaultMapWidth, width)
	assert.Equal(t, DefaultMapHeight, height)
	assert.Equal(t, npc.ID(2), w.Roster["영희"])
}

func TestParseWorld_Invalid(t *testing.T) {
	tests := map[string]string{
		"no locations":       "roster: {a: 1}",
		"duplicate location": "locations: [{name: a}, {name: a}]\nroster: {x: 1}",
		"unknown start":      "start_location: b\nlocations: [{name: a}]\nroster: {x: 1}",
		"empty roster":       "locations: [{name: a}]",
		"duplicate npc id":   "locations: [{name: a}]\nroster: {x: 1, y: 1}",
		"not yaml":           "locations: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseWorld([]byte(doc))
			assert.Error(t, err)
		})
	}
}
