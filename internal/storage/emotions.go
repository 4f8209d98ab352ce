package storage

import (
	"encoding/json"
	"fmt"

	"github.com/jwebster45206/hallway/pkg/emotion"
	"github.com/jwebster45206/hallway/pkg/npc"
	"github.com/jwebster45206/hallway/pkg/storage"
)

// encodeEmotions renders the on-disk form: a JSON object with 2-space indent.
func encodeEmotions(v emotion.Vector) ([]byte, error) {
	if v == nil {
		v = emotion.Vector{}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal emotions: %w", err)
	}
	return data, nil
}

func decodeEmotions(id npc.ID, data []byte) (emotion.Vector, error) {
	v, err := emotion.ParseVector(data)
	if err != nil {
		return nil, fmt.Errorf("emotions for npc %d: %w: %w", id, storage.ErrCorrupt, err)
	}
	return v, nil
}
