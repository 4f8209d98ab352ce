package npc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jwebster45206/hallway/pkg/emotion"
)

// Profile is the designer-authored record for an NPC. It is read-only at
// runtime; its emotional stats are the baseline that seeds and resets the
// NPC's live emotions.
type Profile struct {
	ID                  ID              `json:"-"`
	Name                string          `json:"name"`
	CoreInfo            CoreInfo        `json:"core_info"`
	ImagePromptTemplate json.RawMessage `json:"image_prompt_template"`
	Psychology          Psychology      `json:"psychology"`
}

type CoreInfo struct {
	Persona Persona `json:"persona"`
}

type Persona struct {
	PersonalityRules Text `json:"personality_rules"`
	SpeechStyle      Text `json:"speech_style"`
}

type Psychology struct {
	MentalHealth   emotion.Vector `json:"mental_health"`
	EmotionalStats emotion.Vector `json:"emotional_stats"`
}

// Baseline returns a copy of the NPC's starting emotions.
func (p *Profile) Baseline() emotion.Vector {
	if p == nil {
		return nil
	}
	return p.Psychology.EmotionalStats.Clone()
}

// Text is persona prose. Authors write it as a string or a list of lines;
// anything else is kept as compact JSON.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err == nil {
		*t = Text(strings.Join(lines, "\n"))
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	*t = Text(buf.String())
	return nil
}

func (t Text) String() string {
	return string(t)
}

// requiredPaths lists the keys every profile must carry.
var requiredPaths = [][]string{
	{"name"},
	{"core_info", "persona", "personality_rules"},
	{"core_info", "persona", "speech_style"},
	{"psychology", "mental_health"},
	{"psychology", "emotional_stats"},
	{"image_prompt_template"},
}

// ValidationError reports a profile that is missing required structure.
type ValidationError struct {
	Name   string
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	name := e.Name
	if name == "" {
		name = "Unknown"
	}
	return fmt.Sprintf("invalid NPC profile %s: %s %s", name, e.Path, e.Reason)
}

// ParseProfile decodes and validates a profile document.
func ParseProfile(data []byte) (*Profile, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse NPC profile: %w", err)
	}
	if raw == nil {
		return nil, &ValidationError{Path: "profile", Reason: "is empty"}
	}

	name, _ := raw["name"].(string)
	for _, path := range requiredPaths {
		if err := checkPath(raw, path); err != nil {
			err.Name = name
			return nil, err
		}
	}
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Path: "name", Reason: "must be a non-empty string"}
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &ValidationError{Name: name, Path: "profile", Reason: err.Error()}
	}
	return &p, nil
}

func checkPath(doc map[string]any, path []string) *ValidationError {
	current := doc
	for i, key := range path {
		value, ok := current[key]
		if !ok || value == nil {
			return &ValidationError{Path: strings.Join(path[:i+1], "."), Reason: "is missing"}
		}
		if i == len(path)-1 {
			return nil
		}
		next, ok := value.(map[string]any)
		if !ok {
			return &ValidationError{Path: strings.Join(path[:i+1], "."), Reason: "is not an object"}
		}
		current = next
	}
	return nil
}
