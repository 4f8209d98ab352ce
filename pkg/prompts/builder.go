package prompts

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jwebster45206/hallway/pkg/emotion"
	"github.com/jwebster45206/hallway/pkg/npc"
	"github.com/jwebster45206/hallway/pkg/scenario"
	"github.com/jwebster45206/hallway/pkg/state"
)

const (
	defaultPlayerName  = "플레이어"
	playerEmotionState = "정상"
	timeLayout         = "2006-01-02 15:04"
)

// Builder gathers what a dialogue prompt needs using a fluent interface.
type Builder struct {
	template      string
	gs            *state.GameState
	world         *scenario.World
	profile       *npc.Profile
	npcName       string
	emotions      emotion.Vector
	playerMessage string
	historyLimit  int
	now           func() time.Time
}

// New creates a new prompt builder with the default template.
func New() *Builder {
	return &Builder{
		template:     DefaultDialogueTemplate,
		historyLimit: state.PromptHistoryLimit,
		now:          time.Now,
	}
}

// WithTemplate replaces the dialogue template. Empty keeps the current one.
func (b *Builder) WithTemplate(t string) *Builder {
	if t != "" {
		b.template = t
	}
	return b
}

// WithGameState supplies location, history and the selected NPC.
func (b *Builder) WithGameState(gs *state.GameState) *Builder {
	b.gs = gs
	if b.npcName == "" && gs != nil {
		b.npcName = gs.SelectedNPC
	}
	return b
}

func (b *Builder) WithWorld(w *scenario.World) *Builder {
	b.world = w
	return b
}

// WithProfile sets the speaking NPC's profile; its name wins over the
// selected NPC name.
func (b *Builder) WithProfile(p *npc.Profile) *Builder {
	b.profile = p
	if p != nil && p.Name != "" {
		b.npcName = p.Name
	}
	return b
}

func (b *Builder) WithEmotions(v emotion.Vector) *Builder {
	b.emotions = v
	return b
}

func (b *Builder) WithPlayerMessage(msg string) *Builder {
	b.playerMessage = msg
	return b
}

func (b *Builder) WithHistoryLimit(n int) *Builder {
	b.historyLimit = n
	return b
}

// WithClock fixes the time shown in the prompt (for testing).
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Data returns the template fields for the current inputs.
func (b *Builder) Data() map[string]string {
	location := ""
	npcCount := 0
	var history []string
	if b.gs != nil {
		location = b.gs.Location
		npcCount = len(b.gs.NPCsAt(location))
		history = b.gs.HistoryLines(b.historyLimit)
	}

	event := ""
	playerName := defaultPlayerName
	locationDescription := location
	if b.world != nil {
		event = b.world.Event
		if b.world.PlayerName != "" {
			playerName = b.world.PlayerName
		}
		if loc, ok := b.world.Location(location); ok && loc.Description != "" {
			locationDescription = fmt.Sprintf("%s: %s", location, loc.Description)
		}
	}

	score := emotion.RelationshipScore(b.emotions)

	return map[string]string{
		"npc_name":                   b.npcName,
		"current_emotions":           rawEmotions(b.emotions),
		"emotion_state":              EmotionState(b.emotions),
		"conversation_history_text":  strings.Join(history, "\n"),
		"current_location":           location,
		"location_description":       locationDescription,
		"current_time":               b.now().Format(timeLayout),
		"current_event":              event,
		"player_name":                playerName,
		"player_rel_emotional_state": playerEmotionState,
		"player_message":             b.playerMessage,
		"npc_count":                  strconv.Itoa(npcCount),
		"npc_info_sections":          PersonaSection(b.npcName, b.profile),
		"relationship_level":         emotion.RelationshipLevel(score),
	}
}

// Build renders the dialogue prompt.
func (b *Builder) Build() (string, error) {
	if b.npcName == "" {
		return "", fmt.Errorf("no NPC to speak for")
	}
	if strings.TrimSpace(b.playerMessage) == "" {
		return "", fmt.Errorf("player message cannot be empty")
	}
	return Render(b.template, b.Data()), nil
}

// EmotionState renders one "label: value%" line per emotion, sorted by name.
func EmotionState(v emotion.Vector) string {
	lines := make([]string, 0, len(v))
	for _, name := range v.Names() {
		lines = append(lines, fmt.Sprintf("- %s: %s%%", emotion.DisplayName(name), v[name]))
	}
	return strings.Join(lines, "\n")
}

// PersonaSection describes the NPC for the prompt.
func PersonaSection(name string, p *npc.Profile) string {
	if p == nil {
		return fmt.Sprintf("이름: %s\n", name)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "이름: %s\n", name)
	if rules := p.CoreInfo.Persona.PersonalityRules.String(); rules != "" {
		fmt.Fprintf(&sb, "성격: %s\n", rules)
	}
	if style := p.CoreInfo.Persona.SpeechStyle.String(); style != "" {
		fmt.Fprintf(&sb, "말투: %s\n", style)
	}
	return sb.String()
}

func rawEmotions(v emotion.Vector) string {
	parts := make([]string, 0, len(v))
	for _, name := range v.Names() {
		parts = append(parts, name+"="+v[name])
	}
	return strings.Join(parts, ", ")
}
