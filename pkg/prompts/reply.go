package prompts

import (
	"encoding/json"
	"strings"
)

const (
	LabelSpeech       = "대사"
	LabelAction       = "행동"
	LabelInnerThought = "속마음"
	labelTone         = "어투"
)

// labels that can open a section. 어투 (tone) is recognized only to end
// the section before it.
var labels = []string{LabelInnerThought, LabelSpeech, LabelAction, labelTone}

var labelAliases = map[string][]string{
	LabelSpeech:       {LabelSpeech, "speech", "dialogue"},
	LabelAction:       {LabelAction, "action"},
	LabelInnerThought: {LabelInnerThought, "inner_thought", "thought"},
}

// Reply is an NPC response split into its labelled parts.
type Reply struct {
	Speech       string `json:"speech"`
	Action       string `json:"action,omitempty"`
	InnerThought string `json:"inner_thought,omitempty"`
}

// Valid reports whether the reply has something to say.
func (r Reply) Valid() bool {
	return r.Speech != ""
}

// Display renders the reply for the conversation log.
func (r Reply) Display(npcName string) string {
	speech := r.Speech
	if speech == "" {
		speech = "..."
	}
	out := npcName + ": " + speech
	if r.Action != "" {
		out += "\n[" + r.Action + "]"
	}
	if r.InnerThought != "" {
		out += "\n(속마음: " + r.InnerThought + ")"
	}
	return out
}

// ParseReply extracts speech, action and inner thought from model output.
// A JSON object keyed by the labels is tried first; otherwise the text is
// scanned for labelled sections such as "대사: ...", "## 행동", "속마음 - ..."
// or a bare label line followed by its content.
func ParseReply(text string) Reply {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}
	}
	if r, ok := parseJSONReply(text); ok {
		return r
	}
	return parseSections(text)
}

func parseJSONReply(text string) (Reply, bool) {
	body := stripCodeFence(text)
	if !strings.HasPrefix(body, "{") {
		return Reply{}, false
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return Reply{}, false
	}
	pick := func(label string) string {
		for _, key := range labelAliases[label] {
			if s, ok := doc[key].(string); ok {
				return strings.TrimSpace(s)
			}
		}
		return ""
	}
	r := Reply{
		Speech:       pick(LabelSpeech),
		Action:       pick(LabelAction),
		InnerThought: pick(LabelInnerThought),
	}
	if r == (Reply{}) {
		return Reply{}, false
	}
	return r, true
}

func parseSections(text string) Reply {
	sections := make(map[string][]string)
	current := ""
	for _, line := range strings.Split(text, "\n") {
		if label, rest, ok := labelLine(line); ok {
			current = label
			if _, seen := sections[label]; seen {
				// Keep the first occurrence; ignore repeats.
				current = ""
				continue
			}
			sections[label] = nil
			if rest != "" {
				sections[label] = append(sections[label], rest)
			}
			continue
		}
		if current != "" {
			sections[current] = append(sections[current], line)
		}
	}

	get := func(label string) string {
		return cleanContent(strings.Join(sections[label], "\n"))
	}
	return Reply{
		Speech:       get(LabelSpeech),
		Action:       get(LabelAction),
		InnerThought: get(LabelInnerThought),
	}
}

// labelLine reports whether line opens a labelled section, returning the
// label and any content on the same line.
func labelLine(line string) (string, string, bool) {
	s := strings.TrimSpace(line)
	s = strings.TrimLeft(s, "#")
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "*-• ")
	s = strings.TrimPrefix(s, `"`)

	for _, label := range labels {
		if !strings.HasPrefix(s, label) {
			continue
		}
		rest := strings.TrimPrefix(s, label)
		rest = strings.TrimPrefix(rest, "**")
		rest = strings.TrimPrefix(rest, `"`)
		rest = strings.TrimPrefix(rest, "**")
		rest = strings.TrimLeft(rest, " \t")
		if rest == "" {
			return label, "", true
		}
		for _, sep := range []string{":", "：", "-", "–", "—", ">"} {
			if strings.HasPrefix(rest, sep) {
				return label, strings.TrimSpace(strings.TrimPrefix(rest, sep)), true
			}
		}
		return "", "", false
	}
	return "", "", false
}

func cleanContent(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ",")
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	body := strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	}
	body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	return strings.TrimSpace(body)
}
