package prompts

import (
	"fmt"
	"os"
	"regexp"
)

// DefaultDialogueTemplate asks the model to answer in character using three
// labelled parts. Placeholders are {field} names from Builder.Data.
const DefaultDialogueTemplate = `당신은 {npc_name}입니다. 아래 설정과 상황에 맞게 캐릭터로서만 응답하세요.

## 캐릭터 정보
{npc_info_sections}
## 현재 상황
- 장소: {current_location}
- 시간: {current_time}
- 사건: {current_event}
- 이 장소에 있는 학생 수: {npc_count}

## {npc_name}의 현재 감정 상태
{emotion_state}
- 플레이어와의 관계: {relationship_level}

## 최근 대화 내역
{conversation_history_text}

## {player_name}의 말
"{player_message}"

## 응답 형식
아래 형식을 정확히 지켜 작성하세요:

대사: ({npc_name}가 말하는 내용, 두 문장 이내)
행동: ({npc_name}의 간단한 행동 묘사, 한 문장)
속마음: ({npc_name}의 내면 생각, 한 문장)

주의사항:
1. 현재 감정 상태를 반영하여 응답하세요.
2. 응답은 간결하고 자연스러운 대화체로 작성하세요.
3. 설정에 없는 사실을 지어내지 마세요.
`

var placeholder = regexp.MustCompile(`\{([^{}\s]+)\}`)

// Render fills {field} placeholders from data. Fields with no value render
// as empty text; anything that is not a placeholder is left alone.
func Render(template string, data map[string]string) string {
	return placeholder.ReplaceAllStringFunc(template, func(m string) string {
		return data[m[1:len(m)-1]]
	})
}

// Fields lists the placeholder names used by a template, in order of first use.
func Fields(template string) []string {
	seen := make(map[string]bool)
	var fields []string
	for _, m := range placeholder.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			fields = append(fields, m[1])
		}
	}
	return fields
}

// LoadTemplate reads a dialogue template from path, or returns the default
// template when path is empty.
func LoadTemplate(path string) (string, error) {
	if path == "" {
		return DefaultDialogueTemplate, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read dialogue template: %w", err)
	}
	return string(data), nil
}
