package emotion

import "sort"

// displayNames holds the Korean label shown for each emotion in the vocabulary.
var displayNames = map[string]string{
	"trust":          "신뢰",
	"intimacy":       "친밀감",
	"respect":        "존경",
	"bond":           "유대감",
	"cooperation":    "협력",
	"rivalry":        "경쟁심",
	"fellowship":     "동료애",
	"mentoring":      "멘토링",
	"hostility":      "적대감",
	"betrayal":       "배신감",
	"resentment":     "원한",
	"distrust":       "불신",
	"envy":           "질투",
	"guilt":          "죄책감",
	"admiration":     "감탄",
	"loyalty":        "충성심",
	"authority":      "권위",
	"leadership":     "리더십",
	"love":           "사랑",
	"romantic":       "로맨틱",
	"passion":        "열정",
	"possessiveness": "소유욕",
	"protective":     "보호",
	"dependency":     "의존성",
	"responsibility": "책임감",
	"devotion":       "헌신",
	"fear":           "공포",
	"avoidance":      "회피",
	"rejection":      "거부",
	"inferiority":    "열등감",
	"intimidation":   "위협",
	"superiority":    "우월감",
	"familiarity":    "친숙함",
	"curiosity":      "호기심",
	"confusion":      "혼란",
	"annoyance":      "짜증",
	"awkwardness":    "어색함",
	"discomfort":     "불편함",
	"wariness":       "경계심",
	"bewilderment":   "당황",
}

// DisplayName returns the label for an emotion, or the name itself when
// it is outside the vocabulary.
func DisplayName(name string) string {
	if label, ok := displayNames[name]; ok {
		return label
	}
	return name
}

// Vocabulary returns every known emotion name, sorted.
func Vocabulary() []string {
	names := make([]string, 0, len(displayNames))
	for name := range displayNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Known reports whether name belongs to the vocabulary.
func Known(name string) bool {
	_, ok := displayNames[name]
	return ok
}
