package emotion

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// KeywordEntry lists the trigger words for one emotion.
type KeywordEntry struct {
	Emotion string
	Words   []string
}

// Lexicon is the word list the analyzer scans for. Keywords are evaluated
// in slice order so a fixed random source yields a fixed result.
type Lexicon struct {
	Keywords     []KeywordEntry
	Positive     []string
	Negative     []string
	Intensifiers []string
}

// DefaultLexicon returns the Korean keyword table.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Keywords: []KeywordEntry{
			{"trust", []string{"신뢰", "믿음", "의지"}},
			{"intimacy", []string{"친밀", "가까움", "친근"}},
			{"respect", []string{"존경", "존중", "인정"}},
			{"bond", []string{"유대", "연결", "공감"}},
			{"cooperation", []string{"협력", "협동", "도움"}},
			{"rivalry", []string{"경쟁", "대립", "견제"}},
			{"fellowship", []string{"동료애", "우정", "친구"}},
			{"mentoring", []string{"가르침", "지도", "조언"}},
			{"hostility", []string{"적대", "미움", "반감"}},
			{"betrayal", []string{"배신", "실망", "배반"}},
			{"resentment", []string{"분노", "화남", "격분"}},
			{"distrust", []string{"불신", "의심", "불안"}},
			{"envy", []string{"질투", "시기", "부러움"}},
			{"guilt", []string{"죄책감", "후회", "미안"}},
			{"admiration", []string{"감탄", "존경", "동경"}},
			{"loyalty", []string{"충성", "헌신", "충실"}},
			{"fear", []string{"두려움", "공포", "무서움"}},
			{"avoidance", []string{"회피", "도망", "기피"}},
			{"rejection", []string{"거절", "거부", "외면"}},
			{"curiosity", []string{"호기심", "궁금", "관심"}},
			{"confusion", []string{"혼란", "혼돈", "당황"}},
			{"annoyance", []string{"짜증", "불만", "성가심"}},
			{"wariness", []string{"경계", "조심", "주의"}},
			{"bewilderment", []string{"당황", "혼란", "놀람"}},
		},
		Positive:     []string{"좋아", "긍정", "기쁘", "행복", "만족", "즐거움", "감사"},
		Negative:     []string{"나쁘", "부정", "슬프", "화나", "실망", "불만", "싫어"},
		Intensifiers: []string{"매우", "정말", "너무", "굉장히"},
	}
}

// normalized returns a copy with every word folded the same way as the
// scan buffer.
func (l Lexicon) normalized() Lexicon {
	out := Lexicon{
		Keywords:     make([]KeywordEntry, len(l.Keywords)),
		Positive:     normalizeAll(l.Positive),
		Negative:     normalizeAll(l.Negative),
		Intensifiers: normalizeAll(l.Intensifiers),
	}
	for i, entry := range l.Keywords {
		out.Keywords[i] = KeywordEntry{Emotion: entry.Emotion, Words: normalizeAll(entry.Words)}
	}
	return out
}

func normalizeAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = fold(w)
	}
	return out
}

// fold lower-cases text in NFC form. A fresh Caser is used per call since
// Casers keep state.
func fold(s string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(s))
}
