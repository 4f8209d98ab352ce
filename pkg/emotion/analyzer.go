package emotion

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
)

const (
	// SignificanceThreshold is the smallest change that is applied or reported.
	SignificanceThreshold = 0.5
	// MaxTurnChange bounds the change a single turn can make to one emotion.
	MaxTurnChange = 10.0

	intenseMultiplier = 2.0
	minDraw           = 2.0
	maxDraw           = 5.0
	neutralSpread     = 2.0
)

// RandomSource yields values in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// Turn is the text of one conversational exchange.
type Turn struct {
	PlayerMessage string
	Reply         string
	InnerThought  string
}

type polarity int

const (
	neutralContext polarity = iota
	positiveContext
	negativeContext
)

// Analyzer turns conversation text into bounded, randomized emotion drift.
type Analyzer struct {
	mu      sync.Mutex
	lexicon Lexicon
	rng     RandomSource
	logger  *slog.Logger
}

type Option func(*Analyzer)

// WithRandom replaces the random source, e.g. with a seeded generator.
func WithRandom(r RandomSource) Option {
	return func(a *Analyzer) {
		if r != nil {
			a.rng = r
		}
	}
}

// WithSeed makes the analyzer reproducible.
func WithSeed(seed uint64) Option {
	return WithRandom(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// WithLexicon replaces the keyword table.
func WithLexicon(l Lexicon) Option {
	return func(a *Analyzer) {
		a.lexicon = l.normalized()
	}
}

func NewAnalyzer(logger *slog.Logger, opts ...Option) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	now := uint64(time.Now().UnixNano())
	a := &Analyzer{
		lexicon: DefaultLexicon().normalized(),
		rng:     rand.New(rand.NewPCG(now, now>>1)),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze scores a turn against the current vector. It returns the updated
// vector and the emotions that changed. current is not modified.
func (a *Analyzer) Analyze(current Vector, turn Turn) (Vector, ChangeSet) {
	a.mu.Lock()
	defer a.mu.Unlock()

	updated := current.Clone()
	if updated == nil {
		updated = Vector{}
	}
	changes := make(ChangeSet)

	text := fold(strings.Join([]string{turn.PlayerMessage, turn.Reply, turn.InnerThought}, " "))
	sentiment := a.polarity(text)
	intensity := 1.0
	if containsAny(text, a.lexicon.Intensifiers) {
		intensity = intenseMultiplier
	}

	for _, entry := range a.lexicon.Keywords {
		if _, ok := updated[entry.Emotion]; !ok {
			continue
		}
		currentValue, err := updated.Float(entry.Emotion)
		if err != nil {
			a.logger.Warn("Skipping emotion with non-numeric value",
				"emotion", entry.Emotion,
				"value", updated[entry.Emotion],
				"error", err)
			continue
		}

		change := 0.0
		for _, word := range entry.Words {
			if !strings.Contains(text, word) {
				continue
			}
			switch sentiment {
			case positiveContext:
				change += a.uniform(minDraw, maxDraw) * intensity
			case negativeContext:
				change -= a.uniform(minDraw, maxDraw) * intensity
			default:
				change += a.uniform(-neutralSpread, neutralSpread) * intensity
			}
		}

		if math.Abs(change) <= SignificanceThreshold {
			continue
		}
		change = Clamp(change, -MaxTurnChange, MaxTurnChange)

		// Set rounds to one decimal when storing.
		newValue := Clamp(currentValue+change, MinValue, MaxValue)
		if math.Abs(newValue-currentValue) <= SignificanceThreshold {
			continue
		}
		changes[entry.Emotion] = Change{Old: currentValue, New: newValue}
		updated.Set(entry.Emotion, newValue)
	}

	return updated, changes
}

func (a *Analyzer) polarity(text string) polarity {
	switch {
	case containsAny(text, a.lexicon.Positive):
		return positiveContext
	case containsAny(text, a.lexicon.Negative):
		return negativeContext
	default:
		return neutralContext
	}
}

func (a *Analyzer) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*a.rng.Float64()
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if w != "" && strings.Contains(text, w) {
			return true
		}
	}
	return false
}
