package emotion

const neutralRelationship = 50.0

const (
	LevelDistant  = "Distant"
	LevelNeutral  = "Neutral"
	LevelFriendly = "Friendly"
	LevelClose    = "Close"
	LevelIntimate = "Intimate"
)

var (
	positiveGroup = []string{Trust, Intimacy, Respect}
	negativeGroup = []string{Hostility, Annoyance}
)

// RelationshipScore reduces a vector to one 0-100 value: the mean of the
// positive group (missing = 50) minus the mean of the negative group
// (missing = 0). An empty vector scores 50.
func RelationshipScore(v Vector) float64 {
	if len(v) == 0 {
		return neutralRelationship
	}
	positive := groupMean(v, positiveGroup, 50)
	negative := groupMean(v, negativeGroup, 0)
	return Clamp(positive-negative, MinValue, MaxValue)
}

// RelationshipLevel names the band a score falls in.
func RelationshipLevel(score float64) string {
	switch {
	case score >= 80:
		return LevelIntimate
	case score >= 60:
		return LevelClose
	case score >= 40:
		return LevelFriendly
	case score >= 20:
		return LevelNeutral
	default:
		return LevelDistant
	}
}

func groupMean(v Vector, names []string, fallback float64) float64 {
	total := 0.0
	for _, name := range names {
		value, err := v.Float(name)
		if err != nil {
			value = fallback
		}
		total += value
	}
	return total / float64(len(names))
}
