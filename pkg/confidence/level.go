package confidence

// Level is a 5-tier verdict bucket for a fake-probability score.
// Levels are ordered from most likely authentic to most likely manipulated.
type Level int

const (
	LevelReal Level = iota
	LevelLikelyReal
	LevelUncertain
	LevelLikelyFake
	LevelDeepfake
)

// String returns the display name for the level.
func (l Level) String() string {
	switch l {
	case LevelReal:
		return "REAL"
	case LevelLikelyReal:
		return "LIKELY REAL"
	case LevelUncertain:
		return "UNCERTAIN"
	case LevelLikelyFake:
		return "LIKELY FAKE"
	case LevelDeepfake:
		return "DEEPFAKE"
	}
	return "UNKNOWN"
}

// Emoji returns the status emoji for the level.
func (l Level) Emoji() string {
	switch l {
	case LevelReal, LevelLikelyReal:
		return "🟢"
	case LevelUncertain:
		return "🟡"
	case LevelLikelyFake:
		return "🟠"
	case LevelDeepfake:
		return "🔴"
	}
	return "⚪"
}

// MarshalJSON encodes the level as its display name.
func (l Level) MarshalJSON() ([]byte, error) {
	return []byte(`"` + l.String() + `"`), nil
}
