package score

import "fmt"

// SimpleScore is a score with a single soft level. It is feasible
// unconditionally, since it carries no hard level.
type SimpleScore struct {
	Soft int64
}

// Simple constructs a SimpleScore.
func Simple(soft int64) SimpleScore { return SimpleScore{Soft: soft} }

func (s SimpleScore) Kind() string { return "Simple" }

func (s SimpleScore) String() string { return fmt.Sprintf("%dsoft", s.Soft) }

func (s SimpleScore) IsFeasible() bool { return true }

func (s SimpleScore) Add(other Score) Score {
	o := mustSimple(other)
	return SimpleScore{Soft: s.Soft + o.Soft}
}

func (s SimpleScore) Negate() Score {
	return SimpleScore{Soft: -s.Soft}
}

func (s SimpleScore) MultiplyBy(factor float64) Score {
	return SimpleScore{Soft: truncateToward0(float64(s.Soft) * factor)}
}

func (s SimpleScore) CompareTo(other Score) int {
	o := mustSimple(other)
	return compareInt64(s.Soft, o.Soft)
}

func mustSimple(s Score) SimpleScore {
	v, ok := s.(SimpleScore)
	if !ok {
		panic(fmt.Sprintf("score: expected SimpleScore, got %s", s.Kind()))
	}
	return v
}

// ParseSimple parses the canonical "Nsoft" form.
func ParseSimple(text string) (SimpleScore, error) {
	n, rest, err := parseSignedLevel(text, "soft")
	if err != nil {
		return SimpleScore{}, err
	}
	if rest != "" {
		return SimpleScore{}, parseErrorf(text, "unexpected trailing text %q", rest)
	}
	return SimpleScore{Soft: n}, nil
}
