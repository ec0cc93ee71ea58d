package score

import "strings"

// Kind enumerates the score kinds a SolutionDescriptor may declare.
type Kind string

const (
	KindSimple         Kind = "Simple"
	KindHardSoft       Kind = "HardSoft"
	KindHardMediumSoft Kind = "HardMediumSoft"
	KindBendable       Kind = "Bendable"
	KindHardSoftDecimal Kind = "HardSoftDecimal"
)

// Zero returns the identity element for kind: Add(Zero(k)) is a
// no-op, and Zero(k) is feasible. For KindBendable it returns a
// BendableScore with no levels; adding it to a BendableScore that has
// levels panics on the shape mismatch.
func Zero(kind Kind) Score {
	switch kind {
	case KindSimple:
		return SimpleScore{}
	case KindHardSoft:
		return HardSoftScore{}
	case KindHardMediumSoft:
		return HardMediumSoftScore{}
	case KindBendable:
		return BendableScore{}
	case KindHardSoftDecimal:
		return HardSoftDecimalScore{}
	default:
		panic("score: unknown kind " + string(kind))
	}
}

// Parse dispatches to the parser for kind, implementing the
// canonical textual forms of spec.md §6: "Nsoft" (Simple),
// "Nhard/Msoft", "Nhard/Mmedium/Ksoft",
// "[h0,h1,...]hard/[s0,s1,...]soft" (Bendable).
func Parse(kind Kind, text string) (Score, error) {
	switch kind {
	case KindSimple:
		s, err := ParseSimple(text)
		return s, err
	case KindHardSoft:
		s, err := ParseHardSoft(text)
		return s, err
	case KindHardMediumSoft:
		s, err := ParseHardMediumSoft(text)
		return s, err
	case KindBendable:
		s, err := ParseBendable(text)
		return s, err
	case KindHardSoftDecimal:
		s, err := ParseHardSoftDecimal(text)
		return s, err
	default:
		return nil, parseErrorf(text, "unknown score kind %q", kind)
	}
}

// ParseAuto infers the kind from the textual shape: a single "Nsoft"
// suffix is Simple; a bracketed "[...]hard/[...]soft" is Bendable;
// two slash-separated levels is HardSoft (or HardSoftDecimal if
// either level contains a '.'); three is HardMediumSoft.
func ParseAuto(text string) (Score, error) {
	if strings.HasPrefix(text, "[") {
		return ParseBendable(text)
	}
	parts := splitLevels(text)
	switch len(parts) {
	case 1:
		return ParseSimple(text)
	case 2:
		if strings.ContainsAny(text, ".") {
			return ParseHardSoftDecimal(text)
		}
		return ParseHardSoft(text)
	case 3:
		return ParseHardMediumSoft(text)
	default:
		return nil, parseErrorf(text, "cannot infer score kind from %d levels", len(parts))
	}
}
