package score

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// DecimalScale is the fixed fractional precision (number of digits
// after the decimal point) used by every DecimalLevel in this
// package. The spec leaves the rounding mode for scalar
// multiplication of decimal scores unspecified (spec.md §9 "Open
// question — decimal-score rounding"); this repo resolves it to
// half-to-even (banker's rounding), the IEEE-754-style default, via
// math/big.Float and the roundHalfToEven helper below. No decimal library appears
// anywhere in the retrieval pack, so this one concern is necessarily
// stdlib-only (see DESIGN.md).
const DecimalScale = 6

var decimalScaleFactor = new(big.Float).SetInt64(1_000_000)

// DecimalLevel is a fixed-point decimal value stored as an integer
// number of DecimalScale-th units.
type DecimalLevel int64

// NewDecimalLevel builds a DecimalLevel from a float64, rounding
// half-to-even to DecimalScale digits.
func NewDecimalLevel(v float64) DecimalLevel {
	f := new(big.Float).SetPrec(64).SetFloat64(v)
	f.Mul(f, decimalScaleFactor)
	scaled := roundHalfToEven(f).Int64()
	return DecimalLevel(scaled)
}

func (d DecimalLevel) float() *big.Float {
	f := new(big.Float).SetPrec(64).SetInt64(int64(d))
	return f.Quo(f, decimalScaleFactor)
}

func (d DecimalLevel) multiplyBy(factor float64) DecimalLevel {
	f := new(big.Float).SetPrec(64).SetInt64(int64(d))
	f.Mul(f, new(big.Float).SetFloat64(factor))
	scaled := roundHalfToEven(f).Int64()
	return DecimalLevel(scaled)
}

// roundHalfToEven rounds f (already scaled to integer units) to the
// nearest integer, breaking exact ties to the even neighbor.
func roundHalfToEven(f *big.Float) *big.Int {
	floorF := new(big.Float).SetPrec(f.Prec())
	floorInt, _ := f.Int(nil)
	floorF.SetInt(floorInt)
	if f.Sign() < 0 && floorF.Cmp(f) != 0 {
		floorInt.Sub(floorInt, big.NewInt(1))
		floorF.SetInt(floorInt)
	}

	diff := new(big.Float).Sub(f, floorF)
	half := big.NewFloat(0.5)

	switch diff.Cmp(half) {
	case -1:
		return floorInt
	case 1:
		return floorInt.Add(floorInt, big.NewInt(1))
	default:
		// Exact tie: round to even.
		if floorInt.Bit(0) == 0 {
			return floorInt
		}
		return floorInt.Add(floorInt, big.NewInt(1))
	}
}

func (d DecimalLevel) String() string {
	sign := ""
	v := int64(d)
	if v < 0 {
		sign = "-"
		v = -v
	}
	scale := int64(1)
	for i := 0; i < DecimalScale; i++ {
		scale *= 10
	}
	whole := v / scale
	frac := v % scale
	fracStr := strconv.FormatInt(frac, 10)
	for len(fracStr) < DecimalScale {
		fracStr = "0" + fracStr
	}
	fracStr = strings.TrimRight(fracStr, "0")
	if fracStr == "" {
		return fmt.Sprintf("%s%d", sign, whole)
	}
	return fmt.Sprintf("%s%d.%s", sign, whole, fracStr)
}

func parseDecimalLevel(text string) (DecimalLevel, error) {
	f, _, err := big.ParseFloat(text, 10, 64, big.ToNearestEven)
	if err != nil {
		return 0, fmt.Errorf("invalid decimal %q: %w", text, err)
	}
	f.Mul(f, decimalScaleFactor)
	scaled := roundHalfToEven(f).Int64()
	return DecimalLevel(scaled), nil
}

// HardSoftDecimalScore is the decimal-precision analogue of
// HardSoftScore, for domains (e.g. fractional costs) where integer
// levels lose information.
type HardSoftDecimalScore struct {
	Hard DecimalLevel
	Soft DecimalLevel
}

// HardSoftDecimal constructs a HardSoftDecimalScore from floats.
func HardSoftDecimal(hard, soft float64) HardSoftDecimalScore {
	return HardSoftDecimalScore{Hard: NewDecimalLevel(hard), Soft: NewDecimalLevel(soft)}
}

func (s HardSoftDecimalScore) Kind() string { return "HardSoftDecimal" }

func (s HardSoftDecimalScore) String() string {
	return fmt.Sprintf("%shard/%ssoft", s.Hard, s.Soft)
}

func (s HardSoftDecimalScore) IsFeasible() bool { return s.Hard >= 0 }

func (s HardSoftDecimalScore) Add(other Score) Score {
	o := mustHardSoftDecimal(other)
	return HardSoftDecimalScore{Hard: s.Hard + o.Hard, Soft: s.Soft + o.Soft}
}

func (s HardSoftDecimalScore) Negate() Score {
	return HardSoftDecimalScore{Hard: -s.Hard, Soft: -s.Soft}
}

func (s HardSoftDecimalScore) MultiplyBy(factor float64) Score {
	return HardSoftDecimalScore{Hard: s.Hard.multiplyBy(factor), Soft: s.Soft.multiplyBy(factor)}
}

func (s HardSoftDecimalScore) CompareTo(other Score) int {
	o := mustHardSoftDecimal(other)
	if c := compareInt64(int64(s.Hard), int64(o.Hard)); c != 0 {
		return c
	}
	return compareInt64(int64(s.Soft), int64(o.Soft))
}

func mustHardSoftDecimal(s Score) HardSoftDecimalScore {
	v, ok := s.(HardSoftDecimalScore)
	if !ok {
		panic(fmt.Sprintf("score: expected HardSoftDecimalScore, got %s", s.Kind()))
	}
	return v
}

// ParseHardSoftDecimal parses the canonical "Nhard/Msoft" form with
// decimal numbers (e.g. "-1.5hard/0.333333soft").
func ParseHardSoftDecimal(text string) (HardSoftDecimalScore, error) {
	parts := splitLevels(text)
	if len(parts) != 2 {
		return HardSoftDecimalScore{}, parseErrorf(text, "expected exactly 2 levels (hard/soft), got %d", len(parts))
	}
	hardText, ok := strings.CutSuffix(parts[0], "hard")
	if !ok {
		return HardSoftDecimalScore{}, parseErrorf(text, "missing %q level", "hard")
	}
	softText, ok := strings.CutSuffix(parts[1], "soft")
	if !ok {
		return HardSoftDecimalScore{}, parseErrorf(text, "missing %q level", "soft")
	}
	hard, err := parseDecimalLevel(hardText)
	if err != nil {
		return HardSoftDecimalScore{}, parseErrorf(text, "%v", err)
	}
	soft, err := parseDecimalLevel(softText)
	if err != nil {
		return HardSoftDecimalScore{}, parseErrorf(text, "%v", err)
	}
	return HardSoftDecimalScore{Hard: hard, Soft: soft}, nil
}
