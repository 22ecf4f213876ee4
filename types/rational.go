package types

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Rational is a fraction used for frame rates and time bases.
type Rational struct {
	Num int
	Den int
}

func (r Rational) Reverse() Rational {
	return Rational{
		Num: r.Den,
		Den: r.Num,
	}
}

func (r Rational) IsValid() bool {
	return r.Den != 0 && r.Num != 0
}

func (r Rational) Float64() float64 {
	return float64(r.Num) / float64(r.Den)
}

// FramesIn returns how many whole frames of rate r fit into the given
// amount of seconds. seconds is taken as its shortest decimal form and
// the product is computed on the exact fraction, so 2s at 30000/1001
// yields 59 and 0.7s at 30 yields 21. Any positive amount of seconds
// yields at least one frame.
func (r Rational) FramesIn(seconds float64) int {
	if r.Num <= 0 || r.Den <= 0 || !(seconds > 0) || math.IsInf(seconds, 0) {
		return 0
	}
	v, ok := new(big.Rat).SetString(strconv.FormatFloat(seconds, 'g', -1, 64))
	if !ok {
		return 0
	}
	v.Mul(v, big.NewRat(int64(r.Num), int64(r.Den)))
	frames := new(big.Int).Quo(v.Num(), v.Denom())
	if !frames.IsInt64() {
		return math.MaxInt32
	}
	return max(int(frames.Int64()), 1)
}

func newNTSCRationalFromFloat64(f float64) *big.Rat {
	den := 1001 // common denominator for NTSC frame rates
	num := math.Ceil(f) * 1000
	r := big.NewRat(int64(num), int64(den))
	confirmValue, _ := r.Float64()
	if math.Abs(f-confirmValue) < 1e-2 {
		return r
	}
	return nil
}

// RationalFromApproxFloat64 snaps rates like 29.97 onto their NTSC fraction.
func RationalFromApproxFloat64(fps float64) (r Rational) {
	if float64(int(fps)) == fps {
		return Rational{Num: int(fps), Den: 1}
	}

	if rat := newNTSCRationalFromFloat64(fps); rat != nil {
		return Rational{Num: int(rat.Num().Int64()), Den: int(rat.Denom().Int64())}
	}

	return RationalFromFloat64(fps)
}

func RationalFromFloat64(fps float64) Rational {
	if float64(int(fps)) == fps {
		return Rational{Num: int(fps), Den: 1}
	}
	r := Rational{
		Num: int(math.Round(fps * 1000000)),
		Den: 1000000,
	}
	gcd := new(big.Int).GCD(nil, nil, big.NewInt(int64(r.Num)), big.NewInt(int64(r.Den))).Int64()
	if gcd > 1 {
		r.Num /= int(gcd)
		r.Den /= int(gcd)
	}
	return r
}

// RationalFromString accepts "30000/1001", "60", "29.97" and "~29.97"
// (the tilde snaps to an NTSC fraction when close enough).
func RationalFromString(s string) (*Rational, error) {
	var r Rational
	switch {
	case len(s) == 0:
		return nil, fmt.Errorf("unable to parse Rational from empty string")
	case strings.Contains(s, "/"):
		if _, err := fmt.Sscanf(s, "%d/%d", &r.Num, &r.Den); err != nil {
			return nil, fmt.Errorf("unable to parse Rational from %q: %w", s, err)
		}
	case s[0] == '~':
		fps, err := strconv.ParseFloat(s[1:], 64)
		if err != nil {
			return nil, fmt.Errorf("unable to parse Rational from %q: %w", s, err)
		}
		r = RationalFromApproxFloat64(fps)
	default:
		fps, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("unable to parse Rational from %q: %w", s, err)
		}
		r = RationalFromFloat64(fps)
	}
	if r.Den == 0 {
		return nil, fmt.Errorf("denominator cannot be zero")
	}
	return &r, nil
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

func (r Rational) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Rational) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("unable to unmarshal Rational from JSON '%s': %w", b, err)
	}
	v, err := RationalFromString(s)
	if err != nil {
		return fmt.Errorf("unable to unmarshal Rational from string %q: %w", s, err)
	}
	*r = *v
	return nil
}

// Set implements pflag.Value.
func (r *Rational) Set(s string) error {
	v, err := RationalFromString(s)
	if err != nil {
		return err
	}
	*r = *v
	return nil
}

// Type implements pflag.Value.
func (r *Rational) Type() string {
	return "rational"
}
