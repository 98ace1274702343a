package scoring

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Rate is a match percentage that may be undefined. The zero value is
// NullMatch.
type Rate struct {
	Value float64
	Valid bool
}

// NullMatch marks a sub-metric or domain that could not be computed from the
// available data. Aggregation skips it instead of counting it as zero.
var NullMatch = Rate{}

// Match returns a defined rate holding v.
func Match(v float64) Rate {
	return Rate{Value: v, Valid: true}
}

// IsNull reports whether r is NullMatch.
func (r Rate) IsNull() bool { return !r.Valid }

// String renders the rate with two decimals, or "null".
func (r Rate) String() string {
	if !r.Valid {
		return "null"
	}
	return strconv.FormatFloat(r.Value, 'f', 2, 64)
}

// MarshalJSON encodes NullMatch as null and defined rates as numbers.
func (r Rate) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON accepts null or a number.
func (r *Rate) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = NullMatch
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*r = Match(v)
	return nil
}

// Round2 rounds x to two decimal places, halves away from zero. Rounding is
// done on the shortest decimal form of x, so 1.005 becomes 1.01. Every rate
// that leaves this package goes through it.
func Round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return round2(decimal.NewFromFloat(x))
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// MeanRounded returns the arithmetic mean of values rounded with Round2. The
// sum and division are exact decimals, so a mean that lands on a half
// hundredth rounds up. It returns NaN for no values or a non-finite value.
func MeanRounded(values ...float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sum := decimal.Zero
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return math.NaN()
		}
		sum = sum.Add(decimal.NewFromFloat(v))
	}
	return round2(sum.Div(decimal.NewFromInt(int64(len(values)))))
}

// Mean averages the defined rates and ignores NullMatch. It returns
// NullMatch when no rate is defined. The result is rounded with Round2.
func Mean(rates ...Rate) Rate {
	values := make([]float64, 0, len(rates))
	for _, r := range rates {
		if r.Valid {
			values = append(values, r.Value)
		}
	}
	if len(values) == 0 {
		return NullMatch
	}
	return Match(MeanRounded(values...))
}
