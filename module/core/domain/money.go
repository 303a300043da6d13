package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Money is an amount in minor currency units (paise). JSON uses major units.
type Money int64

// MaxMoney bounds any single amount accepted from a client, keeping sums far
// from the int64 limit.
const MaxMoney Money = 1_000_000_000 * 100

func NewMoney(major float64) Money {
	return Money(math.Round(major * 100))
}

func (m Money) Major() float64 {
	return float64(m) / 100
}

func (m Money) MarshalJSON() ([]byte, error) {
	return strconv.AppendFloat(nil, m.Major(), 'f', -1, 64), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	if math.IsNaN(f) || math.Abs(f) > MaxMoney.Major() {
		return fmt.Errorf("amount %v out of range, limit is %v", f, MaxMoney.Major())
	}
	*m = NewMoney(f)
	return nil
}

type Account struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Balance    Money    `json:"walletBalance"`
	VehicleIDs []string `json:"vehicles"`
}
