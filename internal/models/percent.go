package models

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Percent is a nullable percentage. An invalid Percent marks a ratio
// whose denominator was zero (profit margin with zero sales); it
// marshals as JSON null and must be skipped in numeric comparisons and
// rankings rather than treated as zero.
type Percent struct {
	Value float64
	Valid bool
}

// PercentOf returns part/whole as a percentage, or the undefined
// sentinel when whole is zero.
func PercentOf(part, whole decimal.Decimal) Percent {
	if whole.IsZero() {
		return Percent{}
	}
	v, _ := part.Div(whole).Mul(decimal.NewFromInt(100)).Float64()
	return Percent{Value: v, Valid: true}
}

func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

func (p *Percent) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*p = Percent{}
		return nil
	}
	if err := json.Unmarshal(data, &p.Value); err != nil {
		return err
	}
	p.Valid = true
	return nil
}
