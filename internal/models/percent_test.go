package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPercentOf(t *testing.T) {
	tests := []struct {
		name        string
		part, whole int64
		want        float64
		valid       bool
	}{
		{"ordinary ratio", 3000, 20000, 15, true},
		{"zero part", 0, 100, 0, true},
		{"negative part", -30, 100, -30, true},
		{"zero whole is undefined", 500, 0, 0, false},
		{"zero over zero is undefined", 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentOf(decimal.NewFromInt(tt.part), decimal.NewFromInt(tt.whole))
			if got.Valid != tt.valid {
				t.Fatalf("valid = %v, want %v", got.Valid, tt.valid)
			}
			if got.Valid && got.Value != tt.want {
				t.Errorf("value = %v, want %v", got.Value, tt.want)
			}
		})
	}
}

func TestPercent_JSONRoundTrip(t *testing.T) {
	defined, err := json.Marshal(Percent{Value: 14.75, Valid: true})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(defined) != "14.75" {
		t.Errorf("defined percent = %s, want 14.75", defined)
	}

	undefined, err := json.Marshal(Percent{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(undefined) != "null" {
		t.Errorf("undefined percent = %s, want null", undefined)
	}

	var p Percent
	if err := json.Unmarshal([]byte("null"), &p); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if p.Valid {
		t.Error("null must round-trip to the undefined sentinel")
	}
	if err := json.Unmarshal([]byte("37.97"), &p); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	if !p.Valid || p.Value != 37.97 {
		t.Errorf("got %+v, want valid 37.97", p)
	}
}
