package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyMarshalFixedTwoDecimals(t *testing.T) {
	m := NewMoneyFromDecimal(decimal.NewFromFloat(25))
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal money failed: %v", err)
	}
	if string(b) != `"25.00"` {
		t.Fatalf("expected \"25.00\", got %s", b)
	}
}

func TestMoneyUnmarshalStringAndNumber(t *testing.T) {
	var fromString Money
	if err := json.Unmarshal([]byte(`"249.99"`), &fromString); err != nil {
		t.Fatalf("unmarshal string failed: %v", err)
	}
	if fromString.String() != "249.99" {
		t.Fatalf("expected 249.99, got %s", fromString.String())
	}

	var fromNumber Money
	if err := json.Unmarshal([]byte(`250`), &fromNumber); err != nil {
		t.Fatalf("unmarshal number failed: %v", err)
	}
	if fromNumber.String() != "250.00" {
		t.Fatalf("expected 250.00, got %s", fromNumber.String())
	}
}

func TestMoneyRoundsOnConstruct(t *testing.T) {
	m := NewMoneyFromFloat(19.999)
	if m.String() != "20.00" {
		t.Fatalf("expected 20.00, got %s", m.String())
	}
}
