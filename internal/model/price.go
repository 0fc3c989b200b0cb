package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Price is an amount in euro cents. The document stores it as decimal euros.
type Price int64

// DefaultRentalPrice is charged for platform rentals and for listings without any price.
const DefaultRentalPrice Price = 399

// PriceFromEuros converts a decimal euro amount to cents, rounding to the nearest cent.
func PriceFromEuros(euros float64) Price {
	return Price(math.Round(euros * 100))
}

// ParsePrice parses a form value such as "2.50" or "2,50". Empty input yields nil.
func ParsePrice(s string) (*Price, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return nil, nil
	}
	euros, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(euros) || math.IsInf(euros, 0) {
		return nil, fmt.Errorf("invalid price %q", s)
	}
	p := PriceFromEuros(euros)
	return &p, nil
}

// Euros returns the amount as decimal euros.
func (p Price) Euros() float64 {
	return float64(p) / 100
}

func (p Price) String() string {
	return fmt.Sprintf("%.2f", p.Euros())
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(p.Euros(), 'f', -1, 64)), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	var euros float64
	if err := json.Unmarshal(data, &euros); err != nil {
		return fmt.Errorf("decoding price: %w", err)
	}
	*p = PriceFromEuros(euros)
	return nil
}
