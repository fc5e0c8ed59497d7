package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is an amount in cents. On the wire it is a decimal string ("25.00");
// plain JSON numbers are accepted on input.
type Money int64

func NewMoney(cents int64) *Money {
	m := Money(cents)
	return &m
}

func (m Money) Cents() int64 { return int64(m) }

func (m Money) String() string {
	cents := int64(m)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func (m *Money) Clone() *Money {
	if m == nil {
		return nil
	}
	v := *m
	return &v
}

// Equal compares two optional amounts; two nils are equal.
func (m *Money) Equal(o *Money) bool {
	if m == nil || o == nil {
		return m == nil && o == nil
	}
	return *m == *o
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	v, err := ParseMoney(raw)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseMoney parses "25", "25.5" or "25.00" into cents. More than two
// fractional digits is an error rather than a silent rounding.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if (whole == "" && !hasFrac) || (hasFrac && frac == "") {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || strings.ContainsAny(whole, "+-") {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if units > math.MaxInt64/100-1 {
		return 0, fmt.Errorf("amount %q out of range", s)
	}
	var cents int64
	if frac != "" {
		for len(frac) < 2 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || strings.ContainsAny(frac, "+-") {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
	}
	total := units*100 + cents
	if neg {
		total = -total
	}
	return Money(total), nil
}
