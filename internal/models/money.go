package models

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a currency amount held at two decimal places. It is written to
// JSON as a quoted string ("10.00") and to SQL as a DECIMAL(10,2) value.
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d.Round(2)}
}

func MoneyFromInt(v int64) Money {
	return NewMoney(decimal.NewFromInt(v))
}

// ParseMoney reads a decimal string such as "12.50". Amounts with more than
// two fractional digits are rounded half away from zero.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("%q is not a decimal amount", s)
	}
	return NewMoney(d), nil
}

func (m Money) Plus(o Money) Money  { return NewMoney(m.Decimal.Add(o.Decimal)) }
func (m Money) Minus(o Money) Money { return NewMoney(m.Decimal.Sub(o.Decimal)) }

func (m Money) MulInt(n int) Money {
	return NewMoney(m.Decimal.Mul(decimal.NewFromInt(int64(n))))
}

func (m Money) Equal(o Money) bool { return m.Decimal.Equal(o.Decimal) }

func (m Money) String() string { return m.Decimal.StringFixed(2) }

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.Decimal.StringFixed(2) + `"`), nil
}

// UnmarshalJSON accepts both "10.00" and 10.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	m.Decimal = d.Round(2)
	return nil
}

func (m Money) Value() (driver.Value, error) {
	return m.Decimal.StringFixed(2), nil
}

func (m *Money) Scan(value interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}
	m.Decimal = d.Round(2)
	return nil
}
