package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Money is an immutable amount in a single ISO-4217 currency.
// The zero value has no currency and stands for a missing price.
type Money struct {
	amount   decimal.Decimal
	currency currency.Unit
	valid    bool
}

// Amounts are bounded by what the SQL stores hold: NUMERIC(19,4).
const (
	MaxIntegerDigits  = 15
	MaxFractionDigits = 4
)

var amountLimit = decimal.New(1, MaxIntegerDigits)

// checkAmount rejects amounts outside the storable range. The exponent is
// checked before any arithmetic so huge or tiny exponents stay cheap.
func checkAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Decimal{}, NewInvalidDomainStateError("amount cannot be negative")
	}
	if amount.IsZero() {
		return decimal.Zero, nil
	}
	if amount.Exponent() > MaxIntegerDigits || !amount.LessThan(amountLimit) {
		return decimal.Decimal{}, NewInvalidDomainStateError("amount cannot exceed %d integer digits", MaxIntegerDigits)
	}
	// trailing zeros are tolerated up to a sane input length
	if amount.Exponent() < -(MaxFractionDigits+32) || !amount.Equal(amount.Truncate(MaxFractionDigits)) {
		return decimal.Decimal{}, NewInvalidDomainStateError("amount cannot have more than %d decimal places", MaxFractionDigits)
	}
	return amount, nil
}

// NewMoney builds a Money, rejecting negative or out-of-range amounts and
// unknown currency codes.
func NewMoney(amount decimal.Decimal, code string) (Money, error) {
	amount, err := checkAmount(amount)
	if err != nil {
		return Money{}, err
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return Money{}, NewInvalidDomainStateError("currency is required")
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return Money{}, NewInvalidDomainStateError("unknown currency code %q", code)
	}
	return Money{amount: amount, currency: unit, valid: true}, nil
}

// ParseMoney is NewMoney for a decimal amount given as text.
func ParseMoney(amount, code string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Money{}, NewInvalidDomainStateError("amount %q is not a decimal number", amount)
	}
	return NewMoney(d, code)
}

// MustMoney panics when amount/code are invalid. Meant for fixtures.
func MustMoney(amount, code string) Money {
	m, err := ParseMoney(amount, code)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency returns the ISO-4217 code, or "" for the zero Money.
func (m Money) Currency() string {
	if !m.valid {
		return ""
	}
	return m.currency.String()
}

// IsZero reports whether m is the missing Money (not a zero amount).
func (m Money) IsZero() bool { return !m.valid }

// Add sums two amounts of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other, "add"); err != nil {
		return Money{}, err
	}
	sum, err := checkAmount(m.amount.Add(other.amount))
	if err != nil {
		return Money{}, err
	}
	return Money{amount: sum, currency: m.currency, valid: true}, nil
}

// Multiply scales the amount by an integer factor.
func (m Money) Multiply(factor int) (Money, error) {
	if !m.valid {
		return Money{}, NewInvalidDomainStateError("currency is required")
	}
	scaled, err := checkAmount(m.amount.Mul(decimal.NewFromInt(int64(factor))))
	if err != nil {
		return Money{}, err
	}
	return Money{amount: scaled, currency: m.currency, valid: true}, nil
}

// IsGreaterThan compares amounts of the same currency.
func (m Money) IsGreaterThan(other Money) (bool, error) {
	if err := m.sameCurrency(other, "compare"); err != nil {
		return false, err
	}
	return m.amount.GreaterThan(other.amount), nil
}

// RoundToCurrency rounds the amount to the currency's minor units.
func (m Money) RoundToCurrency() Money {
	if !m.valid {
		return m
	}
	scale, _ := currency.Standard.Rounding(m.currency)
	return Money{amount: m.amount.Round(int32(scale)), currency: m.currency, valid: true}
}

// Equal compares amount by value and currency by code.
func (m Money) Equal(other Money) bool {
	if m.valid != other.valid {
		return false
	}
	if !m.valid {
		return true
	}
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) String() string {
	if !m.valid {
		return "<no price>"
	}
	scale, _ := currency.Standard.Rounding(m.currency)
	return fmt.Sprintf("%s %s", m.amount.StringFixed(int32(scale)), m.currency)
}

func (m Money) sameCurrency(other Money, op string) error {
	if !m.valid || !other.valid {
		return NewInvalidDomainStateError("currency is required")
	}
	if m.currency != other.currency {
		return NewInvalidDomainStateError("cannot %s money with different currencies: %s and %s", op, m.currency, other.currency)
	}
	return nil
}

type moneyJSON struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	if !m.valid {
		return []byte("null"), nil
	}
	return json.Marshal(moneyJSON{Amount: m.amount.String(), Currency: m.currency.String()})
}

func (m *Money) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = Money{}
		return nil
	}
	var raw moneyJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseMoney(raw.Amount, raw.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
