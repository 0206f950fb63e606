// README: Common money value object used across modules.
package types

// Money is an integer amount in the currency's minor unit (cents).
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (m Money) IsZero() bool {
	return m.Amount == 0 && m.Currency == ""
}

// Mul scales the amount by a quantity, keeping the currency.
func (m Money) Mul(qty int64) Money {
	return Money{Amount: m.Amount * qty, Currency: m.Currency}
}

// Add keeps the receiver's currency when it is unset; mixing two different
// currencies is a caller bug.
func (m Money) Add(other Money) Money {
	if m.Currency == "" {
		m.Currency = other.Currency
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}
}
