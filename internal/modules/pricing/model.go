// README: Tariff definitions for distance-priced verticals.
package pricing

// Tariff is a flat base fee plus a per-kilometre rate, both in the
// currency's minor unit.
type Tariff struct {
	Vertical string
	Base     int64
	PerKm    int64
	Currency string
}
