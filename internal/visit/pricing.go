package visit

import (
	"github.com/shopspring/decimal"
)

// Line is one priced row for display. Stored prices are in the base
// currency; display prices are multiplied by the selected rate.
type Line struct {
	ID        int64
	Name      string
	Qty       int
	UnitPrice decimal.Decimal
	Amount    decimal.Decimal
}

// UnitPrice converts a stored price at rate.
func UnitPrice(price float64, rate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(rate)
}

// Amount is the converted price of qty units.
func Amount(price float64, qty int, rate decimal.Decimal) decimal.Decimal {
	return UnitPrice(price, rate).Mul(decimal.NewFromInt(int64(qty)))
}

// ServiceLines prices the performed services. A service stored without a
// quantity counts once.
func ServiceLines(v Visit, rate decimal.Decimal) []Line {
	out := make([]Line, 0, len(v.PerformedServices))
	for _, s := range v.PerformedServices {
		qty := s.ServiceQty
		if qty == 0 {
			qty = 1
		}
		out = append(out, priced(s.ServiceID, s.Name, qty, s.Price, rate))
	}
	return out
}

// PartLines prices the used parts.
func PartLines(v Visit, rate decimal.Decimal) []Line {
	out := make([]Line, 0, len(v.UsedParts))
	for _, p := range v.UsedParts {
		out = append(out, priced(p.PartID, p.Name, p.PartQty, p.Price, rate))
	}
	return out
}

// Total sums every service and part line at rate.
func Total(v Visit, rate decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, l := range ServiceLines(v, rate) {
		total = total.Add(l.Amount)
	}
	for _, l := range PartLines(v, rate) {
		total = total.Add(l.Amount)
	}
	return total
}

func priced(id int64, name string, qty int, price float64, rate decimal.Decimal) Line {
	return Line{
		ID:        id,
		Name:      name,
		Qty:       qty,
		UnitPrice: UnitPrice(price, rate),
		Amount:    Amount(price, qty, rate),
	}
}
