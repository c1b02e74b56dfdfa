package price

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lista-compras/server/internal/list/model"
)

// Parse converts a formatted price string into a decimal. Parsing is
// lenient: a leading numeric prefix is accepted ("10.50 kg" → 10.50) and
// anything unparseable, including the empty string, yields zero. Totals must
// never fail because one row carries garbage.
func Parse(formatted string) decimal.Decimal {
	s := strings.TrimSpace(formatted)
	if s == "" {
		return decimal.Zero
	}

	if d, err := decimal.NewFromString(s); err == nil {
		return d
	}

	prefix := numericPrefix(s)
	if prefix == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(prefix)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// numericPrefix returns the longest leading run of sign, digits and a single
// decimal point that still ends in a digit.
func numericPrefix(s string) string {
	end := 0
	dot := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			end = i + 1
		case r == '-' || r == '+':
			if i != 0 {
				return s[:end]
			}
		case r == '.':
			if dot {
				return s[:end]
			}
			dot = true
		default:
			return s[:end]
		}
	}
	return s[:end]
}

// Subtotal computes one item's contribution to the total. A nil quantity
// counts as 1; an explicit zero contributes nothing.
func Subtotal(item model.Item) decimal.Decimal {
	qty := 1
	if item.Quantity != nil {
		qty = *item.Quantity
	}
	return Parse(item.Price).Mul(decimal.NewFromInt(int64(qty)))
}

// Total recomputes the aggregate over all category views from scratch.
func Total(views []*model.CategoryView) decimal.Decimal {
	total := decimal.Zero
	for _, view := range views {
		for _, item := range view.Items {
			total = total.Add(Subtotal(item))
		}
	}
	return total
}

// MaskCurrency renders a decimal as pt-BR BRL, e.g. 1234.5 → "R$ 1.234,50".
func MaskCurrency(v decimal.Decimal) string {
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Neg()
	}

	fixed := v.StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString("R$ ")
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}
