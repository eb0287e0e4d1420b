package pricing

import "github.com/shopspring/decimal"

var (
	shippingTierLight  = decimal.NewFromInt(5)
	shippingTierMedium = decimal.NewFromInt(10)
	shippingPerUnit    = decimal.RequireFromString("1.5")
)

// Line: позиция заказа с точки зрения расчёта
type Line struct {
	Quantity  int
	UnitPrice decimal.Decimal
	Weight    decimal.Decimal // вес единицы товара
}

func (l Line) Total() decimal.Decimal {
	return LineTotal(l.Quantity, l.UnitPrice)
}

type Totals struct {
	TotalPrice     decimal.Decimal
	DiscountAmount decimal.Decimal
	ShippingCost   decimal.Decimal
	FinalPrice     decimal.Decimal
	TotalWeight    decimal.Decimal
}

func LineTotal(qty int, unit decimal.Decimal) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(qty)))
}

// ShippingCost: 0 → 0; (0,5] → 5; (5,10] → 10; дальше weight × 1.5
func ShippingCost(weight decimal.Decimal) decimal.Decimal {
	switch {
	case weight.Sign() <= 0:
		return decimal.Zero
	case weight.LessThanOrEqual(shippingTierLight):
		return shippingTierLight
	case weight.LessThanOrEqual(shippingTierMedium):
		return shippingTierMedium
	default:
		return weight.Mul(shippingPerUnit)
	}
}

func FinalPrice(total, discount, shipping decimal.Decimal) decimal.Decimal {
	return decimal.Max(total.Sub(discount).Add(shipping), decimal.Zero)
}

// Recalculate пересчитывает все производные поля заказа с нуля по списку позиций.
// discount == nil: скидки нет (или код недействителен).
func Recalculate(lines []Line, discount Rule) Totals {
	total := decimal.Zero
	weight := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total())
		weight = weight.Add(l.Weight.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	disc := DiscountAmount(total, discount)
	ship := ShippingCost(weight)

	return Totals{
		TotalPrice:     total,
		DiscountAmount: disc,
		ShippingCost:   ship,
		FinalPrice:     FinalPrice(total, disc, ship),
		TotalWeight:    weight,
	}
}
