package pricing_test

import (
	"testing"
	"time"

	"shop-service/internal/pricing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "want %s, got %s", want, got.String())
}

func TestShippingCost_Boundaries(t *testing.T) {
	cases := []struct {
		weight string
		want   string
	}{
		{"0", "0"},
		{"0.1", "5"},
		{"5", "5"},
		{"5.01", "10"},
		{"10", "10"},
		{"10.01", "15.015"},
		{"20", "30"},
	}
	for _, tc := range cases {
		t.Run(tc.weight, func(t *testing.T) {
			assertDec(t, tc.want, pricing.ShippingCost(d(tc.weight)))
		})
	}
}

func TestRules_Apply(t *testing.T) {
	assertDec(t, "90", pricing.Percent{Value: d("10")}.Apply(d("100")))
	assertDec(t, "0", pricing.Percent{Value: d("100")}.Apply(d("100")))
	assertDec(t, "70", pricing.Amount{Value: d("30")}.Apply(d("100")))
	assertDec(t, "0", pricing.Amount{Value: d("130")}.Apply(d("100")))
}

func TestNewRule(t *testing.T) {
	r, err := pricing.NewRule(pricing.KindPercent, d("15"))
	require.NoError(t, err)
	assert.Equal(t, pricing.KindPercent, r.Kind())

	_, err = pricing.NewRule("bogus", d("1"))
	assert.ErrorIs(t, err, pricing.ErrUnknownKind)

	_, err = pricing.NewRule(pricing.KindAmount, d("-1"))
	assert.ErrorIs(t, err, pricing.ErrNegativeValue)
}

func TestValidateRule(t *testing.T) {
	price := d("50")
	assert.NoError(t, pricing.ValidateRule(pricing.Percent{Value: d("100")}, nil))
	assert.ErrorIs(t, pricing.ValidateRule(pricing.Percent{Value: d("100.5")}, nil), pricing.ErrPercentTooHigh)
	assert.NoError(t, pricing.ValidateRule(pricing.Amount{Value: d("50")}, &price))
	assert.ErrorIs(t, pricing.ValidateRule(pricing.Amount{Value: d("50.01")}, &price), pricing.ErrAmountAbovePrice)
	assert.NoError(t, pricing.ValidateRule(pricing.Amount{Value: d("500")}, nil))
}

func TestDiscountAmount_IsDeductionNotResultingPrice(t *testing.T) {
	assertDec(t, "20", pricing.DiscountAmount(d("200"), pricing.Percent{Value: d("10")}))
	assertDec(t, "200", pricing.DiscountAmount(d("200"), pricing.Amount{Value: d("250")}))
	assertDec(t, "0", pricing.DiscountAmount(d("200"), nil))
}

func TestRecalculate_Scenario(t *testing.T) {
	lines := []pricing.Line{{Quantity: 2, UnitPrice: d("100"), Weight: d("2")}}

	plain := pricing.Recalculate(lines, nil)
	assertDec(t, "200", plain.TotalPrice)
	assertDec(t, "4", plain.TotalWeight)
	assertDec(t, "5", plain.ShippingCost)
	assertDec(t, "0", plain.DiscountAmount)
	assertDec(t, "205", plain.FinalPrice)

	withCode := pricing.Recalculate(lines, pricing.Percent{Value: d("10")})
	assertDec(t, "20", withCode.DiscountAmount)
	assertDec(t, "185", withCode.FinalPrice)
}

func TestRecalculate_Idempotent(t *testing.T) {
	lines := []pricing.Line{
		{Quantity: 1, UnitPrice: d("19.99"), Weight: d("0.4")},
		{Quantity: 3, UnitPrice: d("5.50"), Weight: d("3")},
	}
	rule := pricing.Amount{Value: d("7")}

	a := pricing.Recalculate(lines, rule)
	b := pricing.Recalculate(lines, rule)
	assert.True(t, a.FinalPrice.Equal(b.FinalPrice))
	assert.True(t, a.ShippingCost.Equal(b.ShippingCost))
	assertDec(t, "36.49", a.TotalPrice)
	// 9.4 кг → 10
	assertDec(t, "10", a.ShippingCost)
}

func TestRecalculate_FinalPriceInvariant(t *testing.T) {
	cases := [][]pricing.Line{
		nil,
		{{Quantity: 1, UnitPrice: d("3"), Weight: d("0")}},
		{{Quantity: 4, UnitPrice: d("12.5"), Weight: d("2.6")}},
	}
	rules := []pricing.Rule{nil, pricing.Percent{Value: d("100")}, pricing.Amount{Value: d("1000")}}

	for _, lines := range cases {
		for _, r := range rules {
			tot := pricing.Recalculate(lines, r)
			want := decimal.Max(tot.TotalPrice.Sub(tot.DiscountAmount).Add(tot.ShippingCost), decimal.Zero)
			assert.True(t, want.Equal(tot.FinalPrice))
			assert.False(t, tot.FinalPrice.IsNegative())
		}
	}
}

func TestRecalculate_AddThenRemoveRestoresTotals(t *testing.T) {
	base := []pricing.Line{{Quantity: 1, UnitPrice: d("40"), Weight: d("1")}}
	before := pricing.Recalculate(base, nil)

	added := append(append([]pricing.Line{}, base...), pricing.Line{Quantity: 2, UnitPrice: d("10"), Weight: d("3")})
	mid := pricing.Recalculate(added, nil)
	assertDec(t, "60", mid.TotalPrice)

	after := pricing.Recalculate(added[:1], nil)
	assert.True(t, before.TotalPrice.Equal(after.TotalPrice))
	assert.True(t, before.FinalPrice.Equal(after.FinalPrice))
}

func TestWindowAndUsage(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	w := pricing.Window{Active: true, Start: now.Add(-time.Hour), End: now.Add(time.Hour)}
	assert.True(t, w.Contains(now))
	assert.True(t, w.Contains(w.Start))
	assert.True(t, w.Contains(w.End))
	assert.False(t, w.Contains(w.End.Add(time.Second)))

	w.Active = false
	assert.False(t, w.Contains(now))

	assert.ErrorIs(t, pricing.Window{Start: now, End: now}.Validate(), pricing.ErrWindowOrder)

	assert.True(t, pricing.Usage{Used: 1, Max: 1}.Exhausted())
	assert.False(t, pricing.Usage{Used: 0, Max: 1}.Exhausted())
}
