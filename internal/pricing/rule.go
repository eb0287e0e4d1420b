// Package pricing содержит чистые функции расчёта цен заказа: скидки, доставка, итог.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindPercent Kind = "percent"
	KindAmount  Kind = "amount"
)

var hundred = decimal.NewFromInt(100)

var (
	ErrUnknownKind      = errors.New("unknown discount type")
	ErrNegativeValue    = errors.New("discount value must be >= 0")
	ErrPercentTooHigh   = errors.New("percentage discount cannot be greater than 100")
	ErrAmountAbovePrice = errors.New("amount discount cannot exceed the product price")
)

// Rule: правило скидки. Apply возвращает цену ПОСЛЕ скидки, не сумму скидки.
type Rule interface {
	Kind() Kind
	Apply(price decimal.Decimal) decimal.Decimal
}

type Percent struct{ Value decimal.Decimal }

func (Percent) Kind() Kind { return KindPercent }

// price × (1 − v/100)
func (p Percent) Apply(price decimal.Decimal) decimal.Decimal {
	out := price.Mul(hundred.Sub(p.Value)).Div(hundred)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

type Amount struct{ Value decimal.Decimal }

func (Amount) Kind() Kind { return KindAmount }

func (a Amount) Apply(price decimal.Decimal) decimal.Decimal {
	return decimal.Max(price.Sub(a.Value), decimal.Zero)
}

func NewRule(kind Kind, value decimal.Decimal) (Rule, error) {
	if value.IsNegative() {
		return nil, ErrNegativeValue
	}
	switch kind {
	case KindPercent:
		return Percent{Value: value}, nil
	case KindAmount:
		return Amount{Value: value}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// ValidateRule проверяет инварианты значения скидки.
// maxAmount: верхняя граница для фиксированной скидки (цена товара); nil: без ограничения.
func ValidateRule(r Rule, maxAmount *decimal.Decimal) error {
	switch v := r.(type) {
	case Percent:
		if v.Value.IsNegative() {
			return ErrNegativeValue
		}
		if v.Value.GreaterThan(hundred) {
			return ErrPercentTooHigh
		}
	case Amount:
		if v.Value.IsNegative() {
			return ErrNegativeValue
		}
		if maxAmount != nil && v.Value.GreaterThan(*maxAmount) {
			return ErrAmountAbovePrice
		}
	default:
		return ErrUnknownKind
	}
	return nil
}

// DiscountAmount: сколько списывается с total при применении правила
func DiscountAmount(total decimal.Decimal, r Rule) decimal.Decimal {
	if r == nil {
		return decimal.Zero
	}
	return total.Sub(r.Apply(total))
}
