package pricing

import (
	"errors"
	"time"
)

var ErrWindowOrder = errors.New("end date must be after start date")

// Window: период действия скидки, границы включительно.
type Window struct {
	Active bool
	Start  time.Time
	End    time.Time
}

func (w Window) Validate() error {
	if !w.Start.Before(w.End) {
		return ErrWindowOrder
	}
	return nil
}

func (w Window) Contains(now time.Time) bool {
	return w.Active && !now.Before(w.Start) && !now.After(w.End)
}

// Usage: счётчик погашений кода скидки
type Usage struct {
	Used int
	Max  int
}

func (u Usage) Exhausted() bool { return u.Used >= u.Max }
