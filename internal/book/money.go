package book

import (
	"fmt"

	"github.com/govalues/money"
)

// Won renders an amount of won for display. Amounts are stored as plain
// int64 won; KRW carries no minor unit so the two scales coincide.
func Won(v int64) string {
	amt, err := money.NewAmountFromMinorUnits("KRW", v)
	if err != nil {
		return fmt.Sprintf("KRW %d", v)
	}
	return amt.String()
}
