package ledger

import (
	"errors"
	"testing"

	"pgregory.net/rapid"

	"github.com/blen-az/investFX-sub001/internal/domain"
)

func TestProperty_BalancesNeverNegative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initialCash := rapid.Int64Range(0, 1_000_000).Draw(t, "initialCash")
		steps := rapid.IntRange(1, 50).Draw(t, "steps")

		l := New()
		l.CreateAccount("acct", initialCash)

		for i := 0; i < steps; i++ {
			side := domain.OrderSideBuy
			if rapid.Bool().Draw(t, "sell") {
				side = domain.OrderSideSell
			}
			notional := rapid.Int64Range(1, 200_000).Draw(t, "notional")
			price := rapid.Int64Range(1, 50_000).Draw(t, "price")

			_, err := l.Execute("acct", side, notional, price, false)
			if err != nil &&
				!errors.Is(err, domain.ErrInsufficientFunds) &&
				!errors.Is(err, domain.ErrInsufficientHoldings) {
				t.Fatalf("unexpected error: %v", err)
			}

			acct, _ := l.Account("acct")
			if acct.CashCents < 0 {
				t.Fatalf("cash went negative: %d", acct.CashCents)
			}
			if acct.Holdings < 0 {
				t.Fatalf("holdings went negative: %v", acct.Holdings)
			}
		}
	})
}

// Cash conservation: the cash delta always equals sells minus buys over
// the successful trades, exactly, because cash is integer cents.
func TestProperty_CashMatchesTradeLog(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initialCash := rapid.Int64Range(0, 1_000_000).Draw(t, "initialCash")
		steps := rapid.IntRange(1, 50).Draw(t, "steps")

		l := New()
		l.CreateAccount("acct", initialCash)

		for i := 0; i < steps; i++ {
			side := domain.OrderSideBuy
			if rapid.Bool().Draw(t, "sell") {
				side = domain.OrderSideSell
			}
			notional := rapid.Int64Range(1, 100_000).Draw(t, "notional")
			price := rapid.Int64Range(1, 50_000).Draw(t, "price")
			l.Execute("acct", side, notional, price, false)
		}

		var bought, sold int64
		history, _ := l.TradeHistory("acct")
		for _, tr := range history {
			if tr.Side == domain.OrderSideBuy {
				bought += tr.NotionalCents
			} else {
				sold += tr.NotionalCents
			}
		}

		acct, _ := l.Account("acct")
		if acct.CashCents != initialCash-bought+sold {
			t.Fatalf("cash=%d, want initial(%d) - bought(%d) + sold(%d) = %d",
				acct.CashCents, initialCash, bought, sold, initialCash-bought+sold)
		}
	})
}
