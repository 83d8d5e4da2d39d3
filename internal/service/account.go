package service

import (
	"regexp"

	"github.com/blen-az/investFX-sub001/internal/domain"
	"github.com/blen-az/investFX-sub001/internal/ledger"
)

var accountIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// RegisterAccountRequest represents the input for account registration.
type RegisterAccountRequest struct {
	AccountID   string
	InitialCash float64
}

// AccountService handles account registration, balance, and history
// queries.
type AccountService struct {
	ledger *ledger.Ledger
}

// NewAccountService creates a new AccountService.
func NewAccountService(l *ledger.Ledger) *AccountService {
	return &AccountService{ledger: l}
}

// Register validates the request and creates the account in the ledger.
func (s *AccountService) Register(req RegisterAccountRequest) (domain.Account, error) {
	if !accountIDRegex.MatchString(req.AccountID) {
		return domain.Account{}, &domain.ValidationError{
			Message: "account_id must match ^[a-zA-Z0-9_-]{1,64}$",
		}
	}
	if req.InitialCash < 0 {
		return domain.Account{}, &domain.ValidationError{
			Message: "initial_cash must be >= 0",
		}
	}
	cashCents, err := domain.DollarsToCents(req.InitialCash)
	if err != nil {
		return domain.Account{}, &domain.ValidationError{
			Message: "initial_cash must have at most 2 decimal places",
		}
	}

	return s.ledger.CreateAccount(req.AccountID, cashCents)
}

// GetBalance returns a snapshot of the account's balances.
func (s *AccountService) GetBalance(accountID string) (domain.Account, error) {
	return s.ledger.Account(accountID)
}

// GetTradeHistory returns the account's trades, newest first.
func (s *AccountService) GetTradeHistory(accountID string) ([]*domain.Trade, error) {
	return s.ledger.TradeHistory(accountID)
}
