package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nandanugg/geotoll/module/core/domain"
	"github.com/nandanugg/geotoll/module/core/internal/repository/database"
)

type AccountService struct {
	accounts database.AccountRepository
	timeout  time.Duration
}

func NewAccountService(accounts database.AccountRepository, timeout time.Duration) *AccountService {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return &AccountService{accounts: accounts, timeout: timeout}
}

// Get returns the account with its current balance and vehicles.
func (s *AccountService) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	if accountID == "" {
		return nil, domain.Validation("accountID: required")
	}

	var acc *domain.Account
	err := callWithTimeout(ctx, s.timeout, func(ctx context.Context) error {
		var err error
		acc, err = s.accounts.Get(ctx, accountID)
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound(fmt.Sprintf("account %q not found", accountID))
	}
	if err != nil {
		return nil, domain.Dependency("get account", err)
	}
	if acc.VehicleIDs == nil {
		acc.VehicleIDs = []string{}
	}
	return acc, nil
}
