package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nandanugg/geotoll/module/core/domain"
	"github.com/nandanugg/geotoll/module/core/internal/metrics"
	"github.com/nandanugg/geotoll/module/core/internal/repository/database"
)

type WalletService struct {
	accounts database.AccountRepository
	ledger   database.LedgerRepository
	timeout  time.Duration
	now      func() time.Time
	log      *slog.Logger
}

func NewWalletService(accounts database.AccountRepository, ledger database.LedgerRepository, timeout time.Duration) *WalletService {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return &WalletService{
		accounts: accounts,
		ledger:   ledger,
		timeout:  timeout,
		now:      time.Now,
		log:      slog.Default().With("component", "wallet"),
	}
}

// Recharge credits amount to the account and records a wallet_recharge entry.
// A failed ledger write after a successful credit is logged, not returned.
func (s *WalletService) Recharge(ctx context.Context, accountID string, amount domain.Money) (*domain.Account, error) {
	if accountID == "" {
		return nil, domain.Validation("accountID: required")
	}
	if amount <= 0 {
		return nil, domain.Validation("amount: must be greater than zero")
	}
	if amount > domain.MaxMoney {
		return nil, domain.Validation(fmt.Sprintf("amount: must not exceed %v", domain.MaxMoney.Major()))
	}

	var acc *domain.Account
	err := callWithTimeout(ctx, s.timeout, func(ctx context.Context) error {
		var err error
		acc, err = s.accounts.Get(ctx, accountID)
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		metrics.Recharges.WithLabelValues(string(domain.KindNotFound)).Inc()
		return nil, domain.NotFound(fmt.Sprintf("account %q not found", accountID))
	}
	if err != nil {
		metrics.Recharges.WithLabelValues(string(domain.KindDependency)).Inc()
		return nil, domain.Dependency("get account", err)
	}

	var balance domain.Money
	err = callWithTimeout(ctx, s.timeout, func(ctx context.Context) error {
		var err error
		balance, err = s.accounts.AtomicCredit(ctx, accountID, amount)
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		metrics.Recharges.WithLabelValues(string(domain.KindNotFound)).Inc()
		return nil, domain.NotFound(fmt.Sprintf("account %q not found", accountID))
	}
	if err != nil {
		metrics.Recharges.WithLabelValues(string(domain.KindDependency)).Inc()
		return nil, domain.Dependency("credit account", err)
	}
	acc.Balance = balance
	metrics.Recharges.WithLabelValues("ok").Inc()

	rec := &domain.SettlementRecord{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Amount:    amount,
		Outcome:   domain.OutcomeSuccess,
		Kind:      domain.KindWalletRecharge,
		Timestamp: s.now(),
		Remark:    domain.RemarkWalletRecharge,
	}
	if len(acc.VehicleIDs) > 0 {
		rec.VehicleID = acc.VehicleIDs[0]
	}
	err = callWithTimeout(ctx, s.timeout, func(ctx context.Context) error {
		return s.ledger.Append(ctx, rec)
	})
	if err != nil {
		s.log.Error("append recharge record", "account_id", accountID, "record_id", rec.ID, "error", err)
	}

	return acc, nil
}
