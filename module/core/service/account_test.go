package service

import (
	"context"
	"errors"
	"testing"

	"github.com/nandanugg/geotoll/module/core/domain"
)

func TestGetAccount(t *testing.T) {
	accounts := &mockAccountRepo{
		getFn: func(_ context.Context, accountID string) (*domain.Account, error) {
			return &domain.Account{ID: accountID, Name: "Ravi", Balance: domain.NewMoney(925)}, nil
		},
	}

	acc, err := NewAccountService(accounts, 0).Get(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acc.Balance != domain.NewMoney(925) {
		t.Errorf("expected balance 925, got %v", acc.Balance.Major())
	}
	if acc.VehicleIDs == nil {
		t.Error("expected empty non-nil vehicle list")
	}
}

func TestGetAccount_Errors(t *testing.T) {
	tests := []struct {
		name      string
		accountID string
		getErr    error
		kind      domain.ErrorKind
	}{
		{"empty id", "", nil, domain.KindValidation},
		{"unknown", "acc-404", domain.ErrNotFound, domain.KindNotFound},
		{"store down", "acc-1", errors.New("db down"), domain.KindDependency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := &mockAccountRepo{
				getFn: func(context.Context, string) (*domain.Account, error) {
					return nil, tt.getErr
				},
			}
			_, err := NewAccountService(accounts, 0).Get(context.Background(), tt.accountID)
			if domain.KindOf(err) != tt.kind {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
		})
	}
}
