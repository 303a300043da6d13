package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/nandanugg/geotoll/module/core/domain"
)

type mockWalletService struct {
	rechargeFn func(ctx context.Context, accountID string, amount domain.Money) (*domain.Account, error)
}

func (m *mockWalletService) Recharge(ctx context.Context, accountID string, amount domain.Money) (*domain.Account, error) {
	return m.rechargeFn(ctx, accountID, amount)
}

func setupWalletRouter(svc walletService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewWalletHandler(svc).Register(r.Group(""))
	return r
}

func TestRecharge_Success(t *testing.T) {
	svc := &mockWalletService{
		rechargeFn: func(_ context.Context, accountID string, amount domain.Money) (*domain.Account, error) {
			if accountID != "acc-1" || amount != domain.NewMoney(500.5) {
				t.Fatalf("unexpected args %s %v", accountID, amount)
			}
			return &domain.Account{ID: accountID, Name: "Ravi", Balance: domain.NewMoney(550.5), VehicleIDs: []string{"veh-1"}}, nil
		},
	}

	w := postJSON(setupWalletRouter(svc), "/accounts/acc-1/recharge", `{"amount":500.5}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		ID            string   `json:"id"`
		WalletBalance float64  `json:"walletBalance"`
		Vehicles      []string `json:"vehicles"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.ID != "acc-1" || resp.WalletBalance != 550.5 || len(resp.Vehicles) != 1 {
		t.Errorf("unexpected account %+v", resp)
	}
}

func TestRecharge_MissingAmount(t *testing.T) {
	svc := &mockWalletService{
		rechargeFn: func(context.Context, string, domain.Money) (*domain.Account, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}

	w := postJSON(setupWalletRouter(svc), "/accounts/acc-1/recharge", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRecharge_AmountOutOfRange(t *testing.T) {
	svc := &mockWalletService{
		rechargeFn: func(context.Context, string, domain.Money) (*domain.Account, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}

	for _, body := range []string{`{"amount":9.2e16}`, `{"amount":1e308}`} {
		w := postJSON(setupWalletRouter(svc), "/accounts/acc-1/recharge", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, w.Code)
			continue
		}
		if e := decodeError(t, w); e.Kind != domain.KindValidation {
			t.Errorf("%s: expected validation kind, got %s", body, e.Kind)
		}
	}
}

func TestRecharge_ServiceErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{domain.Validation("amount: must be greater than zero"), http.StatusBadRequest},
		{domain.NotFound(`account "acc-404" not found`), http.StatusNotFound},
	}

	for _, tt := range tests {
		svc := &mockWalletService{
			rechargeFn: func(context.Context, string, domain.Money) (*domain.Account, error) {
				return nil, tt.err
			},
		}
		w := postJSON(setupWalletRouter(svc), "/accounts/acc-404/recharge", `{"amount":-1}`)
		if w.Code != tt.status {
			t.Errorf("%v: expected %d, got %d", tt.err, tt.status, w.Code)
		}
	}
}
