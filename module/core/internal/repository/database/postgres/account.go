package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nandanugg/geotoll/module/core/domain"
	"github.com/nandanugg/geotoll/module/core/internal/repository/database"
)

var _ database.AccountRepository = (*AccountRepo)(nil)

type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

func (r *AccountRepo) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	var a domain.Account
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, balance FROM accounts WHERE id = $1`,
		accountID,
	).Scan(&a.ID, &a.Name, &a.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM vehicles WHERE account_id = $1 ORDER BY created_at ASC`,
		accountID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		a.VehicleIDs = append(a.VehicleIDs, id)
	}
	return &a, rows.Err()
}

// AtomicDebit checks and applies the debit in one statement so two concurrent
// debits can never both pass the balance check.
func (r *AccountRepo) AtomicDebit(ctx context.Context, accountID string, amount domain.Money) (domain.Money, error) {
	var balance domain.Money
	err := r.db.QueryRowContext(ctx,
		`UPDATE accounts SET balance = balance - $2 WHERE id = $1 AND balance >= $2 RETURNING balance`,
		accountID, int64(amount),
	).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	// Either the account is missing or the guard refused the debit.
	err = r.db.QueryRowContext(ctx,
		`SELECT balance FROM accounts WHERE id = $1`,
		accountID,
	).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return balance, domain.ErrInsufficientFunds
}

func (r *AccountRepo) AtomicCredit(ctx context.Context, accountID string, amount domain.Money) (domain.Money, error) {
	var balance domain.Money
	err := r.db.QueryRowContext(ctx,
		`UPDATE accounts SET balance = balance + $2 WHERE id = $1 RETURNING balance`,
		accountID, int64(amount),
	).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	return balance, err
}
