package store

import (
	"context"
	"fmt"

	"fjacquet/finledger/internal/ledgererror"
	"fjacquet/finledger/internal/models"
)

// CreateAccount inserts a new account.
func (q *Queries) CreateAccount(ctx context.Context, name string, accountType models.AccountType) (models.Account, error) {
	if name == "" {
		return models.Account{}, ledgererror.Invalid("account name must not be empty")
	}
	if !accountType.Valid() {
		return models.Account{}, ledgererror.Invalid("unknown account type %q", accountType)
	}

	res, err := q.db.ExecContext(ctx,
		`INSERT INTO accounts (name, type) VALUES (?, ?)`, name, string(accountType))
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to create account %q: %w", name, translate("accounts", err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Account{}, err
	}
	return models.Account{ID: id, Name: name, Type: accountType}, nil
}

// GetAccount returns the account with the given id.
func (q *Queries) GetAccount(ctx context.Context, id int64) (models.Account, error) {
	var a models.Account
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, type FROM accounts WHERE id = ?`, id).Scan(&a.ID, &a.Name, &a.Type)
	if err != nil {
		return models.Account{}, notFound(err, "account", id)
	}
	return a, nil
}

// GetAccountByName returns the account with the given name.
func (q *Queries) GetAccountByName(ctx context.Context, name string) (models.Account, error) {
	var a models.Account
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, type FROM accounts WHERE name = ?`, name).Scan(&a.ID, &a.Name, &a.Type)
	if err != nil {
		return models.Account{}, notFound(err, "account", name)
	}
	return a, nil
}

// EnsureAccount returns the named account, creating it with accountType when
// it does not exist. An existing account keeps its original type.
func (q *Queries) EnsureAccount(ctx context.Context, name string, accountType models.AccountType) (models.Account, bool, error) {
	a, err := q.GetAccountByName(ctx, name)
	if err == nil {
		return a, false, nil
	}
	if !isNotFound(err) {
		return models.Account{}, false, err
	}
	a, err = q.CreateAccount(ctx, name, accountType)
	if err != nil {
		return models.Account{}, false, err
	}
	return a, true, nil
}

// ListAccounts returns every account ordered by name.
func (q *Queries) ListAccounts(ctx context.Context) ([]models.Account, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT id, name, type FROM accounts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Type); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
