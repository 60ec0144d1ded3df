package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/einar/transportapp/internal/database"
)

// AccountRepo handles registered accounts.
type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

// Insert stores a. Missing ID and CreatedAt are filled in; the stored row is returned.
func (r *AccountRepo) Insert(ctx context.Context, a Account) (Account, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.Email = strings.TrimSpace(a.Email)
	if a.CreatedAt.IsZero() {
		a.CreatedAt = database.Now()
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO accounts(id, email, message, created_at)
	VALUES (?, ?, ?, ?);
	`, a.ID, a.Email, a.Message, a.CreatedAt)
	if err != nil {
		return Account{}, err
	}
	return a, nil
}

// Latest returns the most recent registration, or nil when there is none.
func (r *AccountRepo) Latest(ctx context.Context) (*Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, email, message, created_at FROM accounts ORDER BY created_at DESC, rowid DESC LIMIT 1`)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepo) List(ctx context.Context) ([]Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, email, message, created_at FROM accounts ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAccount(row scanner) (Account, error) {
	var a Account
	if err := row.Scan(&a.ID, &a.Email, &a.Message, &a.CreatedAt); err != nil {
		return Account{}, err
	}
	return a, nil
}
