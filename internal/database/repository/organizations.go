package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/einar/transportapp/internal/database"
)

// OrganizationRepo handles created organizations.
type OrganizationRepo struct {
	db *sql.DB
}

func NewOrganizationRepo(db *sql.DB) *OrganizationRepo { return &OrganizationRepo{db: db} }

// Upsert stores o keyed by its organization key; a repeated key refreshes the
// row instead of failing.
func (r *OrganizationRepo) Upsert(ctx context.Context, o Organization) (Organization, error) {
	if o.OrganizationKey == "" {
		return Organization{}, fmt.Errorf("organization key required")
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = database.Now()
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO organizations(id, organization_key, name, country, email, message, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(organization_key) DO UPDATE SET
	 name=excluded.name,
	 country=excluded.country,
	 email=excluded.email,
	 message=excluded.message;
	`, o.ID, o.OrganizationKey, o.Name, o.Country, o.Email, o.Message, o.CreatedAt)
	if err != nil {
		return Organization{}, err
	}
	return o, nil
}

// ListByEmail returns the organizations created for email, newest first. An
// empty email lists everything.
func (r *OrganizationRepo) ListByEmail(ctx context.Context, email string) ([]Organization, error) {
	q := `SELECT id, organization_key, name, country, email, message, created_at FROM organizations`
	var args []any
	if email != "" {
		q += ` WHERE email = ?`
		args = append(args, email)
	}
	q += ` ORDER BY created_at DESC, rowid DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Organization
	for rows.Next() {
		var o Organization
		if err := rows.Scan(&o.ID, &o.OrganizationKey, &o.Name, &o.Country, &o.Email, &o.Message, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
