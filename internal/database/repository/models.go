package repository

import "time"

// Account is a registration the backend accepted.
type Account struct {
	ID        string
	Email     string
	Message   string
	CreatedAt time.Time
}

// Organization is an organization the backend issued a key for.
type Organization struct {
	ID              string
	OrganizationKey string
	Name            string
	Country         string
	Email           string
	Message         string
	CreatedAt       time.Time
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}
