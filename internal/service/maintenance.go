package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/einar/transportapp/internal/database"
)

// MaintenanceService houses destructive actions on the local history.
type MaintenanceService struct {
	DB *sql.DB
}

// Reset forgets every recorded account and organization. The backend is not
// touched and the schema stays intact.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(s.DB, func(tx *sql.Tx) error {
		for _, t := range []string{"organizations", "accounts"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}
