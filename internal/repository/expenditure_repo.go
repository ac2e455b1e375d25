package repository

import (
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bizhub/backoffice/internal/models"
	"github.com/bizhub/backoffice/internal/report"
	"github.com/bizhub/backoffice/pkg/database"
)

// ExpenditureRepository handles expenditure database operations
type ExpenditureRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewExpenditureRepository creates a new expenditure repository
func NewExpenditureRepository(db *database.DB, logger *zap.Logger) *ExpenditureRepository {
	return &ExpenditureRepository{db: db, logger: logger}
}

// Create inserts an expenditure. The total is recomputed from quantity
// and amount used; a submitted total is ignored.
func (r *ExpenditureRepository) Create(exp *models.Expenditure) error {
	if exp.DateTime.IsZero() {
		exp.DateTime = time.Now()
	}
	exp.Total = exp.Quantity * exp.AmountUsed

	result, err := r.db.Exec(`
		INSERT INTO expenditures (description, quantity, amount_used, total, date_time, created_by)
		VALUES (?, ?, ?, ?, ?, ?)`,
		exp.Description, exp.Quantity, exp.AmountUsed, exp.Total, exp.DateTime, exp.CreatedBy,
	)
	if err != nil {
		r.logger.Error("Failed to create expenditure", zap.Error(err))
		return &models.PersistenceError{Op: "create expenditure", Err: err}
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	exp.ID = id
	return nil
}

// Update rewrites an expenditure, recomputing its total
func (r *ExpenditureRepository) Update(exp *models.Expenditure) error {
	exp.Total = exp.Quantity * exp.AmountUsed

	result, err := r.db.Exec(`
		UPDATE expenditures SET description = ?, quantity = ?, amount_used = ?, total = ?
		WHERE id = ?`,
		exp.Description, exp.Quantity, exp.AmountUsed, exp.Total, exp.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update expenditure", zap.Int64("expenditure_id", exp.ID), zap.Error(err))
		return &models.PersistenceError{Op: "update expenditure", Err: err}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: expenditure %d", models.ErrNotFound, exp.ID)
	}
	return nil
}

// Delete removes an expenditure
func (r *ExpenditureRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM expenditures WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete expenditure", zap.Int64("expenditure_id", id), zap.Error(err))
		return &models.PersistenceError{Op: "delete expenditure", Err: err}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: expenditure %d", models.ErrNotFound, id)
	}
	return nil
}

// GetByID returns an expenditure with its resolved creator name
func (r *ExpenditureRepository) GetByID(id int64) (*models.Expenditure, error) {
	row := r.db.QueryRow(`
		SELECT e.id, e.description, e.quantity, e.amount_used, e.total, e.date_time,
		       e.created_by, COALESCE(u.username, '')
		FROM expenditures e
		LEFT JOIN users u ON u.id = e.created_by
		WHERE e.id = ?`, id)

	var exp models.Expenditure
	err := row.Scan(&exp.ID, &exp.Description, &exp.Quantity, &exp.AmountUsed,
		&exp.Total, &exp.DateTime, &exp.CreatedBy, &exp.CreatorName)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: expenditure %d", models.ErrNotFound, id)
	}
	if err != nil {
		r.logger.Error("Failed to get expenditure", zap.Int64("expenditure_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get expenditure: %w", err)
	}
	return &exp, nil
}

// List returns expenditures inside the window, newest first, with
// resolved creator names. A missing creator resolves to an empty name.
func (r *ExpenditureRepository) List(window report.Window) ([]models.Expenditure, error) {
	query := `
		SELECT e.id, e.description, e.quantity, e.amount_used, e.total, e.date_time,
		       e.created_by, COALESCE(u.username, '')
		FROM expenditures e
		LEFT JOIN users u ON u.id = e.created_by`
	where, args := windowPredicate("e.date_time", window)
	query += where + " ORDER BY e.date_time DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("Failed to list expenditures", zap.Error(err))
		return nil, fmt.Errorf("failed to list expenditures: %w", err)
	}
	defer rows.Close()

	var expenditures []models.Expenditure
	for rows.Next() {
		var exp models.Expenditure
		err := rows.Scan(&exp.ID, &exp.Description, &exp.Quantity, &exp.AmountUsed,
			&exp.Total, &exp.DateTime, &exp.CreatedBy, &exp.CreatorName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expenditure: %w", err)
		}
		expenditures = append(expenditures, exp)
	}
	return expenditures, rows.Err()
}
