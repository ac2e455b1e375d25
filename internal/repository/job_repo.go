package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bizhub/backoffice/internal/models"
	"github.com/bizhub/backoffice/internal/report"
	"github.com/bizhub/backoffice/pkg/database"
)

// JobRepository handles job and job item database operations
type JobRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *database.DB, logger *zap.Logger) *JobRepository {
	return &JobRepository{db: db, logger: logger}
}

// Create inserts a job together with its line items in one transaction.
// Item totals are recomputed from quantity and price; submitted totals
// are ignored.
func (r *JobRepository) Create(job *models.Job) error {
	if job.DateTime.IsZero() {
		job.DateTime = time.Now()
	}

	err := r.db.WithTransaction(func(tx *sql.Tx) error {
		result, err := tx.Exec(`
			INSERT INTO jobs (customer_name, status, payment_method, date_time, created_by)
			VALUES (?, ?, ?, ?, ?)`,
			job.CustomerName, job.Status, job.PaymentMethod, job.DateTime, job.CreatedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to insert job: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		job.ID = id

		return insertItems(tx, job)
	})
	if err != nil {
		r.logger.Error("Failed to create job", zap.Error(err))
		return &models.PersistenceError{Op: "create job", Err: err}
	}
	return nil
}

// Update rewrites the job row and replaces its entire item set: all prior
// items are deleted and the submitted set inserted. No diffing is
// attempted; replace-not-merge is the contract.
func (r *JobRepository) Update(job *models.Job) error {
	err := r.db.WithTransaction(func(tx *sql.Tx) error {
		result, err := tx.Exec(`
			UPDATE jobs SET customer_name = ?, status = ?, payment_method = ?
			WHERE id = ?`,
			job.CustomerName, job.Status, job.PaymentMethod, job.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update job: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: job %d", models.ErrNotFound, job.ID)
		}

		if _, err := tx.Exec("DELETE FROM job_items WHERE job_id = ?", job.ID); err != nil {
			return fmt.Errorf("failed to delete existing items: %w", err)
		}

		return insertItems(tx, job)
	})
	if err != nil {
		if models.IsNotFound(err) {
			return err
		}
		r.logger.Error("Failed to update job", zap.Int64("job_id", job.ID), zap.Error(err))
		return &models.PersistenceError{Op: "update job", Err: err}
	}
	return nil
}

func insertItems(tx *sql.Tx, job *models.Job) error {
	for i := range job.Items {
		item := models.NewJobItem(job.ID, job.Items[i].Description, job.Items[i].Quantity, job.Items[i].Price)

		result, err := tx.Exec(`
			INSERT INTO job_items (job_id, description, quantity, price, total)
			VALUES (?, ?, ?, ?, ?)`,
			item.JobID, item.Description, item.Quantity, item.Price, item.Total,
		)
		if err != nil {
			return fmt.Errorf("failed to insert job item: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		item.ID = id
		job.Items[i] = item
	}
	return nil
}

// Delete removes a job; its items cascade with it
func (r *JobRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM jobs WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete job", zap.Int64("job_id", id), zap.Error(err))
		return &models.PersistenceError{Op: "delete job", Err: err}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: job %d", models.ErrNotFound, id)
	}
	return nil
}

// GetByID returns a job with its items and resolved creator name
func (r *JobRepository) GetByID(id int64) (*models.Job, error) {
	row := r.db.QueryRow(`
		SELECT j.id, j.customer_name, j.status, j.payment_method, j.date_time,
		       j.created_by, COALESCE(u.username, '')
		FROM jobs j
		LEFT JOIN users u ON u.id = j.created_by
		WHERE j.id = ?`, id)

	var job models.Job
	err := row.Scan(&job.ID, &job.CustomerName, &job.Status, &job.PaymentMethod,
		&job.DateTime, &job.CreatedBy, &job.CreatorName)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: job %d", models.ErrNotFound, id)
	}
	if err != nil {
		r.logger.Error("Failed to get job", zap.Int64("job_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	if err := r.loadItems(map[int64]*models.Job{job.ID: &job}); err != nil {
		return nil, err
	}
	return &job, nil
}

// List returns jobs inside the window, newest first, each with its items
// and resolved creator name. A missing creator resolves to an empty name
// rather than an error.
func (r *JobRepository) List(window report.Window) ([]models.Job, error) {
	query := `
		SELECT j.id, j.customer_name, j.status, j.payment_method, j.date_time,
		       j.created_by, COALESCE(u.username, '')
		FROM jobs j
		LEFT JOIN users u ON u.id = j.created_by`
	where, args := windowPredicate("j.date_time", window)
	query += where + " ORDER BY j.date_time DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("Failed to list jobs", zap.Error(err))
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.Job
	byID := make(map[int64]*models.Job)
	for rows.Next() {
		var job models.Job
		err := rows.Scan(&job.ID, &job.CustomerName, &job.Status, &job.PaymentMethod,
			&job.DateTime, &job.CreatedBy, &job.CreatorName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}

	for i := range jobs {
		byID[jobs[i].ID] = &jobs[i]
	}
	if err := r.loadItems(byID); err != nil {
		return nil, err
	}
	return jobs, nil
}

// loadItems attaches line items to the given jobs, preserving insertion order
func (r *JobRepository) loadItems(jobs map[int64]*models.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(jobs))
	args := make([]interface{}, 0, len(jobs))
	for id := range jobs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		SELECT id, job_id, description, quantity, price, total
		FROM job_items
		WHERE job_id IN (%s)
		ORDER BY id`, strings.Join(placeholders, ", "))

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("Failed to load job items", zap.Error(err))
		return fmt.Errorf("failed to load job items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.JobItem
		err := rows.Scan(&item.ID, &item.JobID, &item.Description,
			&item.Quantity, &item.Price, &item.Total)
		if err != nil {
			return fmt.Errorf("failed to scan job item: %w", err)
		}
		if job, ok := jobs[item.JobID]; ok {
			job.Items = append(job.Items, item)
		}
	}
	return rows.Err()
}

// windowPredicate renders a half-open window as a WHERE clause on the
// given column. Unbounded windows render no clause at all.
func windowPredicate(column string, window report.Window) (string, []interface{}) {
	var clauses []string
	var args []interface{}
	if window.HasStart {
		clauses = append(clauses, column+" >= ?")
		args = append(args, window.Start)
	}
	if window.HasEnd {
		clauses = append(clauses, column+" < ?")
		args = append(args, window.End)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
