package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/neomorfeo/skucatalog/internal/domain"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // Register SQLite driver.
)

//go:embed migrations/*.sql
var migrations embed.FS

// SKURepository implements domain.SKURepository using SQLite.
type SKURepository struct {
	db *sql.DB
}

// Compile-time check: SKURepository implements domain.SKURepository.
var _ domain.SKURepository = (*SKURepository)(nil)

// New opens a SQLite database, runs migrations, and returns a ready repository.
func New(dataSourceName string) (*SKURepository, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Each connection to ":memory:" is its own database.
	if dataSourceName == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	return NewFromDB(db)
}

// NewFromDB wraps an existing database connection, runs migrations, and returns a ready repository.
// Use this when the *sql.DB has been pre-configured (e.g., with otelsql instrumentation).
func NewFromDB(db *sql.DB) (*SKURepository, error) {
	if err := runMigrations(db); err != nil {
		return nil, err
	}

	return &SKURepository{db: db}, nil
}

// Close closes the underlying database connection.
func (r *SKURepository) Close() error {
	return r.db.Close()
}

// DB returns the underlying database connection for use by other adapters (e.g., river).
func (r *SKURepository) DB() *sql.DB {
	return r.db
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

// Fixed-width so that lexical order on the column matches time order.
const timeFormat = "2006-01-02T15:04:05.000Z"

const selectColumns = `SELECT id, description, commercial_description, code, status, created_at, updated_at FROM skus`

func (r *SKURepository) Create(ctx context.Context, s domain.SKU) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO skus (id, description, commercial_description, code, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Description, s.CommercialDescription, s.Code, string(s.Status),
		s.CreatedAt.UTC().Format(timeFormat),
		s.UpdatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.CodeConflictError{Code: s.Code}
		}
		return &domain.StorageError{Op: "inserting sku", Err: err}
	}
	return nil
}

func (r *SKURepository) GetByID(ctx context.Context, id string) (domain.SKU, error) {
	return r.scanSKU(r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
}

func (r *SKURepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.SKU, error) {
	query := selectColumns
	var args []any

	if filter.Status != nil {
		query += ` WHERE status = ?`
		args = append(args, string(*filter.Status))
	}

	query += ` ORDER BY created_at DESC, id`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	} else if filter.Offset > 0 {
		// SQLite only accepts OFFSET after LIMIT.
		query += ` LIMIT -1`
	}

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &domain.StorageError{Op: "listing skus", Err: err}
	}
	defer rows.Close()

	skus := make([]domain.SKU, 0)
	for rows.Next() {
		s, err := r.scanSKU(rows)
		if err != nil {
			return nil, err
		}
		skus = append(skus, s)
	}

	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "listing skus", Err: err}
	}
	return skus, nil
}

// Update writes every mutable column in one statement and stamps updated_at.
func (r *SKURepository) Update(ctx context.Context, s domain.SKU) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE skus SET description = ?, commercial_description = ?, code = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		s.Description, s.CommercialDescription, s.Code, string(s.Status),
		time.Now().UTC().Format(timeFormat), s.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.CodeConflictError{Code: s.Code}
		}
		return &domain.StorageError{Op: "updating sku", Err: err}
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return &domain.StorageError{Op: "checking rows affected", Err: err}
	}
	if rows == 0 {
		return domain.ErrSKUNotFound
	}

	return nil
}

func (r *SKURepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM skus WHERE id = ?`, id)
	if err != nil {
		return &domain.StorageError{Op: "deleting sku", Err: err}
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return &domain.StorageError{Op: "checking rows affected", Err: err}
	}
	if rows == 0 {
		return domain.ErrSKUNotFound
	}

	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (r *SKURepository) scanSKU(row scanner) (domain.SKU, error) {
	var s domain.SKU
	var status, createdAt, updatedAt string

	err := row.Scan(&s.ID, &s.Description, &s.CommercialDescription, &s.Code, &status, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.SKU{}, domain.ErrSKUNotFound
		}
		return domain.SKU{}, &domain.StorageError{Op: "scanning sku", Err: err}
	}

	s.Status = domain.Status(status)
	s.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	s.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)

	return s, nil
}

// isUniqueViolation checks if a SQLite error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
