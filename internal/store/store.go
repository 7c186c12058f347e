// Package store persists categories and classified transactions in SQLite.
// The category table is the source of truth for the category registry:
// classifier labels are resolved against it and unseen labels are created
// on first use, never deleted or renamed here.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mar-formanite/finwise/internal/logging"
	"github.com/mar-formanite/finwise/internal/models"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Store is a SQLite-backed transaction and category store.
type Store struct {
	db  *sql.DB
	log logging.Logger
}

// Open opens (creating if necessary) the SQLite database at dbPath and runs
// schema migrations. The parent directory is created when missing.
func Open(dbPath string, logger logging.Logger) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("database path cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite does not benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db, log: logger}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			amount TEXT NOT NULL,
			source TEXT NOT NULL,
			category_id INTEGER NOT NULL,
			confidence REAL NOT NULL DEFAULT 0,
			explanation TEXT NOT NULL DEFAULT '',
			image TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (category_id) REFERENCES categories(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_source ON transactions(source)`,
	}
	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	return nil
}

// GetCategoryByName returns the category with the given name, or nil when no
// such category exists.
func (s *Store) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	if name == "" {
		return nil, errors.New("category name cannot be empty")
	}

	var cat models.Category
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM categories WHERE name = ?`, name,
	).Scan(&cat.ID, &cat.Name, &cat.Description, &cat.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return &cat, nil
}

// GetOrCreateCategory returns the category with the given name, creating it
// with a generated description when it does not exist yet. The insert uses
// ON CONFLICT DO NOTHING so concurrent callers racing on the same name both
// observe the single created row.
func (s *Store) GetOrCreateCategory(ctx context.Context, name string) (models.Category, error) {
	if name == "" {
		return models.Category{}, errors.New("category name cannot be empty")
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, description) VALUES (?, ?)
		 ON CONFLICT(name) DO NOTHING`,
		name, models.DefaultCategoryDescription(name))
	if err != nil {
		return models.Category{}, fmt.Errorf("failed to create category: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.log.Info("Created category", logging.Field{Key: logging.FieldCategory, Value: name})
	}

	cat, err := s.GetCategoryByName(ctx, name)
	if err != nil {
		return models.Category{}, err
	}
	if cat == nil {
		return models.Category{}, fmt.Errorf("category %q vanished after upsert", name)
	}
	return *cat, nil
}

// ListCategories returns all categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []models.Category
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

// SeedCategories inserts the given category definitions, skipping names that
// already exist. It returns the number of newly created categories.
func (s *Store) SeedCategories(ctx context.Context, configs []models.CategoryConfig) (int, error) {
	created := 0
	for _, cfg := range configs {
		if cfg.Name == "" {
			continue
		}
		description := cfg.Description
		if description == "" {
			description = models.DefaultCategoryDescription(cfg.Name)
		}
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO categories (name, description) VALUES (?, ?)
			 ON CONFLICT(name) DO NOTHING`,
			cfg.Name, description)
		if err != nil {
			return created, fmt.Errorf("failed to seed category %q: %w", cfg.Name, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			created++
		}
	}
	s.log.Info("Seeded categories", logging.Field{Key: logging.FieldCount, Value: created})
	return created, nil
}

// SaveTransaction persists a classified candidate, resolving its category
// against the registry. The returned transaction carries the generated id.
func (s *Store) SaveTransaction(ctx context.Context, c models.Candidate) (models.Transaction, error) {
	if c.Text == "" {
		return models.Transaction{}, errors.New("transaction text cannot be empty")
	}
	category := c.Category
	if category == "" {
		category = models.CategoryMiscellaneous
	}

	cat, err := s.GetOrCreateCategory(ctx, category)
	if err != nil {
		return models.Transaction{}, err
	}

	txn := models.Transaction{
		ID:          uuid.New().String(),
		Text:        c.Text,
		Amount:      c.Amount,
		Source:      c.Source,
		Category:    cat.Name,
		Confidence:  c.Confidence,
		Explanation: c.Explanation,
		Image:       c.Image,
		CreatedAt:   time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, text, amount, source, category_id, confidence, explanation, image, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.Text, txn.Amount.String(), string(txn.Source), cat.ID,
		txn.Confidence, txn.Explanation, txn.Image, txn.CreatedAt)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("failed to save transaction: %w", err)
	}
	return txn, nil
}

// SaveTransactions persists well-formed candidates one at a time in input
// order; error records are skipped. On failure it returns the transactions
// persisted before the failing candidate along with the error, so earlier
// rows remain committed.
func (s *Store) SaveTransactions(ctx context.Context, results []models.CandidateResult) ([]models.Transaction, error) {
	var saved []models.Transaction
	for _, res := range results {
		if res.IsError() {
			continue
		}
		txn, err := s.SaveTransaction(ctx, *res.Candidate)
		if err != nil {
			return saved, err
		}
		saved = append(saved, txn)
	}
	s.log.Info("Saved transactions", logging.Field{Key: logging.FieldCount, Value: len(saved)})
	return saved, nil
}

// ListTransactions returns up to limit most recent transactions with their
// category names resolved. A non-positive limit returns all transactions.
func (s *Store) ListTransactions(ctx context.Context, limit int) ([]models.Transaction, error) {
	query := `
		SELECT t.id, t.text, t.amount, t.source, c.name, t.confidence, t.explanation, t.image, t.created_at
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		ORDER BY t.created_at DESC, t.id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []models.Transaction
	for rows.Next() {
		var (
			txn    models.Transaction
			amount string
			source string
		)
		if err := rows.Scan(&txn.ID, &txn.Text, &amount, &source, &txn.Category,
			&txn.Confidence, &txn.Explanation, &txn.Image, &txn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
		}
		txn.Source = models.Source(source)
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txns, nil
}
