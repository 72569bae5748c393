package feedback

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/amsmath/ams/internal/db"
)

// Store persists feedback entries.
type Store struct {
	db *db.DB
}

// NewStore creates a new feedback store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Add inserts an entry. ID and CreatedAt are filled in when empty.
func (s *Store) Add(ctx context.Context, e Entry) (*Entry, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback_entries (id, author, rating, comment, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Author, e.Rating, e.Comment, e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting feedback: %w", err)
	}
	return &e, nil
}

// List returns entries newest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, author, rating, comment, created_at FROM feedback_entries ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing feedback: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Author, &e.Rating, &e.Comment, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning feedback: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback_entries`).Scan(&count)
	return count, err
}
