package repository

import (
	"context"
	"fmt"
	"time"

	"studypulse/internal/domain"

	"github.com/jmoiron/sqlx"
)

// sqlxFlashcardViewRepository implements domain.FlashcardViewRepository using sqlx.
type sqlxFlashcardViewRepository struct {
	db *sqlx.DB
}

// NewSQLXFlashcardViewRepository creates a new instance of sqlxFlashcardViewRepository.
func NewSQLXFlashcardViewRepository(db *sqlx.DB) domain.FlashcardViewRepository {
	return &sqlxFlashcardViewRepository{db: db}
}

// CreateView appends one view event. The log is append-only; there is no
// update or delete path.
func (r *sqlxFlashcardViewRepository) CreateView(ctx context.Context, view *domain.FlashcardView) error {
	executor := GetExecutor(ctx, r.db)

	if view.ViewedAt.IsZero() {
		view.ViewedAt = time.Now()
	}

	query := `INSERT INTO flashcard_views (id, student_id, flashcard_id, viewed_at)
		VALUES ($1, $2, $3, $4)`

	_, err := executor.ExecContext(ctx, query, view.ID, view.StudentID, view.FlashcardID, view.ViewedAt)
	if err != nil {
		return fmt.Errorf("failed to create flashcard view: %w", err)
	}
	return nil
}
