package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"studypulse/internal/domain"
	"studypulse/internal/repository/models"
	"studypulse/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxStudentAnalyticsRepository implements domain.StudentAnalyticsRepository using sqlx.
type sqlxStudentAnalyticsRepository struct {
	db *sqlx.DB
}

// NewSQLXStudentAnalyticsRepository creates a new instance of sqlxStudentAnalyticsRepository.
func NewSQLXStudentAnalyticsRepository(db *sqlx.DB) domain.StudentAnalyticsRepository {
	return &sqlxStudentAnalyticsRepository{db: db}
}

func toDomainStudentAnalytics(m *models.StudentAnalytics) *domain.StudentAnalytics {
	if m == nil {
		return nil
	}
	var lastActivity time.Time
	if m.LastActivity.Valid {
		lastActivity = m.LastActivity.Time
	}
	weak := []string(m.WeakTopics)
	if weak == nil {
		weak = []string{}
	}
	strong := []string(m.StrongTopics)
	if strong == nil {
		strong = []string{}
	}
	return &domain.StudentAnalytics{
		ID:                    m.ID,
		StudentID:             m.StudentID,
		TotalFlashcardsViewed: m.TotalFlashcardsViewed,
		TotalTestsTaken:       m.TotalTestsTaken,
		AverageTestScore:      m.AverageTestScore,
		WeakTopics:            weak,
		StrongTopics:          strong,
		LearningStreak:        m.LearningStreak,
		LastActivity:          lastActivity,
		HistoricalPerformance: []domain.TrendPoint(m.HistoricalPerformance),
	}
}

func fromDomainStudentAnalytics(d *domain.StudentAnalytics) *models.StudentAnalytics {
	if d == nil {
		return nil
	}
	return &models.StudentAnalytics{
		ID:                    d.ID,
		StudentID:             d.StudentID,
		TotalFlashcardsViewed: d.TotalFlashcardsViewed,
		TotalTestsTaken:       d.TotalTestsTaken,
		AverageTestScore:      d.AverageTestScore,
		WeakTopics:            models.StringSlice(d.WeakTopics),
		StrongTopics:          models.StringSlice(d.StrongTopics),
		LearningStreak:        d.LearningStreak,
		LastActivity:          util.TimeToNullTime(d.LastActivity),
		HistoricalPerformance: models.TrendPoints(d.HistoricalPerformance),
	}
}

// GetByStudentID returns the analytics row for the student, or nil when no
// row exists yet.
func (r *sqlxStudentAnalyticsRepository) GetByStudentID(ctx context.Context, studentID string) (*domain.StudentAnalytics, error) {
	executor := GetExecutor(ctx, r.db)

	query := `SELECT id, student_id, total_flashcards_viewed, total_tests_taken, average_test_score,
		weak_topics, strong_topics, learning_streak, last_activity, historical_performance
		FROM student_analytics
		WHERE student_id = $1`

	var model models.StudentAnalytics
	if err := executor.GetContext(ctx, &model, query, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query student analytics: %w", err)
	}
	return toDomainStudentAnalytics(&model), nil
}

// Save inserts the row when the domain object has no ID yet, otherwise
// updates the existing row in place.
func (r *sqlxStudentAnalyticsRepository) Save(ctx context.Context, analytics *domain.StudentAnalytics) error {
	executor := GetExecutor(ctx, r.db)

	if analytics.ID == "" {
		analytics.ID = util.NewULID()
		model := fromDomainStudentAnalytics(analytics)

		query := `INSERT INTO student_analytics
			(id, student_id, total_flashcards_viewed, total_tests_taken, average_test_score,
			 weak_topics, strong_topics, learning_streak, last_activity, historical_performance)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

		_, err := executor.ExecContext(ctx, query,
			model.ID,
			model.StudentID,
			model.TotalFlashcardsViewed,
			model.TotalTestsTaken,
			model.AverageTestScore,
			model.WeakTopics,
			model.StrongTopics,
			model.LearningStreak,
			model.LastActivity,
			model.HistoricalPerformance,
		)
		if err != nil {
			return fmt.Errorf("failed to insert student analytics: %w", err)
		}
		return nil
	}

	model := fromDomainStudentAnalytics(analytics)

	query := `UPDATE student_analytics SET
		total_flashcards_viewed = $1,
		total_tests_taken = $2,
		average_test_score = $3,
		weak_topics = $4,
		strong_topics = $5,
		learning_streak = $6,
		last_activity = $7,
		historical_performance = $8
		WHERE id = $9`

	result, err := executor.ExecContext(ctx, query,
		model.TotalFlashcardsViewed,
		model.TotalTestsTaken,
		model.AverageTestScore,
		model.WeakTopics,
		model.StrongTopics,
		model.LearningStreak,
		model.LastActivity,
		model.HistoricalPerformance,
		model.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update student analytics: %w", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("student analytics row not found for update: %s", model.ID)
	}
	return nil
}
