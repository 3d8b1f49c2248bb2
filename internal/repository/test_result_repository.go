package repository

import (
	"context"
	"fmt"
	"time"

	"studypulse/internal/domain"
	"studypulse/internal/repository/models"
	"studypulse/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxTestResultRepository implements domain.TestResultRepository using sqlx.
type sqlxTestResultRepository struct {
	db *sqlx.DB
}

// NewSQLXTestResultRepository creates a new instance of sqlxTestResultRepository.
func NewSQLXTestResultRepository(db *sqlx.DB) domain.TestResultRepository {
	return &sqlxTestResultRepository{db: db}
}

func toDomainTestResult(m *models.TestResult) *domain.TestResult {
	if m == nil {
		return nil
	}
	return &domain.TestResult{
		ID:             m.ID,
		StudentID:      m.StudentID,
		TestID:         m.TestID,
		Score:          m.Score,
		CompletedAt:    m.CompletedAt,
		AIFeedback:     m.AIFeedback.Payload,
		TotalQuestions: m.TotalQuestions,
		CorrectAnswers: m.CorrectAnswers,
		TopicsSummary:  map[string]domain.TopicTally(m.TopicsSummary),
		TimeTaken:      m.TimeTaken,
	}
}

func fromDomainTestResult(d *domain.TestResult) *models.TestResult {
	if d == nil {
		return nil
	}
	return &models.TestResult{
		ID:             d.ID,
		StudentID:      d.StudentID,
		TestID:         d.TestID,
		Score:          d.Score,
		CompletedAt:    d.CompletedAt,
		AIFeedback:     models.InsightJSON{Payload: d.AIFeedback},
		TotalQuestions: d.TotalQuestions,
		CorrectAnswers: d.CorrectAnswers,
		TopicsSummary:  models.TopicSummary(d.TopicsSummary),
		TimeTaken:      d.TimeTaken,
	}
}

// CreateResult inserts the result row plus one row per owned question. It
// runs on the transaction carried by ctx when one is active.
func (r *sqlxTestResultRepository) CreateResult(ctx context.Context, result *domain.TestResult) error {
	executor := GetExecutor(ctx, r.db)

	model := fromDomainTestResult(result)
	if model.CompletedAt.IsZero() {
		model.CompletedAt = time.Now()
		result.CompletedAt = model.CompletedAt
	}

	resultQuery := `INSERT INTO test_results
		(id, student_id, test_id, score, completed_at, ai_feedback, total_questions, correct_answers, topics_summary, time_taken)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	feedback, err := model.AIFeedback.Value()
	if err != nil {
		return fmt.Errorf("failed to serialize ai feedback: %w", err)
	}
	topics, err := model.TopicsSummary.Value()
	if err != nil {
		return fmt.Errorf("failed to serialize topics summary: %w", err)
	}

	_, err = executor.ExecContext(ctx, resultQuery,
		model.ID,
		model.StudentID,
		model.TestID,
		model.Score,
		model.CompletedAt,
		feedback,
		model.TotalQuestions,
		model.CorrectAnswers,
		topics,
		model.TimeTaken,
	)
	if err != nil {
		return fmt.Errorf("failed to create test result: %w", err)
	}

	questionQuery := `INSERT INTO test_questions
		(id, test_result_id, question_text, correct_answer, student_answer, is_correct, topic, subtopic)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, q := range result.Questions {
		_, err = executor.ExecContext(ctx, questionQuery,
			q.ID,
			result.ID,
			q.QuestionText,
			q.CorrectAnswer,
			q.StudentAnswer,
			q.IsCorrect,
			q.Topic,
			util.StringToNullString(q.Subtopic),
		)
		if err != nil {
			return fmt.Errorf("failed to create test question: %w", err)
		}
	}

	return nil
}

// GetRecentResults returns up to limit results for the student, most recent
// first. Owned questions are not loaded; callers only need the summaries.
func (r *sqlxTestResultRepository) GetRecentResults(ctx context.Context, studentID string, limit int) ([]domain.TestResult, error) {
	executor := GetExecutor(ctx, r.db)

	if limit <= 0 {
		limit = 10
	}

	query := `SELECT id, student_id, test_id, score, completed_at, ai_feedback, total_questions, correct_answers, topics_summary, time_taken
		FROM test_results
		WHERE student_id = $1
		ORDER BY completed_at DESC
		LIMIT $2`

	var modelResults []models.TestResult
	if err := executor.SelectContext(ctx, &modelResults, query, studentID, limit); err != nil {
		return nil, fmt.Errorf("failed to query recent test results: %w", err)
	}

	domainResults := make([]domain.TestResult, len(modelResults))
	for i := range modelResults {
		domainResults[i] = *toDomainTestResult(&modelResults[i])
	}
	return domainResults, nil
}
