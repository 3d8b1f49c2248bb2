package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"studypulse/internal/domain"
)

// StringSlice is a custom type for storing string arrays as JSON text
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	bytesToParse, err := jsonColumnBytes(value)
	if err != nil {
		return fmt.Errorf("StringSlice Scan: %w", err)
	}
	if bytesToParse == nil {
		*s = StringSlice{}
		return nil
	}
	return json.Unmarshal(bytesToParse, s)
}

// TopicSummary stores the per-topic tally mapping as JSON text
type TopicSummary map[string]domain.TopicTally

// Value implements the driver.Valuer interface
func (t TopicSummary) Value() (driver.Value, error) {
	if t == nil {
		return "{}", nil
	}
	jsonData, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (t *TopicSummary) Scan(value interface{}) error {
	if value == nil {
		*t = TopicSummary{}
		return nil
	}

	bytesToParse, err := jsonColumnBytes(value)
	if err != nil {
		return fmt.Errorf("TopicSummary Scan: %w", err)
	}
	if bytesToParse == nil {
		*t = TopicSummary{}
		return nil
	}
	return json.Unmarshal(bytesToParse, t)
}

// TrendPoints stores the historical performance trend as JSON text
type TrendPoints []domain.TrendPoint

// Value implements the driver.Valuer interface
func (p TrendPoints) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (p *TrendPoints) Scan(value interface{}) error {
	if value == nil {
		*p = TrendPoints{}
		return nil
	}

	bytesToParse, err := jsonColumnBytes(value)
	if err != nil {
		return fmt.Errorf("TrendPoints Scan: %w", err)
	}
	if bytesToParse == nil {
		*p = TrendPoints{}
		return nil
	}
	return json.Unmarshal(bytesToParse, p)
}

// InsightJSON stores the merged insight payload as JSON text
type InsightJSON struct {
	Payload *domain.InsightPayload
}

// Value implements the driver.Valuer interface
func (i InsightJSON) Value() (driver.Value, error) {
	if i.Payload == nil {
		return nil, nil
	}
	jsonData, err := json.Marshal(i.Payload)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (i *InsightJSON) Scan(value interface{}) error {
	if value == nil {
		i.Payload = nil
		return nil
	}

	bytesToParse, err := jsonColumnBytes(value)
	if err != nil {
		return fmt.Errorf("InsightJSON Scan: %w", err)
	}
	if bytesToParse == nil {
		i.Payload = nil
		return nil
	}
	i.Payload = &domain.InsightPayload{}
	return json.Unmarshal(bytesToParse, i.Payload)
}

// jsonColumnBytes normalizes a scanned JSON column to a byte slice. It
// returns nil bytes for empty strings and literal "null" so callers can fall
// back to their zero value.
func jsonColumnBytes(value interface{}) ([]byte, error) {
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return nil, errors.New("unsupported type " + fmt.Sprintf("%T", value))
	}
	if len(b) == 0 || string(b) == "null" {
		return nil, nil
	}
	return b, nil
}

// TestResult is the persisted form of one graded submission.
type TestResult struct {
	ID             string       `db:"id"`
	StudentID      string       `db:"student_id"`
	TestID         string       `db:"test_id"`
	Score          float64      `db:"score"`
	CompletedAt    time.Time    `db:"completed_at"`
	AIFeedback     InsightJSON  `db:"ai_feedback"`
	TotalQuestions int          `db:"total_questions"`
	CorrectAnswers int          `db:"correct_answers"`
	TopicsSummary  TopicSummary `db:"topics_summary"`
	TimeTaken      int          `db:"time_taken"`
}

func (TestResult) TableName() string {
	return "test_results"
}

// TestQuestion is the persisted copy of one answered question.
type TestQuestion struct {
	ID            string         `db:"id"`
	TestResultID  string         `db:"test_result_id"`
	QuestionText  string         `db:"question_text"`
	CorrectAnswer string         `db:"correct_answer"`
	StudentAnswer string         `db:"student_answer"`
	IsCorrect     bool           `db:"is_correct"`
	Topic         string         `db:"topic"`
	Subtopic      sql.NullString `db:"subtopic"`
}

func (TestQuestion) TableName() string {
	return "test_questions"
}

// StudentAnalytics is the single mutable summary row per student.
type StudentAnalytics struct {
	ID                    string       `db:"id"`
	StudentID             string       `db:"student_id"`
	TotalFlashcardsViewed int          `db:"total_flashcards_viewed"`
	TotalTestsTaken       int          `db:"total_tests_taken"`
	AverageTestScore      float64      `db:"average_test_score"`
	WeakTopics            StringSlice  `db:"weak_topics"`
	StrongTopics          StringSlice  `db:"strong_topics"`
	LearningStreak        int          `db:"learning_streak"`
	LastActivity          sql.NullTime `db:"last_activity"`
	HistoricalPerformance TrendPoints  `db:"historical_performance"`
}

func (StudentAnalytics) TableName() string {
	return "student_analytics"
}

// FlashcardView is one append-only view event row.
type FlashcardView struct {
	ID          string    `db:"id"`
	StudentID   string    `db:"student_id"`
	FlashcardID string    `db:"flashcard_id"`
	ViewedAt    time.Time `db:"viewed_at"`
}

func (FlashcardView) TableName() string {
	return "flashcard_views"
}
