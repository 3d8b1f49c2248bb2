package domain

import (
	"context"
	"time"
)

// AnsweredQuestion is one question from a test submission. Correctness is
// derived exactly once, at scoring time, and never recomputed from stored
// state.
type AnsweredQuestion struct {
	QuestionText  string
	CorrectAnswer string
	StudentAnswer string
	Topic         string
	Subtopic      string
}

// IsCorrect compares answers by exact string equality. No normalization and
// no case folding; that is the scoring contract.
func (q AnsweredQuestion) IsCorrect() bool {
	return q.StudentAnswer == q.CorrectAnswer
}

// TestSubmission is the transient input for one test: the ordered questions
// plus the time taken for the whole submission, in seconds.
type TestSubmission struct {
	Questions []AnsweredQuestion
	TimeTaken int
}

// Validate validates the submission
func (s *TestSubmission) Validate() error {
	if len(s.Questions) == 0 {
		return NewEmptySubmissionError()
	}
	if s.TimeTaken < 0 {
		return NewInvalidInputError("time_taken must be non-negative")
	}
	return nil
}

// QuestionDetail is the per-question breakdown kept inside a topic tally.
type QuestionDetail struct {
	Question      string `json:"question"`
	CorrectAnswer string `json:"correct_answer"`
	StudentAnswer string `json:"student_answer"`
	IsCorrect     bool   `json:"is_correct"`
}

// TopicTally accumulates correctness for a single topic.
type TopicTally struct {
	Correct   int              `json:"correct"`
	Total     int              `json:"total"`
	Questions []QuestionDetail `json:"questions"`
}

// Accuracy returns the topic accuracy as a percentage in [0, 100].
func (t TopicTally) Accuracy() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Correct) / float64(t.Total) * 100
}

// InsightPayload is the merged result of scoring plus the LLM narrative.
// It is persisted verbatim as TestResult.AIFeedback.
type InsightPayload struct {
	Analysis         string                `json:"analysis"`
	TopicPerformance map[string]TopicTally `json:"topic_performance"`
	Score            float64               `json:"score"`
	TimeTaken        int                   `json:"time_taken"`
}

// TestResult is one persisted record per submission. Immutable after
// creation; it owns its TestQuestion rows.
type TestResult struct {
	ID             string
	StudentID      string
	TestID         string
	Score          float64
	CompletedAt    time.Time
	AIFeedback     *InsightPayload
	TotalQuestions int
	CorrectAnswers int
	TopicsSummary  map[string]TopicTally
	TimeTaken      int
	Questions      []TestQuestion
}

// TestQuestion is the persisted copy of one answered question together with
// its correctness flag and the owning result's id.
type TestQuestion struct {
	ID            string
	TestResultID  string
	QuestionText  string
	CorrectAnswer string
	StudentAnswer string
	IsCorrect     bool
	Topic         string
	Subtopic      string
}

// TrendPoint is one entry of the historical performance trend.
type TrendPoint struct {
	Date  time.Time `json:"date"`
	Score float64   `json:"score"`
}

// StudentAnalytics is the single mutable summary per student. Created lazily
// on first submission, updated in place afterwards.
type StudentAnalytics struct {
	ID                    string
	StudentID             string
	TotalFlashcardsViewed int
	TotalTestsTaken       int
	AverageTestScore      float64
	WeakTopics            []string
	StrongTopics          []string
	LearningStreak        int
	LastActivity          time.Time
	HistoricalPerformance []TrendPoint
}

// NewStudentAnalytics returns a zero-initialized summary for a student.
func NewStudentAnalytics(studentID string) *StudentAnalytics {
	return &StudentAnalytics{
		StudentID:    studentID,
		WeakTopics:   []string{},
		StrongTopics: []string{},
	}
}

// FlashcardView is one append-only view event.
type FlashcardView struct {
	ID          string
	StudentID   string
	FlashcardID string
	ViewedAt    time.Time
}

// TestResultRepository defines persistence for test results and their
// owned questions.
type TestResultRepository interface {
	// CreateResult persists a result together with its questions. Callers
	// run this inside a transaction so the rows commit as one unit.
	CreateResult(ctx context.Context, result *TestResult) error

	// GetRecentResults returns up to limit results for the student, most
	// recent first.
	GetRecentResults(ctx context.Context, studentID string, limit int) ([]TestResult, error)
}

// StudentAnalyticsRepository defines persistence for the per-student summary.
type StudentAnalyticsRepository interface {
	// GetByStudentID returns the summary or nil when none exists.
	GetByStudentID(ctx context.Context, studentID string) (*StudentAnalytics, error)

	// Save inserts the summary when ID is empty, otherwise updates it.
	Save(ctx context.Context, analytics *StudentAnalytics) error
}

// FlashcardViewRepository defines persistence for the view event log.
type FlashcardViewRepository interface {
	CreateView(ctx context.Context, view *FlashcardView) error
}

// TransactionManager runs a function within a database transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// InsightGenerator is the external language-model collaborator. It accepts a
// fully built prompt and returns the narrative text body.
type InsightGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ChartRenderer turns a time-ordered score series into an opaque serialized
// chart artifact. The core never inspects its output.
type ChartRenderer interface {
	RenderScoreProgression(points []TrendPoint) ([]byte, error)
}
