package dto

import "time"

// QuestionSubmission represents one answered question in the API request
type QuestionSubmission struct {
	QuestionText  string `json:"question_text"`
	CorrectAnswer string `json:"correct_answer"`
	StudentAnswer string `json:"student_answer"`
	Topic         string `json:"topic"`
	Subtopic      string `json:"subtopic"`
}

// SubmitTestRequest represents a full test submission in the API request
// @Description Request body for submitting a completed test
type SubmitTestRequest struct {
	Questions []QuestionSubmission `json:"questions"`
	TimeTaken int                  `json:"time_taken"` // in seconds
}

// TopicTallyResponse mirrors the per-topic tally in API responses
type TopicTallyResponse struct {
	Correct   int                      `json:"correct"`
	Total     int                      `json:"total"`
	Questions []QuestionDetailResponse `json:"questions"`
}

// QuestionDetailResponse is the per-question breakdown inside a topic tally
type QuestionDetailResponse struct {
	Question      string `json:"question"`
	CorrectAnswer string `json:"correct_answer"`
	StudentAnswer string `json:"student_answer"`
	IsCorrect     bool   `json:"is_correct"`
}

// InsightResponse is the merged insight payload in the API response
type InsightResponse struct {
	Analysis         string                        `json:"analysis"`
	TopicPerformance map[string]TopicTallyResponse `json:"topic_performance"`
	Score            float64                       `json:"score"`
	TimeTaken        int                           `json:"time_taken"`
}

// AnalyticsSummaryResponse is the condensed per-student summary
type AnalyticsSummaryResponse struct {
	TotalTests     int      `json:"total_tests"`
	AverageScore   float64  `json:"average_score"`
	LearningStreak int      `json:"learning_streak"`
	WeakTopics     []string `json:"weak_topics"`
	StrongTopics   []string `json:"strong_topics"`
}

// SubmitTestResponse represents the submission result in the API response
type SubmitTestResponse struct {
	Status           string                   `json:"status"`
	Insights         InsightResponse          `json:"insights"`
	AnalyticsSummary AnalyticsSummaryResponse `json:"analytics_summary"`
}

// OverallStatsResponse is the analytics snapshot returned by the query path
type OverallStatsResponse struct {
	TotalTestsTaken       int       `json:"total_tests_taken"`
	TotalFlashcardsViewed int       `json:"total_flashcards_viewed"`
	AverageScore          float64   `json:"average_score"`
	LearningStreak        int       `json:"learning_streak"`
	WeakTopics            []string  `json:"weak_topics"`
	StrongTopics          []string  `json:"strong_topics"`
	LastActivity          time.Time `json:"last_activity"`
}

// RecentTestResponse is one recent test entry in the performance report
type RecentTestResponse struct {
	Date      time.Time `json:"date"`
	Score     float64   `json:"score"`
	Topics    []string  `json:"topics"`
	TimeTaken int       `json:"time_taken"`
	Insights  string    `json:"insights"`
}

// ScorePointResponse is one (date, score) point of the charting series
type ScorePointResponse struct {
	Date  time.Time `json:"date"`
	Score float64   `json:"score"`
}

// PerformanceReportResponse represents the query entry point response
type PerformanceReportResponse struct {
	OverallStats     OverallStatsResponse `json:"overall_stats"`
	RecentTests      []RecentTestResponse `json:"recent_tests"`
	ScoreSeries      []ScorePointResponse `json:"score_series"`
	PerformanceChart []byte               `json:"performance_chart,omitempty"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
