package service

import (
	"context"
	"errors"
	"time"

	"studypulse/internal/cache"
	"studypulse/internal/domain"
	"studypulse/internal/dto"
	"studypulse/internal/logger"
	"studypulse/internal/util"

	"go.uber.org/zap"
)

// priorScoreWindow is how many earlier results feed the historical context
// and the sliding average.
const priorScoreWindow = 5

// AnalyticsService defines the submission-side operations
type AnalyticsService interface {
	// SubmitTest grades a submission, generates insights and merges the
	// outcome into the student's analytics summary.
	SubmitTest(ctx context.Context, studentID, testID string, req *dto.SubmitTestRequest) (*dto.SubmitTestResponse, error)

	// RecordFlashcardView appends a view event and bumps the view counter.
	RecordFlashcardView(ctx context.Context, studentID, flashcardID string) error
}

type analyticsService struct {
	resultRepo    domain.TestResultRepository
	analyticsRepo domain.StudentAnalyticsRepository
	viewRepo      domain.FlashcardViewRepository
	txManager     domain.TransactionManager
	composer      InsightComposer
	reportCache   domain.Cache
	locks         *studentLocker
	now           func() time.Time
}

// NewAnalyticsService creates a new instance of analyticsService
func NewAnalyticsService(
	resultRepo domain.TestResultRepository,
	analyticsRepo domain.StudentAnalyticsRepository,
	viewRepo domain.FlashcardViewRepository,
	txManager domain.TransactionManager,
	composer InsightComposer,
	reportCache domain.Cache,
) AnalyticsService {
	return &analyticsService{
		resultRepo:    resultRepo,
		analyticsRepo: analyticsRepo,
		viewRepo:      viewRepo,
		txManager:     txManager,
		composer:      composer,
		reportCache:   reportCache,
		locks:         newStudentLocker(),
		now:           time.Now,
	}
}

// SubmitTest implements AnalyticsService. The LLM call happens before the
// transaction opens, so the long-latency step never holds database locks;
// everything persisted for one submission commits or rolls back as one unit.
func (s *analyticsService) SubmitTest(ctx context.Context, studentID, testID string, req *dto.SubmitTestRequest) (*dto.SubmitTestResponse, error) {
	if studentID == "" {
		return nil, domain.NewInvalidInputError("student id is required")
	}
	if testID == "" {
		return nil, domain.NewInvalidInputError("test id is required")
	}

	submission := toDomainSubmission(req)
	if err := submission.Validate(); err != nil {
		return nil, err
	}

	summary, err := domain.ScoreSubmission(submission.Questions)
	if err != nil {
		return nil, err
	}

	priorResults, err := s.resultRepo.GetRecentResults(ctx, studentID, priorScoreWindow)
	if err != nil {
		return nil, domain.NewStorageError("failed to load prior results", err)
	}
	priorScores := make([]float64, len(priorResults))
	for i, r := range priorResults {
		priorScores[i] = r.Score
	}

	insights, err := s.composer.Compose(ctx, summary, priorScores, submission.TimeTaken)
	if err != nil {
		return nil, err
	}

	if err := s.locks.Acquire(ctx, studentID); err != nil {
		return nil, domain.NewInternalError("failed to acquire student lock", err)
	}
	defer s.locks.Release(studentID)

	now := s.now()
	result := buildTestResult(studentID, testID, submission, summary, insights, now)

	var analytics *domain.StudentAnalytics
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.resultRepo.CreateResult(txCtx, result); err != nil {
			return domain.NewStorageError("failed to persist test result", err)
		}

		analytics, err = s.analyticsRepo.GetByStudentID(txCtx, studentID)
		if err != nil {
			return domain.NewStorageError("failed to load student analytics", err)
		}
		if analytics == nil {
			analytics = domain.NewStudentAnalytics(studentID)
		}

		ApplyTestResult(analytics, summary, priorScores, now)

		if err := s.analyticsRepo.Save(txCtx, analytics); err != nil {
			return domain.NewStorageError("failed to save student analytics", err)
		}
		return nil
	})
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, domainErr
		}
		return nil, domain.NewStorageError("submission transaction failed", err)
	}

	s.invalidateReport(ctx, studentID)

	logger.Get().Info("Test submission recorded",
		zap.String("student_id", studentID),
		zap.String("test_id", testID),
		zap.Float64("score", summary.OverallScore),
		zap.Int("streak", analytics.LearningStreak))

	return &dto.SubmitTestResponse{
		Status:   "success",
		Insights: toInsightResponse(insights),
		AnalyticsSummary: dto.AnalyticsSummaryResponse{
			TotalTests:     analytics.TotalTestsTaken,
			AverageScore:   analytics.AverageTestScore,
			LearningStreak: analytics.LearningStreak,
			WeakTopics:     analytics.WeakTopics,
			StrongTopics:   analytics.StrongTopics,
		},
	}, nil
}

// RecordFlashcardView implements AnalyticsService. The view counter lives on
// the analytics row but its update path is separate from the submission core.
func (s *analyticsService) RecordFlashcardView(ctx context.Context, studentID, flashcardID string) error {
	if studentID == "" || flashcardID == "" {
		return domain.NewInvalidInputError("student id and flashcard id are required")
	}

	if err := s.locks.Acquire(ctx, studentID); err != nil {
		return domain.NewInternalError("failed to acquire student lock", err)
	}
	defer s.locks.Release(studentID)

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		view := &domain.FlashcardView{
			ID:          util.NewULID(),
			StudentID:   studentID,
			FlashcardID: flashcardID,
			ViewedAt:    s.now(),
		}
		if err := s.viewRepo.CreateView(txCtx, view); err != nil {
			return domain.NewStorageError("failed to record flashcard view", err)
		}

		analytics, err := s.analyticsRepo.GetByStudentID(txCtx, studentID)
		if err != nil {
			return domain.NewStorageError("failed to load student analytics", err)
		}
		if analytics == nil {
			analytics = domain.NewStudentAnalytics(studentID)
		}
		analytics.TotalFlashcardsViewed++

		if err := s.analyticsRepo.Save(txCtx, analytics); err != nil {
			return domain.NewStorageError("failed to save student analytics", err)
		}
		return nil
	})
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return domainErr
		}
		return domain.NewStorageError("flashcard view transaction failed", err)
	}

	s.invalidateReport(ctx, studentID)
	return nil
}

func (s *analyticsService) invalidateReport(ctx context.Context, studentID string) {
	if s.reportCache == nil {
		return
	}
	key := cache.GenerateCacheKey("reporter", "performance", studentID)
	if err := s.reportCache.Delete(ctx, key); err != nil {
		logger.Get().Warn("Failed to invalidate cached performance report",
			zap.Error(err),
			zap.String("student_id", studentID))
	}
}

func toDomainSubmission(req *dto.SubmitTestRequest) *domain.TestSubmission {
	questions := make([]domain.AnsweredQuestion, len(req.Questions))
	for i, q := range req.Questions {
		questions[i] = domain.AnsweredQuestion{
			QuestionText:  q.QuestionText,
			CorrectAnswer: q.CorrectAnswer,
			StudentAnswer: q.StudentAnswer,
			Topic:         q.Topic,
			Subtopic:      q.Subtopic,
		}
	}
	return &domain.TestSubmission{
		Questions: questions,
		TimeTaken: req.TimeTaken,
	}
}

func buildTestResult(
	studentID, testID string,
	submission *domain.TestSubmission,
	summary *domain.ScoreSummary,
	insights *domain.InsightPayload,
	now time.Time,
) *domain.TestResult {
	result := &domain.TestResult{
		ID:             util.NewULID(),
		StudentID:      studentID,
		TestID:         testID,
		Score:          summary.OverallScore,
		CompletedAt:    now,
		AIFeedback:     insights,
		TotalQuestions: summary.TotalCount,
		CorrectAnswers: summary.CorrectCount,
		TopicsSummary:  summary.TopicPerformance,
		TimeTaken:      submission.TimeTaken,
	}
	for _, q := range submission.Questions {
		result.Questions = append(result.Questions, domain.TestQuestion{
			ID:            util.NewULID(),
			TestResultID:  result.ID,
			QuestionText:  q.QuestionText,
			CorrectAnswer: q.CorrectAnswer,
			StudentAnswer: q.StudentAnswer,
			IsCorrect:     q.IsCorrect(),
			Topic:         q.Topic,
			Subtopic:      q.Subtopic,
		})
	}
	return result
}

func toInsightResponse(insights *domain.InsightPayload) dto.InsightResponse {
	topics := make(map[string]dto.TopicTallyResponse, len(insights.TopicPerformance))
	for name, tally := range insights.TopicPerformance {
		details := make([]dto.QuestionDetailResponse, len(tally.Questions))
		for i, q := range tally.Questions {
			details[i] = dto.QuestionDetailResponse{
				Question:      q.Question,
				CorrectAnswer: q.CorrectAnswer,
				StudentAnswer: q.StudentAnswer,
				IsCorrect:     q.IsCorrect,
			}
		}
		topics[name] = dto.TopicTallyResponse{
			Correct:   tally.Correct,
			Total:     tally.Total,
			Questions: details,
		}
	}
	return dto.InsightResponse{
		Analysis:         insights.Analysis,
		TopicPerformance: topics,
		Score:            insights.Score,
		TimeTaken:        insights.TimeTaken,
	}
}
