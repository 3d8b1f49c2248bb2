package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"studypulse/internal/cache"
	"studypulse/internal/domain"
	"studypulse/internal/dto"
	"studypulse/internal/logger"

	"go.uber.org/zap"
)

// recentTestWindow is how many recent results the performance report shows.
const recentTestWindow = 10

// PerformanceReporter is the read-only projection over persisted results and
// the analytics summary.
type PerformanceReporter interface {
	GetStudentPerformance(ctx context.Context, studentID string) (*dto.PerformanceReportResponse, error)
}

type performanceReporter struct {
	resultRepo    domain.TestResultRepository
	analyticsRepo domain.StudentAnalyticsRepository
	renderer      domain.ChartRenderer
	reportCache   domain.Cache
	cacheTTL      time.Duration
}

// NewPerformanceReporter creates a new instance of performanceReporter
func NewPerformanceReporter(
	resultRepo domain.TestResultRepository,
	analyticsRepo domain.StudentAnalyticsRepository,
	renderer domain.ChartRenderer,
	reportCache domain.Cache,
	cacheTTL time.Duration,
) PerformanceReporter {
	return &performanceReporter{
		resultRepo:    resultRepo,
		analyticsRepo: analyticsRepo,
		renderer:      renderer,
		reportCache:   reportCache,
		cacheTTL:      cacheTTL,
	}
}

// GetStudentPerformance implements PerformanceReporter
func (r *performanceReporter) GetStudentPerformance(ctx context.Context, studentID string) (*dto.PerformanceReportResponse, error) {
	if studentID == "" {
		return nil, domain.NewInvalidInputError("student id is required")
	}

	cacheKey := cache.GenerateCacheKey("reporter", "performance", studentID)
	if cached := r.fromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	analytics, err := r.analyticsRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, domain.NewStorageError("failed to load student analytics", err)
	}
	if analytics == nil {
		return nil, domain.NewAnalyticsNotFoundError(studentID)
	}

	results, err := r.resultRepo.GetRecentResults(ctx, studentID, recentTestWindow)
	if err != nil {
		return nil, domain.NewStorageError("failed to load recent results", err)
	}

	report := &dto.PerformanceReportResponse{
		OverallStats: dto.OverallStatsResponse{
			TotalTestsTaken:       analytics.TotalTestsTaken,
			TotalFlashcardsViewed: analytics.TotalFlashcardsViewed,
			AverageScore:          analytics.AverageTestScore,
			LearningStreak:        analytics.LearningStreak,
			WeakTopics:            analytics.WeakTopics,
			StrongTopics:          analytics.StrongTopics,
			LastActivity:          analytics.LastActivity,
		},
		RecentTests: make([]dto.RecentTestResponse, 0, len(results)),
	}

	for _, result := range results {
		report.RecentTests = append(report.RecentTests, dto.RecentTestResponse{
			Date:      result.CompletedAt,
			Score:     result.Score,
			Topics:    topicNames(result.TopicsSummary),
			TimeTaken: result.TimeTaken,
			Insights:  analysisText(result.AIFeedback),
		})
	}

	// Chart series runs oldest first; results arrive most recent first.
	points := make([]domain.TrendPoint, 0, len(results))
	for i := len(results) - 1; i >= 0; i-- {
		points = append(points, domain.TrendPoint{Date: results[i].CompletedAt, Score: results[i].Score})
	}
	for _, p := range points {
		report.ScoreSeries = append(report.ScoreSeries, dto.ScorePointResponse{Date: p.Date, Score: p.Score})
	}

	if r.renderer != nil && len(points) > 0 {
		chart, err := r.renderer.RenderScoreProgression(points)
		if err != nil {
			// The chart is presentation only; the report is still useful
			// without it.
			logger.Get().Warn("Failed to render performance chart",
				zap.Error(err),
				zap.String("student_id", studentID))
		} else {
			report.PerformanceChart = chart
		}
	}

	r.toCache(ctx, cacheKey, report)
	return report, nil
}

func (r *performanceReporter) fromCache(ctx context.Context, key string) *dto.PerformanceReportResponse {
	if r.reportCache == nil {
		return nil
	}
	raw, err := r.reportCache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Performance report cache read failed", zap.Error(err), zap.String("key", key))
		}
		return nil
	}
	var report dto.PerformanceReportResponse
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		logger.Get().Warn("Discarding malformed cached report", zap.Error(err), zap.String("key", key))
		return nil
	}
	return &report
}

func (r *performanceReporter) toCache(ctx context.Context, key string, report *dto.PerformanceReportResponse) {
	if r.reportCache == nil {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		logger.Get().Warn("Failed to marshal report for cache", zap.Error(err), zap.String("key", key))
		return
	}
	if err := r.reportCache.Set(ctx, key, string(raw), r.cacheTTL); err != nil {
		logger.Get().Warn("Performance report cache write failed", zap.Error(err), zap.String("key", key))
	}
}

func topicNames(summary map[string]domain.TopicTally) []string {
	names := make([]string, 0, len(summary))
	for name := range summary {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func analysisText(payload *domain.InsightPayload) string {
	if payload == nil {
		return ""
	}
	return payload.Analysis
}
