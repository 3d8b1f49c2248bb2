package service

import (
	"time"

	"studypulse/internal/domain"
)

// streakWindow is the maximum gap between activities that keeps a learning
// streak alive.
const streakWindow = 24 * time.Hour

// ApplyTestResult merges one scored submission into the student's summary.
// It mutates analytics in place and has no other side effects; persistence is
// the caller's job, inside the same transaction as the test result insert.
//
// priorScores are the scores of the at most five most recent earlier results,
// so the recomputed average is a sliding window over at most six scores, not
// an all-time mean.
func ApplyTestResult(analytics *domain.StudentAnalytics, summary *domain.ScoreSummary, priorScores []float64, now time.Time) {
	// The streak comparison must see the activity timestamp from before this
	// submission, so capture it before anything writes LastActivity.
	previousActivity := analytics.LastActivity

	analytics.TotalTestsTaken++

	window := append(append([]float64{}, priorScores...), summary.OverallScore)
	var sum float64
	for _, s := range window {
		sum += s
	}
	analytics.AverageTestScore = sum / float64(len(window))

	// Weak and strong topic sets are fully replaced by this submission's
	// topics. Topics from earlier submissions are dropped even if they were
	// previously weak or strong; that sliding-window behavior is intentional.
	weak := []string{}
	strong := []string{}
	for _, topic := range summary.TopicOrder {
		accuracy := summary.TopicPerformance[topic].Accuracy()
		if accuracy < 70 {
			weak = append(weak, topic)
		}
		if accuracy >= 90 {
			strong = append(strong, topic)
		}
	}
	analytics.WeakTopics = weak
	analytics.StrongTopics = strong

	if !previousActivity.IsZero() && now.Sub(previousActivity) <= streakWindow {
		analytics.LearningStreak++
	} else {
		analytics.LearningStreak = 1
	}
	analytics.LastActivity = now

	analytics.HistoricalPerformance = append(analytics.HistoricalPerformance, domain.TrendPoint{
		Date:  now,
		Score: summary.OverallScore,
	})
}
