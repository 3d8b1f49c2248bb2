package domain

// ScoreSummary is the output of scoring one submission.
type ScoreSummary struct {
	OverallScore     float64
	CorrectCount     int
	TotalCount       int
	TopicPerformance map[string]TopicTally
	// TopicOrder preserves first-occurrence order of topics. Downstream
	// consumers do not depend on it semantically, but it keeps prompt and
	// payload output deterministic.
	TopicOrder []string
}

// ScoreSubmission grades an ordered question sequence. It is a pure
// function: no side effects, same input always yields the same output.
func ScoreSubmission(questions []AnsweredQuestion) (*ScoreSummary, error) {
	if len(questions) == 0 {
		return nil, NewEmptySubmissionError()
	}

	summary := &ScoreSummary{
		TotalCount:       len(questions),
		TopicPerformance: make(map[string]TopicTally),
	}

	for _, q := range questions {
		correct := q.IsCorrect()
		if correct {
			summary.CorrectCount++
		}

		tally, seen := summary.TopicPerformance[q.Topic]
		if !seen {
			summary.TopicOrder = append(summary.TopicOrder, q.Topic)
		}
		if correct {
			tally.Correct++
		}
		tally.Total++
		tally.Questions = append(tally.Questions, QuestionDetail{
			Question:      q.QuestionText,
			CorrectAnswer: q.CorrectAnswer,
			StudentAnswer: q.StudentAnswer,
			IsCorrect:     correct,
		})
		summary.TopicPerformance[q.Topic] = tally
	}

	summary.OverallScore = float64(summary.CorrectCount) / float64(summary.TotalCount) * 100
	return summary, nil
}
