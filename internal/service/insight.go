package service

import (
	"context"
	"encoding/json"
	"fmt"

	"studypulse/internal/domain"
	"studypulse/internal/logger"

	"go.uber.org/zap"
)

// InsightComposer combines a scored submission with historical context and
// delegates the narrative to the external model collaborator.
type InsightComposer interface {
	Compose(ctx context.Context, summary *domain.ScoreSummary, priorScores []float64, timeTaken int) (*domain.InsightPayload, error)
}

type insightComposer struct {
	generator domain.InsightGenerator
}

// NewInsightComposer creates a new instance of insightComposer
func NewInsightComposer(generator domain.InsightGenerator) InsightComposer {
	return &insightComposer{generator: generator}
}

// Compose builds the analysis prompt from the score summary and up to five
// prior scores (most recent first), calls the model, and merges its text into
// the payload. There is no local fallback text: a collaborator failure is the
// composer's failure.
func (c *insightComposer) Compose(ctx context.Context, summary *domain.ScoreSummary, priorScores []float64, timeTaken int) (*domain.InsightPayload, error) {
	prompt, err := buildInsightPrompt(summary, priorScores, timeTaken)
	if err != nil {
		return nil, domain.NewInternalError("failed to build insight prompt", err)
	}

	analysis, err := c.generator.Generate(ctx, prompt)
	if err != nil {
		logger.Get().Error("Insight generation failed",
			zap.Error(err),
			zap.Float64("score", summary.OverallScore))
		return nil, domain.NewLLMServiceError(err)
	}

	return &domain.InsightPayload{
		Analysis:         analysis,
		TopicPerformance: summary.TopicPerformance,
		Score:            summary.OverallScore,
		TimeTaken:        timeTaken,
	}, nil
}

// historicalContext produces the one-sentence framing against prior scores.
// Empty string when there is no history. Only a strictly greater current
// score counts as above average.
func historicalContext(currentScore float64, priorScores []float64) string {
	if len(priorScores) == 0 {
		return ""
	}
	var sum float64
	for _, s := range priorScores {
		sum += s
	}
	avg := sum / float64(len(priorScores))

	context := fmt.Sprintf("\nHistorical context: Your average score is %.1f%%. ", avg)
	if currentScore > avg {
		context += "You performed above your usual average!"
	} else {
		context += "This score is below your usual performance."
	}
	return context
}

func buildInsightPrompt(summary *domain.ScoreSummary, priorScores []float64, timeTaken int) (string, error) {
	topicJSON, err := json.MarshalIndent(summary.TopicPerformance, "", "  ")
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(`As an educational AI assistant, analyze this test performance:

Overall Performance:
- Score: %.1f%%
- Correct answers: %d/%d
- Time taken: %d seconds

Detailed Topic Analysis:
%s
%s

Please provide:
1. Specific strengths and weaknesses based on topic performance
2. Detailed analysis of mistakes made, including common patterns
3. Personalized study recommendations for each weak topic
4. Time management feedback
5. Suggested focus areas for immediate improvement

Format the response in a clear, structured way that's encouraging but direct about areas needing improvement.`,
		summary.OverallScore,
		summary.CorrectCount,
		summary.TotalCount,
		timeTaken,
		string(topicJSON),
		historicalContext(summary.OverallScore, priorScores),
	)
	return prompt, nil
}
