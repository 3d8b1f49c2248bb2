package handler

import (
	"studypulse/internal/domain"
	"studypulse/internal/dto"
	"studypulse/internal/logger"
	"studypulse/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AnalyticsHandler handles analytics-related HTTP requests
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
	reporter         service.PerformanceReporter
}

// NewAnalyticsHandler creates a new AnalyticsHandler instance
func NewAnalyticsHandler(analyticsService service.AnalyticsService, reporter service.PerformanceReporter) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		reporter:         reporter,
	}
}

// SubmitTest handles POST /api/students/:studentID/tests/:testID/submit
func (h *AnalyticsHandler) SubmitTest(c *fiber.Ctx) error {
	studentID := c.Params("studentID")
	testID := c.Params("testID")

	var req dto.SubmitTestRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Warn("Failed to parse submission body",
			zap.Error(err),
			zap.String("student_id", studentID),
		)
		return domain.NewInvalidInputError("request body must be valid JSON")
	}

	result, err := h.analyticsService.SubmitTest(c.Context(), studentID, testID, &req)
	if err != nil {
		logger.Get().Error("Failed to process test submission",
			zap.Error(err),
			zap.String("student_id", studentID),
			zap.String("test_id", testID),
		)
		return err
	}

	return c.JSON(result)
}

// GetPerformance handles GET /api/students/:studentID/performance
func (h *AnalyticsHandler) GetPerformance(c *fiber.Ctx) error {
	studentID := c.Params("studentID")

	report, err := h.reporter.GetStudentPerformance(c.Context(), studentID)
	if err != nil {
		logger.Get().Error("Failed to build performance report",
			zap.Error(err),
			zap.String("student_id", studentID),
		)
		return err
	}

	return c.JSON(report)
}

// RecordFlashcardView handles POST /api/students/:studentID/flashcards/:flashcardID/view
func (h *AnalyticsHandler) RecordFlashcardView(c *fiber.Ctx) error {
	studentID := c.Params("studentID")
	flashcardID := c.Params("flashcardID")

	if err := h.analyticsService.RecordFlashcardView(c.Context(), studentID, flashcardID); err != nil {
		logger.Get().Error("Failed to record flashcard view",
			zap.Error(err),
			zap.String("student_id", studentID),
			zap.String("flashcard_id", flashcardID),
		)
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "recorded"})
}
