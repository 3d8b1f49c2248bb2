package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"studypulse/internal/config"
	"studypulse/internal/domain"
	"studypulse/internal/dto"
	"studypulse/internal/logger"
	"studypulse/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Level: "info"}); err != nil {
		log.Fatalf("Failed to initialize logger for handler tests: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	os.Exit(m.Run())
}

// MockAnalyticsService is a mock implementation of service.AnalyticsService
type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) SubmitTest(ctx context.Context, studentID, testID string, req *dto.SubmitTestRequest) (*dto.SubmitTestResponse, error) {
	args := m.Called(ctx, studentID, testID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SubmitTestResponse), args.Error(1)
}

func (m *MockAnalyticsService) RecordFlashcardView(ctx context.Context, studentID, flashcardID string) error {
	args := m.Called(ctx, studentID, flashcardID)
	return args.Error(0)
}

// MockPerformanceReporter is a mock implementation of service.PerformanceReporter
type MockPerformanceReporter struct {
	mock.Mock
}

func (m *MockPerformanceReporter) GetStudentPerformance(ctx context.Context, studentID string) (*dto.PerformanceReportResponse, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PerformanceReportResponse), args.Error(1)
}

func setupTestApp(analyticsService *MockAnalyticsService, reporter *MockPerformanceReporter) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
	})

	h := NewAnalyticsHandler(analyticsService, reporter)
	api := app.Group("/api")
	api.Post("/students/:studentID/tests/:testID/submit", h.SubmitTest)
	api.Get("/students/:studentID/performance", h.GetPerformance)
	api.Post("/students/:studentID/flashcards/:flashcardID/view", h.RecordFlashcardView)
	return app
}

func TestSubmitTest(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		analyticsService := new(MockAnalyticsService)
		reporter := new(MockPerformanceReporter)
		app := setupTestApp(analyticsService, reporter)

		expected := &dto.SubmitTestResponse{
			Status: "success",
			AnalyticsSummary: dto.AnalyticsSummaryResponse{
				TotalTests:   1,
				AverageScore: 50.0,
				WeakTopics:   []string{"fractions"},
			},
		}
		analyticsService.On("SubmitTest", mock.Anything, "student1", "test1", mock.AnythingOfType("*dto.SubmitTestRequest")).
			Return(expected, nil)

		body, _ := json.Marshal(dto.SubmitTestRequest{
			Questions: []dto.QuestionSubmission{
				{QuestionText: "What is 1/4 + 1/2?", Topic: "fractions", StudentAnswer: "1/2", CorrectAnswer: "3/4"},
			},
			TimeTaken: 120,
		})
		req := httptest.NewRequest(http.MethodPost, "/api/students/student1/tests/test1/submit", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got dto.SubmitTestResponse
		raw, _ := io.ReadAll(resp.Body)
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, "success", got.Status)
		assert.Equal(t, []string{"fractions"}, got.AnalyticsSummary.WeakTopics)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		analyticsService := new(MockAnalyticsService)
		app := setupTestApp(analyticsService, new(MockPerformanceReporter))

		req := httptest.NewRequest(http.MethodPost, "/api/students/student1/tests/test1/submit", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		analyticsService.AssertNotCalled(t, "SubmitTest", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("EmptySubmission", func(t *testing.T) {
		analyticsService := new(MockAnalyticsService)
		app := setupTestApp(analyticsService, new(MockPerformanceReporter))

		analyticsService.On("SubmitTest", mock.Anything, "student1", "test1", mock.Anything).
			Return(nil, domain.NewEmptySubmissionError())

		body, _ := json.Marshal(dto.SubmitTestRequest{Questions: []dto.QuestionSubmission{}})
		req := httptest.NewRequest(http.MethodPost, "/api/students/student1/tests/test1/submit", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var errResp middleware.ErrorResponse
		raw, _ := io.ReadAll(resp.Body)
		require.NoError(t, json.Unmarshal(raw, &errResp))
		assert.Equal(t, string(domain.ErrEmptySubmission), errResp.Code)
	})

	t.Run("LLMUnavailable", func(t *testing.T) {
		analyticsService := new(MockAnalyticsService)
		app := setupTestApp(analyticsService, new(MockPerformanceReporter))

		analyticsService.On("SubmitTest", mock.Anything, "student1", "test1", mock.Anything).
			Return(nil, domain.NewLLMServiceError(assert.AnError))

		body, _ := json.Marshal(dto.SubmitTestRequest{
			Questions: []dto.QuestionSubmission{{QuestionText: "Solve for x", Topic: "algebra", StudentAnswer: "x", CorrectAnswer: "x"}},
		})
		req := httptest.NewRequest(http.MethodPost, "/api/students/student1/tests/test1/submit", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestGetPerformance(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		reporter := new(MockPerformanceReporter)
		app := setupTestApp(new(MockAnalyticsService), reporter)

		reporter.On("GetStudentPerformance", mock.Anything, "student1").
			Return(&dto.PerformanceReportResponse{
				OverallStats: dto.OverallStatsResponse{TotalTestsTaken: 4, AverageScore: 82.5},
			}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/students/student1/performance", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got dto.PerformanceReportResponse
		raw, _ := io.ReadAll(resp.Body)
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, 4, got.OverallStats.TotalTestsTaken)
		assert.Equal(t, 82.5, got.OverallStats.AverageScore)
	})

	t.Run("NotFound", func(t *testing.T) {
		reporter := new(MockPerformanceReporter)
		app := setupTestApp(new(MockAnalyticsService), reporter)

		reporter.On("GetStudentPerformance", mock.Anything, "ghost").
			Return(nil, domain.NewAnalyticsNotFoundError("ghost"))

		req := httptest.NewRequest(http.MethodGet, "/api/students/ghost/performance", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var errResp middleware.ErrorResponse
		raw, _ := io.ReadAll(resp.Body)
		require.NoError(t, json.Unmarshal(raw, &errResp))
		assert.Equal(t, string(domain.ErrAnalyticsNotFound), errResp.Code)
	})
}

func TestRecordFlashcardView(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		analyticsService := new(MockAnalyticsService)
		app := setupTestApp(analyticsService, new(MockPerformanceReporter))

		analyticsService.On("RecordFlashcardView", mock.Anything, "student1", "card9").Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/students/student1/flashcards/card9/view", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		analyticsService.AssertExpectations(t)
	})

	t.Run("StorageError", func(t *testing.T) {
		analyticsService := new(MockAnalyticsService)
		app := setupTestApp(analyticsService, new(MockPerformanceReporter))

		analyticsService.On("RecordFlashcardView", mock.Anything, "student1", "card9").
			Return(domain.NewStorageError("insert failed", assert.AnError))

		req := httptest.NewRequest(http.MethodPost, "/api/students/student1/flashcards/card9/view", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}
