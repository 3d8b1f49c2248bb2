package service

import (
	"context"
	"time"

	"studypulse/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockTestResultRepository ---
type MockTestResultRepository struct {
	mock.Mock
}

func (m *MockTestResultRepository) CreateResult(ctx context.Context, result *domain.TestResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockTestResultRepository) GetRecentResults(ctx context.Context, studentID string, limit int) ([]domain.TestResult, error) {
	args := m.Called(ctx, studentID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TestResult), args.Error(1)
}

// --- MockStudentAnalyticsRepository ---
type MockStudentAnalyticsRepository struct {
	mock.Mock
}

func (m *MockStudentAnalyticsRepository) GetByStudentID(ctx context.Context, studentID string) (*domain.StudentAnalytics, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudentAnalytics), args.Error(1)
}

func (m *MockStudentAnalyticsRepository) Save(ctx context.Context, analytics *domain.StudentAnalytics) error {
	args := m.Called(ctx, analytics)
	return args.Error(0)
}

// --- MockFlashcardViewRepository ---
type MockFlashcardViewRepository struct {
	mock.Mock
}

func (m *MockFlashcardViewRepository) CreateView(ctx context.Context, view *domain.FlashcardView) error {
	args := m.Called(ctx, view)
	return args.Error(0)
}

// --- MockTransactionManager ---
// Runs the given function inline so service logic can be exercised without a
// real database.
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// --- MockInsightGenerator ---
type MockInsightGenerator struct {
	mock.Mock
}

func (m *MockInsightGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// --- MockChartRenderer ---
type MockChartRenderer struct {
	mock.Mock
}

func (m *MockChartRenderer) RenderScoreProgression(points []domain.TrendPoint) ([]byte, error) {
	args := m.Called(points)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
