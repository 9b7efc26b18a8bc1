package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/Atelier_Go/internal/domain"
)

// MockDBPool mocks the database.Pool interface
type MockDBPool struct {
	mock.Mock
}

func (m *MockDBPool) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDBPool) Close() {
	m.Called()
}

// MockCapacityService mocks capacity.Service
type MockCapacityService struct {
	mock.Mock
}

func (m *MockCapacityService) Report(ctx context.Context) (*domain.CapacitySummary, []domain.CapacityReport, error) {
	args := m.Called(ctx)
	var summary *domain.CapacitySummary
	if v := args.Get(0); v != nil {
		summary = v.(*domain.CapacitySummary)
	}
	var reports []domain.CapacityReport
	if v := args.Get(1); v != nil {
		reports = v.([]domain.CapacityReport)
	}
	return summary, reports, args.Error(2)
}

func (m *MockCapacityService) ProductReport(ctx context.Context, productID string) (*domain.CapacityReport, error) {
	args := m.Called(ctx, productID)
	if v := args.Get(0); v != nil {
		return v.(*domain.CapacityReport), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCapacityService) Invalidate() {
	m.Called()
}

// MockProductionService mocks production.Service
type MockProductionService struct {
	mock.Mock
}

func (m *MockProductionService) Execute(ctx context.Context, productID string, requestedUnits int) (*domain.ProductionRun, error) {
	args := m.Called(ctx, productID, requestedUnits)
	if v := args.Get(0); v != nil {
		return v.(*domain.ProductionRun), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductionService) AdjustStock(ctx context.Context, kind domain.ResourceKind, name string, delta float64, reason string) (*domain.MovementRecord, error) {
	args := m.Called(ctx, kind, name, delta, reason)
	if v := args.Get(0); v != nil {
		return v.(*domain.MovementRecord), args.Error(1)
	}
	return nil, args.Error(1)
}
