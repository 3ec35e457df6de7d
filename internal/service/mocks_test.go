package service_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"equipos-backend/internal/domain"
)

// MockEquipmentRepo
type MockEquipmentRepo struct {
	mock.Mock
}

func (m *MockEquipmentRepo) List(ctx context.Context, filter domain.Filter) ([]domain.Equipment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Equipment), args.Error(1)
}
func (m *MockEquipmentRepo) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}
func (m *MockEquipmentRepo) Create(ctx context.Context, equipment *domain.Equipment) (string, error) {
	args := m.Called(ctx, equipment)
	return args.String(0), args.Error(1)
}
func (m *MockEquipmentRepo) Update(ctx context.Context, id string, fields domain.Fields) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}
func (m *MockEquipmentRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockEquipmentRepo) Deactivate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEntityRepo
type MockEntityRepo struct {
	mock.Mock
}

func (m *MockEntityRepo) List(ctx context.Context, filter domain.Filter) ([]domain.Entity, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Entity), args.Error(1)
}
func (m *MockEntityRepo) GetByID(ctx context.Context, id string) (*domain.Entity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entity), args.Error(1)
}
func (m *MockEntityRepo) Create(ctx context.Context, entity *domain.Entity) (string, error) {
	args := m.Called(ctx, entity)
	return args.String(0), args.Error(1)
}
func (m *MockEntityRepo) Update(ctx context.Context, id string, fields domain.Fields) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}
func (m *MockEntityRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockEntityRepo) Deactivate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLookupRepo
type MockLookupRepo struct {
	mock.Mock
}

func (m *MockLookupRepo) ListLookups(ctx context.Context, collection string) ([]domain.Lookup, error) {
	args := m.Called(ctx, collection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lookup), args.Error(1)
}
func (m *MockLookupRepo) GetLookup(ctx context.Context, collection, id string) (*domain.Lookup, error) {
	args := m.Called(ctx, collection, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lookup), args.Error(1)
}
func (m *MockLookupRepo) CreateLookup(ctx context.Context, collection string, lookup *domain.Lookup) (string, error) {
	args := m.Called(ctx, collection, lookup)
	return args.String(0), args.Error(1)
}
func (m *MockLookupRepo) UpdateLookup(ctx context.Context, collection, id string, fields domain.Fields) error {
	args := m.Called(ctx, collection, id, fields)
	return args.Error(0)
}
func (m *MockLookupRepo) DeleteLookup(ctx context.Context, collection, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}
func (m *MockLookupRepo) FindByName(ctx context.Context, collection, name, categoryID string) (*domain.Lookup, error) {
	args := m.Called(ctx, collection, name, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lookup), args.Error(1)
}

// MockReportRepo
type MockReportRepo struct {
	mock.Mock
}

func (m *MockReportRepo) DashboardStats(ctx context.Context, filter domain.StatsFilter) (*domain.DashboardStats, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardStats), args.Error(1)
}
func (m *MockReportRepo) EarliestDate(ctx context.Context, collection, fkField, fkValue string) (string, bool, error) {
	args := m.Called(ctx, collection, fkField, fkValue)
	return args.String(0), args.Bool(1), args.Error(2)
}
func (m *MockReportRepo) ClientDebt(ctx context.Context, clientID, start, end string) (domain.Debt, error) {
	args := m.Called(ctx, clientID, start, end)
	return args.Get(0).(domain.Debt), args.Error(1)
}
