package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equipos-backend/internal/domain"
	"equipos-backend/internal/service"
)

func TestDashboardService_GetDashboard(t *testing.T) {
	ctx := context.Background()
	filter := domain.StatsFilter{Year: 2025, Month: 3}

	t.Run("Success", func(t *testing.T) {
		reports := new(MockReportRepo)
		equipment := new(MockEquipmentRepo)
		entities := new(MockEntityRepo)
		svc := service.NewDashboardService(reports, equipment, entities)

		stats := &domain.DashboardStats{
			Income: 900,
			IncomeRecords: []domain.Rental{
				{ID: "a", EquipmentID: "1", OperatorID: "9", Hours: 3, Amount: 300},
				{ID: "b", EquipmentID: "2", OperatorID: "8", Hours: 5, Amount: 250},
				{ID: "c", EquipmentID: "2", OperatorID: "9", Hours: 1, Amount: 350},
				{ID: "d", Amount: 0},
			},
		}
		reports.On("DashboardStats", ctx, filter).Return(stats, nil)
		equipment.On("GetByID", ctx, "2").Return(&domain.Equipment{ID: "2", Name: "Volteo"}, nil)
		entities.On("GetByID", ctx, "8").Return(&domain.Entity{ID: "8", Name: "Pedro"}, nil)

		dash, err := svc.GetDashboard(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, 900.0, dash.Stats.Income)
		require.NotNil(t, dash.TopEquipment)
		assert.Equal(t, domain.Ranking{ID: "2", Name: "Volteo", Value: 600}, *dash.TopEquipment)
		require.NotNil(t, dash.TopOperator)
		assert.Equal(t, domain.Ranking{ID: "8", Name: "Pedro", Value: 5}, *dash.TopOperator)
	})

	t.Run("No income has no leaders", func(t *testing.T) {
		reports := new(MockReportRepo)
		svc := service.NewDashboardService(reports, new(MockEquipmentRepo), new(MockEntityRepo))
		reports.On("DashboardStats", ctx, filter).Return(&domain.DashboardStats{}, nil)

		dash, err := svc.GetDashboard(ctx, filter)
		require.NoError(t, err)
		assert.Nil(t, dash.TopEquipment)
		assert.Nil(t, dash.TopOperator)
	})

	t.Run("Missing names fall back", func(t *testing.T) {
		reports := new(MockReportRepo)
		equipment := new(MockEquipmentRepo)
		entities := new(MockEntityRepo)
		svc := service.NewDashboardService(reports, equipment, entities)

		reports.On("DashboardStats", ctx, filter).Return(&domain.DashboardStats{
			IncomeRecords: []domain.Rental{{EquipmentID: "1", OperatorID: "9", Hours: 2, Amount: 10}},
		}, nil)
		equipment.On("GetByID", ctx, "1").Return(nil, errors.New("unavailable"))
		entities.On("GetByID", ctx, "9").Return(nil, nil)

		dash, err := svc.GetDashboard(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, "N/A", dash.TopEquipment.Name)
		assert.Equal(t, "N/A", dash.TopOperator.Name)
	})

	t.Run("Invalid period", func(t *testing.T) {
		svc := service.NewDashboardService(new(MockReportRepo), new(MockEquipmentRepo), new(MockEntityRepo))
		_, err := svc.GetDashboard(ctx, domain.StatsFilter{})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("Store error propagates", func(t *testing.T) {
		reports := new(MockReportRepo)
		svc := service.NewDashboardService(reports, new(MockEquipmentRepo), new(MockEntityRepo))
		reports.On("DashboardStats", ctx, filter).Return(nil, errors.New("boom"))
		_, err := svc.GetDashboard(ctx, filter)
		assert.EqualError(t, err, "boom")
	})
}
