package service

import (
	"context"
	"fmt"
	"sort"

	"equipos-backend/internal/domain"
	"equipos-backend/internal/logger"
	"equipos-backend/internal/repository"
	"equipos-backend/internal/utils"
)

type dashboardService struct {
	reportRepo    repository.ReportRepository
	equipmentRepo repository.EquipmentRepository
	entityRepo    repository.EntityRepository
}

func NewDashboardService(
	reportRepo repository.ReportRepository,
	equipmentRepo repository.EquipmentRepository,
	entityRepo repository.EntityRepository,
) DashboardService {
	return &dashboardService{
		reportRepo:    reportRepo,
		equipmentRepo: equipmentRepo,
		entityRepo:    entityRepo,
	}
}

// GetDashboard returns the period stats plus the equipment with the most
// income and the operator with the most hours among the period's rentals.
func (s *dashboardService) GetDashboard(ctx context.Context, filter domain.StatsFilter) (*domain.Dashboard, error) {
	if _, _, err := filter.Range(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	stats, err := s.reportRepo.DashboardStats(ctx, filter)
	if err != nil {
		return nil, err
	}

	income := make(map[string]*utils.Money)
	hours := make(map[string]float64)
	for _, r := range stats.IncomeRecords {
		if r.EquipmentID != "" {
			if income[r.EquipmentID] == nil {
				income[r.EquipmentID] = &utils.Money{}
			}
			income[r.EquipmentID].Add(r.Amount)
		}
		if r.OperatorID != "" && r.Hours != 0 {
			hours[r.OperatorID] += r.Hours
		}
	}

	totals := make(map[string]float64, len(income))
	for id, m := range income {
		totals[id] = m.Float64()
	}

	dash := &domain.Dashboard{Stats: *stats}
	if id, value, ok := leader(totals); ok {
		dash.TopEquipment = &domain.Ranking{ID: id, Name: unnamed, Value: value}
		if e, err := s.equipmentRepo.GetByID(ctx, id); err != nil {
			logger.Warn("Top equipment name unavailable", "equipo_id", id, "error", err)
		} else if e != nil {
			dash.TopEquipment.Name = nameOr(e.Name)
		}
	}
	if id, value, ok := leader(hours); ok {
		dash.TopOperator = &domain.Ranking{ID: id, Name: unnamed, Value: value}
		if op, err := s.entityRepo.GetByID(ctx, id); err != nil {
			logger.Warn("Top operator name unavailable", "operador_id", id, "error", err)
		} else if op != nil {
			dash.TopOperator.Name = nameOr(op.Name)
		}
	}
	return dash, nil
}

// leader returns the key with the largest value. Ties go to the smallest key.
func leader(values map[string]float64) (string, float64, bool) {
	if len(values) == 0 {
		return "", 0, false
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	best := keys[0]
	for _, k := range keys[1:] {
		if values[k] > values[best] {
			best = k
		}
	}
	return best, values[best], true
}
