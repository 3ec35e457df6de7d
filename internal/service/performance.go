package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"equipos-backend/internal/domain"
	"equipos-backend/internal/repository"
	"equipos-backend/internal/utils"
)

type performanceService struct {
	equipmentRepo       repository.EquipmentRepository
	rentalRepo          repository.RentalRepository
	expenseRepo         repository.ExpenseRepository
	operatorPaymentRepo repository.OperatorPaymentRepository
	maintenanceRepo     repository.MaintenanceRepository
}

func NewPerformanceService(
	equipmentRepo repository.EquipmentRepository,
	rentalRepo repository.RentalRepository,
	expenseRepo repository.ExpenseRepository,
	operatorPaymentRepo repository.OperatorPaymentRepository,
	maintenanceRepo repository.MaintenanceRepository,
) PerformanceService {
	return &performanceService{
		equipmentRepo:       equipmentRepo,
		rentalRepo:          rentalRepo,
		expenseRepo:         expenseRepo,
		operatorPaymentRepo: operatorPaymentRepo,
		maintenanceRepo:     maintenanceRepo,
	}
}

// EquipmentPerformance nets the income of an equipment against its expenses,
// operator payments and maintenance costs over an optional date range.
func (s *performanceService) EquipmentPerformance(ctx context.Context, equipmentID, start, end string) (*domain.EquipmentPerformance, error) {
	if equipmentID == "" {
		return nil, fmt.Errorf("%w: equipment id is required", ErrInvalidInput)
	}
	equipment, err := s.equipmentRepo.GetByID(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	if equipment == nil {
		return nil, fmt.Errorf("%w: equipment %s not found", ErrInvalidInput, equipmentID)
	}

	filter := domain.Filter{EquipmentID: equipmentID, Start: start, End: end}
	perf := &domain.EquipmentPerformance{
		EquipmentID: equipmentID,
		Name:        nameOr(equipment.Name),
		Start:       start,
		End:         end,
	}

	rentals, err := s.rentalRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	var income utils.Money
	for _, r := range rentals {
		income.Add(r.Amount)
		perf.Hours += r.Hours
	}
	perf.Rentals = len(rentals)
	perf.Income = income.Float64()

	expenses, err := s.expenseRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	var spent utils.Money
	for _, e := range expenses {
		spent.Add(e.Amount)
	}
	perf.Expenses = spent.Float64()

	payments, err := s.operatorPaymentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	var paid utils.Money
	for _, p := range payments {
		paid.Add(p.Amount)
		perf.OperatorHours += p.Hours
	}
	perf.OperatorPayments = paid.Float64()

	records, err := s.maintenanceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	var maintenance utils.Money
	for _, m := range records {
		maintenance.Add(m.Cost)
	}
	perf.Maintenance = maintenance.Float64()

	perf.Net = utils.Sum(perf.Income, -perf.Expenses, -perf.OperatorPayments, -perf.Maintenance)
	if perf.Income > 0 {
		margin := decimal.NewFromFloat(perf.Net).Div(decimal.NewFromFloat(perf.Income)).Mul(decimal.NewFromInt(100)).Round(2)
		perf.Margin, _ = margin.Float64()
	}
	return perf, nil
}
