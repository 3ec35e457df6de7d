package service

import (
	"context"
	"fmt"
	"strings"

	"equipos-backend/internal/domain"
	"equipos-backend/internal/logger"
	"equipos-backend/internal/repository"
	"equipos-backend/internal/utils"
)

var paymentMethods = map[string]bool{
	domain.PaymentMethodCash:     true,
	domain.PaymentMethodTransfer: true,
	domain.PaymentMethodCheck:    true,
	domain.PaymentMethodCard:     true,
	domain.PaymentMethodOther:    true,
}

type clientAccountService struct {
	reportRepo  repository.ReportRepository
	advanceRepo repository.AdvanceRepository
	entityRepo  repository.EntityRepository
	rentalRepo  repository.RentalRepository
}

func NewClientAccountService(
	reportRepo repository.ReportRepository,
	advanceRepo repository.AdvanceRepository,
	entityRepo repository.EntityRepository,
	rentalRepo repository.RentalRepository,
) ClientAccountService {
	return &clientAccountService{
		reportRepo:  reportRepo,
		advanceRepo: advanceRepo,
		entityRepo:  entityRepo,
		rentalRepo:  rentalRepo,
	}
}

func (s *clientAccountService) GetDebt(ctx context.Context, clientID, start, end string) (domain.Debt, error) {
	if clientID == "" {
		return domain.Debt{}, fmt.Errorf("%w: client id is required", ErrInvalidInput)
	}
	return s.reportRepo.ClientDebt(ctx, clientID, start, end)
}

// RegisterAdvance validates and stores a client payment. Advances linked to
// a rental inherit its description when none is given.
func (s *clientAccountService) RegisterAdvance(ctx context.Context, a *domain.Advance) (string, error) {
	logger.EnterMethod("ClientAccountService.RegisterAdvance", "cliente_id", a.ClientID, "monto", a.Amount)

	if a.ClientID == "" {
		return "", fmt.Errorf("%w: client id is required", ErrInvalidInput)
	}
	if a.Amount <= 0 {
		return "", fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if _, err := utils.ParseDate(a.Date); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	a.PaymentMethod = strings.TrimSpace(a.PaymentMethod)
	if a.PaymentMethod == "" {
		a.PaymentMethod = domain.PaymentMethodCash
	}
	if !paymentMethods[a.PaymentMethod] {
		return "", fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, a.PaymentMethod)
	}
	a.Concept = strings.TrimSpace(a.Concept)

	client, err := s.entityRepo.GetByID(ctx, a.ClientID)
	if err != nil {
		return "", err
	}
	if client == nil || client.Type != domain.EntityTypeClient {
		return "", fmt.Errorf("%w: client %s not found", ErrInvalidInput, a.ClientID)
	}

	if a.TransactionID != "" {
		rental, err := s.rentalRepo.GetByID(ctx, a.TransactionID)
		if err != nil {
			return "", err
		}
		if rental == nil {
			return "", fmt.Errorf("%w: rental %s not found", ErrInvalidInput, a.TransactionID)
		}
		if a.TransactionDescription == "" {
			a.TransactionDescription = rental.Description
		}
	}

	id, err := s.advanceRepo.Create(ctx, a)
	if err != nil {
		logger.ExitMethodWithError("ClientAccountService.RegisterAdvance", err, "cliente_id", a.ClientID)
		return "", err
	}
	logger.ExitMethod("ClientAccountService.RegisterAdvance", "abono_id", id)
	return id, nil
}

func (s *clientAccountService) ListAdvances(ctx context.Context, clientID, start, end string) ([]domain.Advance, error) {
	if clientID == "" {
		return nil, fmt.Errorf("%w: client id is required", ErrInvalidInput)
	}
	return s.advanceRepo.List(ctx, domain.Filter{ClientID: clientID, Start: start, End: end})
}

// FirstTransactionDate returns the date of the client's first rental.
func (s *clientAccountService) FirstTransactionDate(ctx context.Context, clientID string) (string, bool, error) {
	if clientID == "" {
		return "", false, fmt.Errorf("%w: client id is required", ErrInvalidInput)
	}
	return s.reportRepo.EarliestDate(ctx, domain.CollectionRentals, domain.FieldClientID, clientID)
}
