package service

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"equipos-backend/internal/domain"
	"equipos-backend/internal/logger"
	"equipos-backend/internal/repository"
	"equipos-backend/internal/retry"
)

const unnamed = "N/A"

type catalogService struct {
	equipmentRepo repository.EquipmentRepository
	entityRepo    repository.EntityRepository
	lookupRepo    repository.LookupRepository
	policy        retry.Policy
	limiter       *rate.Limiter
}

// NewCatalogService builds the catalog service. A nil limiter disables pacing.
func NewCatalogService(
	equipmentRepo repository.EquipmentRepository,
	entityRepo repository.EntityRepository,
	lookupRepo repository.LookupRepository,
	policy retry.Policy,
	limiter *rate.Limiter,
) CatalogService {
	return &catalogService{
		equipmentRepo: equipmentRepo,
		entityRepo:    entityRepo,
		lookupRepo:    lookupRepo,
		policy:        policy,
		limiter:       limiter,
	}
}

func (s *catalogService) wait(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Wait(ctx)
}

// Preload reads equipment, people and lookups regardless of their active flag.
func (s *catalogService) Preload(ctx context.Context) (*domain.Catalog, error) {
	logger.EnterMethod("CatalogService.Preload")
	defer logger.ExitMethod("CatalogService.Preload")

	catalog := &domain.Catalog{}
	var err error

	if catalog.Equipment, err = s.preloadEquipment(ctx); err != nil {
		return nil, fmt.Errorf("%w: equipment: %w", ErrPreloadFailed, err)
	}
	if catalog.Clients, err = s.preloadEntities(ctx, domain.EntityTypeClient); err != nil {
		return nil, fmt.Errorf("%w: clients: %w", ErrPreloadFailed, err)
	}
	if catalog.Operators, err = s.preloadEntities(ctx, domain.EntityTypeOperator); err != nil {
		return nil, fmt.Errorf("%w: operators: %w", ErrPreloadFailed, err)
	}
	if catalog.Accounts, err = s.preloadLookups(ctx, domain.CollectionAccounts); err != nil {
		return nil, fmt.Errorf("%w: accounts: %w", ErrPreloadFailed, err)
	}
	if catalog.Categories, err = s.preloadLookups(ctx, domain.CollectionCategories); err != nil {
		return nil, fmt.Errorf("%w: categories: %w", ErrPreloadFailed, err)
	}
	if catalog.Subcategories, err = s.preloadLookups(ctx, domain.CollectionSubcategories); err != nil {
		return nil, fmt.Errorf("%w: subcategories: %w", ErrPreloadFailed, err)
	}

	logger.Info("Catalog preloaded",
		"equipment", len(catalog.Equipment),
		"clients", len(catalog.Clients),
		"operators", len(catalog.Operators),
		"accounts", len(catalog.Accounts),
		"categories", len(catalog.Categories),
		"subcategories", len(catalog.Subcategories))
	return catalog, nil
}

func (s *catalogService) preloadEquipment(ctx context.Context) (map[string]string, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	items, err := retry.Value(ctx, s.policy, "preload equipos", func() ([]domain.Equipment, error) {
		return s.equipmentRepo.List(ctx, domain.Filter{})
	})
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(items))
	for _, e := range items {
		out[e.ID] = nameOr(e.Name)
	}
	return out, nil
}

func (s *catalogService) preloadEntities(ctx context.Context, typ domain.EntityType) (map[string]string, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	items, err := retry.Value(ctx, s.policy, "preload entidades "+string(typ), func() ([]domain.Entity, error) {
		return s.entityRepo.List(ctx, domain.Filter{Type: typ})
	})
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(items))
	for _, e := range items {
		out[e.ID] = nameOr(e.Name)
	}
	return out, nil
}

func (s *catalogService) preloadLookups(ctx context.Context, collection string) (map[string]string, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	items, err := retry.Value(ctx, s.policy, "preload "+collection, func() ([]domain.Lookup, error) {
		return s.lookupRepo.ListLookups(ctx, collection)
	})
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(items))
	for _, l := range items {
		out[l.ID] = nameOr(l.Name)
	}
	return out, nil
}

func (s *catalogService) EquipmentOptions(ctx context.Context) []domain.Option {
	items, err := s.equipmentRepo.List(ctx, domain.Filter{Active: domain.BoolPtr(true)})
	if err != nil {
		logger.Warn("Equipment options unavailable", "error", err)
		return []domain.Option{}
	}
	opts := make([]domain.Option, 0, len(items))
	for _, e := range items {
		opts = append(opts, domain.Option{ID: e.ID, Name: nameOr(e.Name)})
	}
	domain.SortOptions(opts)
	return opts
}

func (s *catalogService) ClientOptions(ctx context.Context) []domain.Option {
	return s.entityOptions(ctx, domain.EntityTypeClient)
}

func (s *catalogService) OperatorOptions(ctx context.Context) []domain.Option {
	return s.entityOptions(ctx, domain.EntityTypeOperator)
}

func (s *catalogService) entityOptions(ctx context.Context, typ domain.EntityType) []domain.Option {
	items, err := s.entityRepo.List(ctx, domain.Filter{Type: typ, Active: domain.BoolPtr(true)})
	if err != nil {
		logger.Warn("Entity options unavailable", "type", typ, "error", err)
		return []domain.Option{}
	}
	opts := make([]domain.Option, 0, len(items))
	for _, e := range items {
		opts = append(opts, domain.Option{ID: e.ID, Name: nameOr(e.Name)})
	}
	domain.SortOptions(opts)
	return opts
}

func (s *catalogService) LookupOptions(ctx context.Context, collection string) []domain.Option {
	items, err := s.lookupRepo.ListLookups(ctx, collection)
	if err != nil {
		logger.Warn("Lookup options unavailable", "collection", collection, "error", err)
		return []domain.Option{}
	}
	opts := make([]domain.Option, 0, len(items))
	for _, l := range items {
		opts = append(opts, domain.Option{ID: l.ID, Name: nameOr(l.Name)})
	}
	domain.SortOptions(opts)
	return opts
}

func nameOr(name string) string {
	if name == "" {
		return unnamed
	}
	return name
}
