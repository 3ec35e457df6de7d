package migration

import (
	"context"

	"equipos-backend/internal/domain"
	"equipos-backend/internal/logger"
	"equipos-backend/internal/utils"
)

// Pass names the foreign-key fields NormalizeIDs rewrites in one collection.
type Pass struct {
	Collection string
	Fields     []string
}

// DefaultPasses covers every collection holding legacy numeric keys.
func DefaultPasses() []Pass {
	return []Pass{
		{Collection: domain.CollectionRentals, Fields: []string{domain.FieldEquipmentID, domain.FieldOperatorID, domain.FieldClientID}},
		{Collection: domain.CollectionAdvances, Fields: []string{domain.FieldClientID}},
		{Collection: domain.CollectionExpenses, Fields: []string{domain.FieldEquipmentID, domain.FieldAccountID, domain.FieldCategoryID, domain.FieldSubcategoryID}},
		{Collection: domain.CollectionOperatorPayments, Fields: []string{domain.FieldOperatorID, domain.FieldEquipmentID}},
		{Collection: domain.CollectionMaintenance, Fields: []string{domain.FieldEquipmentID}},
	}
}

// NormalizeIDs rewrites non-string foreign keys to their canonical string.
// String values are never touched, so a second run plans no writes.
func (m *Migrator) NormalizeIDs(ctx context.Context, passes []Pass) (*Plan, error) {
	r := m.begin(JobNormalizeIDs)
	for _, pass := range passes {
		records, err := m.scan(ctx, pass.Collection)
		if err != nil {
			return m.finish(ctx, r, err)
		}
		changed := 0
		for _, rec := range records {
			patch := domain.Fields{}
			for _, field := range pass.Fields {
				v, ok := rec.Fields[field]
				if !ok || v == nil || utils.IsCanonicalID(v) {
					continue
				}
				patch[field] = utils.ToCanonicalID(v)
			}
			if len(patch) == 0 {
				continue
			}
			if err := r.update(ctx, pass.Collection, rec.ID, patch); err != nil {
				return m.finish(ctx, r, err)
			}
			changed++
		}
		logger.Info("Normalization pass evaluated", "collection", pass.Collection, "documents", len(records), "changed", changed)
	}
	return m.finish(ctx, r, nil)
}
