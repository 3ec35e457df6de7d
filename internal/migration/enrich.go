package migration

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"equipos-backend/internal/domain"
	"equipos-backend/internal/logger"
)

const enrichMethod = "enriquecer_subcat_desc_com"

// EnrichOperatorPayments completes operator payments migrated without
// category, subcategory, description, comment or account. The operator
// payment category and a subcategory per equipment are created when missing;
// in plan mode they are only reported as pending.
func (m *Migrator) EnrichOperatorPayments(ctx context.Context) (*Plan, error) {
	r := m.begin(JobEnrichPayments)

	categoryID, err := m.ensureCategory(ctx, r)
	if err != nil {
		return m.finish(ctx, r, err)
	}

	equipmentRecords, err := m.scan(ctx, domain.CollectionEquipment)
	if err != nil {
		return m.finish(ctx, r, err)
	}
	entityRecords, err := m.scan(ctx, domain.CollectionEntities)
	if err != nil {
		return m.finish(ctx, r, err)
	}
	rentals, err := m.scan(ctx, domain.CollectionRentals)
	if err != nil {
		return m.finish(ctx, r, err)
	}
	payments, err := m.scan(ctx, domain.CollectionOperatorPayments)
	if err != nil {
		return m.finish(ctx, r, err)
	}

	equipment := names(equipmentRecords)
	entities := names(entityRecords)
	latest := latestRentals(rentals)
	subcategories := map[string]string{}

	for _, rec := range payments {
		f := rec.Fields
		equipmentID := f.ID(domain.FieldEquipmentID)
		equipmentName := equipment[equipmentID]

		patch := domain.Fields{}
		if categoryID != "" && f.ID(domain.FieldCategoryID) == "" {
			patch[domain.FieldCategoryID] = categoryID
		}
		if f.ID(domain.FieldSubcategoryID) == "" && equipmentName != "" {
			subID, err := m.ensureSubcategory(ctx, r, subcategories, equipmentName, categoryID)
			if err != nil {
				return m.finish(ctx, r, err)
			}
			if subID != "" {
				patch[domain.FieldSubcategoryID] = subID
			}
		}

		hours := ""
		if f.Has(domain.FieldHours) {
			hours = strconv.FormatFloat(f.Float(domain.FieldHours), 'f', -1, 64)
		}
		operator := f.String("operador_nombre")
		if operator == "" {
			operator = entities[f.ID(domain.FieldOperatorID)]
		}
		if f.String(domain.FieldDescription) == "" {
			patch[domain.FieldDescription] = strings.TrimSpace(fmt.Sprintf("Pago %s Horas Operador %s", hours, operator))
		}
		if f.String(domain.FieldComment) == "" {
			var client, location string
			if rental, ok := latest[equipmentID]; ok {
				clientID := rental.ID(domain.FieldClientID)
				client = entities[clientID]
				if client == "" {
					client = clientID
				}
				location = rental.String(domain.FieldLocation)
			}
			patch[domain.FieldComment] = strings.TrimSpace(fmt.Sprintf("Pago %s Horas, Operador %s, Cliente %s, Ubicacion %s",
				hours, operator, client, location))
		}
		if f.ID(domain.FieldAccountID) == "" && m.opts.DefaultAccountID != "" {
			patch[domain.FieldAccountID] = m.opts.DefaultAccountID
		}

		if len(patch) == 0 {
			continue
		}
		patch["migracion_pagos"] = map[string]any{
			"cuando": m.now().UTC().Format(time.RFC3339),
			"metodo": enrichMethod,
		}
		if err := r.update(ctx, domain.CollectionOperatorPayments, rec.ID, patch); err != nil {
			return m.finish(ctx, r, err)
		}
	}
	return m.finish(ctx, r, nil)
}

func (m *Migrator) ensureCategory(ctx context.Context, r *run) (string, error) {
	name := m.opts.OperatorPaymentCategory
	existing, err := m.lookups.FindByName(ctx, domain.CollectionCategories, name, "")
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, nil
	}
	if !m.opts.Commit {
		r.note(domain.CollectionCategories, "", ActionPending, map[string]string{domain.FieldName: name})
		return "", nil
	}
	id, err := m.lookups.CreateLookup(ctx, domain.CollectionCategories, &domain.Lookup{Name: name})
	if err != nil {
		return "", err
	}
	logger.Info("Category created", "name", name, "id", id)
	r.note(domain.CollectionCategories, id, ActionSet, map[string]string{domain.FieldName: name})
	return id, nil
}

// ensureSubcategory resolves the subcategory named after an equipment within
// the category. cache remembers every name already resolved, including
// pending ones, which map to "".
func (m *Migrator) ensureSubcategory(ctx context.Context, r *run, cache map[string]string, name, categoryID string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if id, ok := cache[key]; ok {
		return id, nil
	}
	if categoryID != "" {
		existing, err := m.lookups.FindByName(ctx, domain.CollectionSubcategories, name, categoryID)
		if err != nil {
			return "", err
		}
		if existing != nil {
			cache[key] = existing.ID
			return existing.ID, nil
		}
	}
	if !m.opts.Commit || categoryID == "" {
		r.note(domain.CollectionSubcategories, "", ActionPending, map[string]string{domain.FieldName: name, domain.FieldCategoryID: categoryID})
		cache[key] = ""
		return "", nil
	}
	id, err := m.lookups.CreateLookup(ctx, domain.CollectionSubcategories, &domain.Lookup{Name: name, CategoryID: categoryID})
	if err != nil {
		return "", err
	}
	r.note(domain.CollectionSubcategories, id, ActionSet, map[string]string{domain.FieldName: name, domain.FieldCategoryID: categoryID})
	cache[key] = id
	return id, nil
}

// latestRentals returns the most recent rental of each equipment by fecha.
func latestRentals(rentals []domain.Record) map[string]domain.Fields {
	out := map[string]domain.Fields{}
	for _, rec := range rentals {
		id := rec.Fields.ID(domain.FieldEquipmentID)
		if id == "" {
			continue
		}
		if cur, ok := out[id]; !ok || rec.Fields.String(domain.FieldDate) >= cur.String(domain.FieldDate) {
			out[id] = rec.Fields
		}
	}
	return out
}
