package migration

import (
	"context"
	"strconv"
	"strings"
	"time"

	"equipos-backend/internal/docstore"
	"equipos-backend/internal/domain"
	"equipos-backend/internal/logger"
)

// Plan actions specific to equipment inference.
const (
	ActionReview = "review"
)

const inferenceMethod = "subcategoria"

type equipmentName struct {
	id         string
	name       string
	normalized string
}

// missingEquipment reports whether an expense has no usable equipo_id.
func missingEquipment(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "", "0", "none", "null":
			return true
		}
		return false
	case int, int32, int64, float32, float64:
		return domain.Fields{"v": t}.Float("v") == 0
	}
	return false
}

// InferExpenseEquipment fills equipo_id on expenses that lack it by fuzzy
// matching their subcategory name against equipment names. Matches scoring
// at least DetectThreshold are planned; only those reaching CommitThreshold
// are written. In commit mode the applied matches are also exported as a
// result CSV.
func (m *Migrator) InferExpenseEquipment(ctx context.Context) (*Plan, error) {
	r := m.begin(JobInferEquipment)

	equipment, err := m.equipmentNames(ctx)
	if err != nil {
		return m.finish(ctx, r, err)
	}
	subRecords, err := m.scan(ctx, domain.CollectionSubcategories)
	if err != nil {
		return m.finish(ctx, r, err)
	}
	subcategories := aliasNames(subRecords)

	var filters []docstore.Filter
	if m.opts.From != "" {
		filters = append(filters, docstore.Filter{Field: domain.FieldDate, Op: docstore.OpGreaterOrEqual, Value: m.opts.From})
	}
	if m.opts.To != "" {
		filters = append(filters, docstore.Filter{Field: domain.FieldDate, Op: docstore.OpLessOrEqual, Value: m.opts.To})
	}
	expenses, err := m.scan(ctx, domain.CollectionExpenses, filters...)
	if err != nil {
		return m.finish(ctx, r, err)
	}

	var applied []Entry
	processed := 0
	for _, rec := range expenses {
		if !missingEquipment(rec.Fields[domain.FieldEquipmentID]) {
			continue
		}
		if m.opts.Limit > 0 && processed >= m.opts.Limit {
			break
		}
		processed++

		subName := subcategories[rec.Fields.ID(domain.FieldSubcategoryID)]
		values := map[string]string{"subcategoria": subName}
		if subName == "" {
			values["motivo"] = "sin_subcategoria"
			r.note(domain.CollectionExpenses, rec.ID, ActionSkip, values)
			continue
		}

		best, score := bestMatch(Normalize(subName, m.opts.Synonyms), equipment)
		values["score"] = strconv.FormatFloat(score, 'f', 3, 64)
		if score < m.opts.DetectThreshold {
			values["motivo"] = "sin_coincidencia"
			r.note(domain.CollectionExpenses, rec.ID, ActionSkip, values)
			continue
		}
		values[domain.FieldEquipmentID] = best.id
		values["equipo_nombre"] = best.name
		if score < m.opts.CommitThreshold {
			values["motivo"] = "requiere_revision"
			r.note(domain.CollectionExpenses, rec.ID, ActionReview, values)
			continue
		}

		patch := domain.Fields{
			domain.FieldEquipmentID: best.id,
			"migracion_equipo": map[string]any{
				"cuando":        m.now().UTC().Format(time.RFC3339),
				"metodo":        inferenceMethod,
				"score":         score,
				"equipo_nombre": best.name,
			},
		}
		if err := r.update(ctx, domain.CollectionExpenses, rec.ID, patch); err != nil {
			return m.finish(ctx, r, err)
		}
		applied = append(applied, Entry{Collection: domain.CollectionExpenses, ID: rec.ID, Action: ActionUpdate, Values: values})
	}

	logger.Info("Equipment inference evaluated", "processed", processed,
		"matches", r.plan.Count(ActionUpdate), "review", r.plan.Count(ActionReview))

	plan, err := m.finish(ctx, r, nil)
	if err == nil && m.opts.Commit && m.plans != nil {
		path, werr := m.plans.Write("result", JobInferEquipment, applied)
		if werr != nil {
			logger.Warn("Failed to export inference result", "error", werr)
		}
		plan.ResultFile = path
	}
	return plan, err
}

// equipmentNames loads every equipment document with its normalized name.
// Documents without nombre fall back to the legacy equipo field, then the id.
func (m *Migrator) equipmentNames(ctx context.Context) ([]equipmentName, error) {
	records, err := m.scan(ctx, domain.CollectionEquipment)
	if err != nil {
		return nil, err
	}
	out := make([]equipmentName, 0, len(records))
	for _, rec := range records {
		name := rec.Fields.String(domain.FieldName)
		if name == "" {
			name = rec.Fields.String("equipo")
		}
		if name == "" {
			name = rec.ID
		}
		out = append(out, equipmentName{id: rec.ID, name: name, normalized: Normalize(name, m.opts.Synonyms)})
	}
	return out, nil
}

// aliasNames maps ids to names, keyed both by document id and by the legacy
// id field when one was carried over.
func aliasNames(records []domain.Record) map[string]string {
	out := names(records)
	for _, rec := range records {
		if legacy := rec.Fields.ID("id"); legacy != "" {
			if _, taken := out[legacy]; !taken {
				out[legacy] = out[rec.ID]
			}
		}
	}
	return out
}

// bestMatch returns the highest scoring equipment. Ties keep the first one.
func bestMatch(candidate string, equipment []equipmentName) (equipmentName, float64) {
	var best equipmentName
	bestScore := 0.0
	for _, eq := range equipment {
		if s := Score(candidate, eq.normalized); s > bestScore {
			best, bestScore = eq, s
		}
	}
	return best, bestScore
}
