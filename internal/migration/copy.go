package migration

import (
	"context"

	"github.com/Masterminds/squirrel"

	"equipos-backend/internal/domain"
	"equipos-backend/internal/logger"
	"equipos-backend/internal/utils"
)

// Job names accepted by Run.
const (
	JobFull           = "full"
	JobRentals        = "rentals"
	JobExpenses       = "expenses"
	JobAdvances       = "advances"
	JobMaintenance    = "maintenance"
	JobInferEquipment = "infer-equipment"
	JobNormalizeIDs   = "normalize-ids"
	JobEnrichPayments = "enrich-payments"
	JobImportCSV      = "import-csv"
)

// TableCopy maps a legacy table onto a collection.
type TableCopy struct {
	Collection string
	Table      string
	Global     bool
}

// DefaultCopies are the plain table copies, in the order Full runs them.
var DefaultCopies = []TableCopy{
	{Collection: domain.CollectionEquipment, Table: TableEquipment},
	{Collection: domain.CollectionEntities, Table: TableEntities},
	{Collection: domain.CollectionCategories, Table: TableCategories, Global: true},
	{Collection: domain.CollectionAccounts, Table: TableAccounts, Global: true},
	{Collection: domain.CollectionSubcategories, Table: TableSubcategories, Global: true},
}

// CopyTable copies a legacy table into collection. Project tables are
// filtered by proyecto_id; a project table without that column is skipped.
func (m *Migrator) CopyTable(ctx context.Context, collection, table string, global bool) (*Plan, error) {
	r := m.begin("copy_" + collection)

	var where squirrel.Sqlizer
	if !global {
		if m.opts.ProjectID == "" {
			logger.Warn("No project selected, skipping project table", "table", table)
			return m.finish(ctx, r, nil)
		}
		ok, err := m.source.HasColumn(ctx, table, projectColumn)
		if err != nil {
			return m.finish(ctx, r, err)
		}
		if !ok {
			logger.Warn("Table has no project column, skipping", "table", table, "column", projectColumn)
			return m.finish(ctx, r, nil)
		}
		where = squirrel.Eq{projectColumn: m.opts.ProjectID}
	}

	rows, err := m.read(ctx, func() ([]domain.Fields, error) {
		return m.source.Rows(ctx, table, where)
	})
	if err != nil {
		return m.finish(ctx, r, err)
	}
	return m.finish(ctx, r, m.copyRows(ctx, r, collection, "id", rows))
}

// Maintenance copies the maintenance rows of the project's equipment.
func (m *Migrator) Maintenance(ctx context.Context) (*Plan, error) {
	r := m.begin(JobMaintenance)
	if err := m.limiter.Wait(ctx); err != nil {
		return m.finish(ctx, r, err)
	}
	ids, err := m.source.ProjectEquipmentIDs(ctx, m.opts.ProjectID)
	if err != nil {
		return m.finish(ctx, r, err)
	}
	if len(ids) == 0 {
		logger.Warn("Project has no equipment, no maintenance to copy", "project_id", m.opts.ProjectID)
		return m.finish(ctx, r, nil)
	}
	rows, err := m.read(ctx, func() ([]domain.Fields, error) {
		return m.source.Rows(ctx, TableMaintenance, squirrel.Eq{domain.FieldEquipmentID: ids})
	})
	if err != nil {
		return m.finish(ctx, r, err)
	}
	return m.finish(ctx, r, m.copyRows(ctx, r, domain.CollectionMaintenance, "id", rows))
}

// Rentals copies income transactions joined with their rental metadata.
// The document id is the transaction id.
func (m *Migrator) Rentals(ctx context.Context) (*Plan, error) {
	r := m.begin(JobRentals)
	rows, err := m.read(ctx, func() ([]domain.Fields, error) {
		return m.source.RentalRows(ctx, m.opts.ProjectID)
	})
	if err != nil {
		return m.finish(ctx, r, err)
	}
	for _, row := range rows {
		id := row.ID(domain.FieldTransactionID)
		if id == "" {
			id = row.ID("id")
		}
		if id == "" {
			r.note(domain.CollectionRentals, "", ActionSkip, map[string]string{"motivo": "sin_id"})
			continue
		}
		data := legacyDocument(row)
		// A NULL pagado is dropped by the scan; it still means unpaid.
		data[domain.FieldPaid] = row.Bool(domain.FieldPaid)
		if data.Has(domain.FieldHours) && data.Has(domain.FieldUnitPrice) {
			data[domain.FieldAmount] = utils.ComputeAmount(row.Float(domain.FieldHours), row.Float(domain.FieldUnitPrice))
		}
		if err := r.set(ctx, domain.CollectionRentals, id, data, false); err != nil {
			return m.finish(ctx, r, err)
		}
	}
	return m.finish(ctx, r, nil)
}

// ExpenseSplit routes expense transactions. Rows of the operator payment
// category go to pagos_operadores and every other row, including rows without
// a category, goes to gastos. Without that category every row is an expense.
func (m *Migrator) ExpenseSplit(ctx context.Context) (*Plan, error) {
	r := m.begin(JobExpenses)
	if err := m.limiter.Wait(ctx); err != nil {
		return m.finish(ctx, r, err)
	}
	sentinelID, found, err := m.source.CategoryIDByName(ctx, m.opts.OperatorPaymentCategory)
	if err != nil {
		return m.finish(ctx, r, err)
	}
	if !found {
		logger.Warn("Operator payment category not found, all rows are expenses", "category", m.opts.OperatorPaymentCategory)
		sentinelID = ""
	}

	expenses, err := m.read(ctx, func() ([]domain.Fields, error) {
		return m.source.ExpenseRows(ctx, m.opts.ProjectID, sentinelID, false)
	})
	if err != nil {
		return m.finish(ctx, r, err)
	}
	if err := m.copyRows(ctx, r, domain.CollectionExpenses, "id", expenses); err != nil {
		return m.finish(ctx, r, err)
	}

	if found {
		payments, err := m.read(ctx, func() ([]domain.Fields, error) {
			return m.source.ExpenseRows(ctx, m.opts.ProjectID, sentinelID, true)
		})
		if err != nil {
			return m.finish(ctx, r, err)
		}
		if err := m.copyRows(ctx, r, domain.CollectionOperatorPayments, "id", payments); err != nil {
			return m.finish(ctx, r, err)
		}
		logger.Info("Expenses split", "gastos", len(expenses), "pagos_operadores", len(payments))
	}
	return m.finish(ctx, r, nil)
}

// Advances writes each legacy payment twice: into the rental's payments
// subcollection and into the flat abonos collection, under the same id.
func (m *Migrator) Advances(ctx context.Context) (*Plan, error) {
	r := m.begin(JobAdvances)
	rows, err := m.read(ctx, func() ([]domain.Fields, error) {
		return m.source.PaymentRows(ctx, m.opts.ProjectID)
	})
	if err != nil {
		return m.finish(ctx, r, err)
	}
	now := m.now().UTC()
	for _, row := range rows {
		id := row.ID("pago_id")
		txn := row.ID(domain.FieldTransactionID)
		if id == "" || txn == "" {
			r.note(domain.CollectionAdvances, id, ActionSkip, map[string]string{"motivo": "sin_transaccion"})
			continue
		}
		doc := domain.Fields{
			domain.FieldTransactionID: txn,
			domain.FieldDate:          row.String(domain.FieldDate),
			domain.FieldAmount:        row.Float(domain.FieldAmount),
			domain.FieldConcept:       domain.DefaultConcept,
			domain.FieldCreatedAt:     now,
			domain.FieldUpdatedAt:     now,
		}
		for _, key := range []string{domain.FieldClientID, domain.FieldAccountID, projectColumn, domain.FieldComment, "transaccion_descripcion"} {
			if row.Has(key) {
				doc[key] = row[key]
			}
		}
		doc = domain.CanonicalizeForeignKeys(utils.StampPeriod(doc))

		if err := r.set(ctx, domain.CollectionAdvances, id, doc, false); err != nil {
			return m.finish(ctx, r, err)
		}
		if err := r.set(ctx, domain.RentalPaymentsPath(txn), id, doc, false); err != nil {
			return m.finish(ctx, r, err)
		}
	}
	return m.finish(ctx, r, nil)
}

// Full runs the table copies, maintenance, the expense split, rentals and
// advances in order and stops at the first failing job.
func (m *Migrator) Full(ctx context.Context) ([]*Plan, error) {
	var plans []*Plan
	for _, c := range DefaultCopies {
		p, err := m.CopyTable(ctx, c.Collection, c.Table, c.Global)
		plans = append(plans, p)
		if err != nil {
			return plans, err
		}
	}
	for _, job := range []func(context.Context) (*Plan, error){m.Maintenance, m.ExpenseSplit, m.Rentals, m.Advances} {
		p, err := job(ctx)
		plans = append(plans, p)
		if err != nil {
			return plans, err
		}
	}
	return plans, nil
}

func (m *Migrator) copyRows(ctx context.Context, r *run, collection, idColumn string, rows []domain.Fields) error {
	for _, row := range rows {
		id := row.ID(idColumn)
		if id == "" {
			r.note(collection, "", ActionSkip, map[string]string{"motivo": "sin_id"})
			continue
		}
		if err := r.set(ctx, collection, id, legacyDocument(row), false); err != nil {
			return err
		}
	}
	return nil
}

// legacyDocument turns a source row into document fields: the legacy id
// column is dropped, foreign keys are canonical and the period is stamped.
func legacyDocument(row domain.Fields) domain.Fields {
	data := row.Clone()
	delete(data, "id")
	return domain.CanonicalizeForeignKeys(utils.StampPeriod(data))
}
