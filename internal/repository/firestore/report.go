package firestore

import (
	"context"
	"errors"

	"equipos-backend/internal/docstore"
	"equipos-backend/internal/domain"
	"equipos-backend/internal/logger"
	"equipos-backend/internal/repository"
	"equipos-backend/internal/utils"
)

type reportRepository struct {
	db docstore.Store
}

func NewReportRepository(db docstore.Store) repository.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) fail(op, collection string, err error) error {
	logger.Error("Report query failed", "operation", op, "collection", collection, "error", err)
	return &repository.Error{Op: op, Collection: collection, Err: err}
}

func (r *reportRepository) periodQuery(collection, start, end, equipmentID string) docstore.Query {
	q := docstore.NewQuery(collection).
		Where(domain.FieldDate, docstore.OpGreaterOrEqual, start).
		Where(domain.FieldDate, docstore.OpLessOrEqual, end)
	if equipmentID != "" {
		q = q.Where(domain.FieldEquipmentID, docstore.OpEqual, equipmentID)
	}
	return q
}

func (r *reportRepository) sum(ctx context.Context, op string, q docstore.Query) (float64, []docstore.Document, error) {
	docs, err := r.db.Query(ctx, q)
	if err != nil {
		return 0, nil, r.fail(op, q.Collection, err)
	}
	var total utils.Money
	for _, d := range docs {
		total.Add(domain.Fields(d.Data).Float(domain.FieldAmount))
	}
	return total.Float64(), docs, nil
}

// DashboardStats aggregates income and expenses for the period. The unpaid
// balance covers every unpaid rental regardless of the period.
func (r *reportRepository) DashboardStats(ctx context.Context, f domain.StatsFilter) (*domain.DashboardStats, error) {
	start, end, err := f.Range()
	if err != nil {
		return nil, err
	}
	stats := &domain.DashboardStats{}

	var docs []docstore.Document
	stats.Income, docs, err = r.sum(ctx, "dashboard-income",
		r.periodQuery(domain.CollectionRentals, start, end, f.EquipmentID).Order(domain.FieldDate, docstore.Descending))
	if err != nil {
		return nil, err
	}
	stats.IncomeRecords = make([]domain.Rental, 0, len(docs))
	for _, rec := range toRecords(docs) {
		stats.IncomeRecords = append(stats.IncomeRecords, domain.RentalFromRecord(rec))
	}

	stats.EquipmentExpense, _, err = r.sum(ctx, "dashboard-expenses",
		r.periodQuery(domain.CollectionExpenses, start, end, f.EquipmentID))
	if err != nil {
		return nil, err
	}
	stats.OperatorPayments, _, err = r.sum(ctx, "dashboard-operator-payments",
		r.periodQuery(domain.CollectionOperatorPayments, start, end, f.EquipmentID))
	if err != nil {
		return nil, err
	}

	stats.Expense = utils.Sum(stats.EquipmentExpense, stats.OperatorPayments)
	var profit utils.Money
	profit.Add(stats.Income)
	profit.Sub(stats.Expense)
	stats.Profit = profit.Float64()

	stats.UnpaidBalance, _, err = r.sum(ctx, "dashboard-unpaid",
		docstore.NewQuery(domain.CollectionRentals).Where(domain.FieldPaid, docstore.OpEqual, false))
	if err != nil {
		return nil, err
	}

	stats.ActiveEquipment, err = r.countActiveEquipment(ctx)
	if err != nil {
		return nil, err
	}

	logger.Info("Dashboard stats computed", "start", start, "end", end, "equipo_id", f.EquipmentID,
		"income", stats.Income, "expense", stats.Expense, "rentals", len(stats.IncomeRecords))
	return stats, nil
}

// countActiveEquipment falls back to counting every equipment when the
// filtered query needs an index the store does not have.
func (r *reportRepository) countActiveEquipment(ctx context.Context) (int, error) {
	docs, err := r.db.Query(ctx, docstore.NewQuery(domain.CollectionEquipment).Where(domain.FieldActive, docstore.OpEqual, true))
	if err == nil {
		return len(docs), nil
	}
	if !docstore.IsIndexMissing(err) {
		return 0, r.fail("dashboard-active-equipment", domain.CollectionEquipment, err)
	}

	logger.Warn("Active equipment query needs an index, counting all equipment", "error", err)
	docs, err = r.db.Query(ctx, docstore.NewQuery(domain.CollectionEquipment))
	if err != nil {
		return 0, r.fail("dashboard-all-equipment", domain.CollectionEquipment, err)
	}
	return len(docs), nil
}

func (r *reportRepository) EarliestDate(ctx context.Context, collection, fkField, fkValue string) (string, bool, error) {
	q := docstore.NewQuery(collection)
	if fkField != "" && fkValue != "" {
		q = q.Where(fkField, docstore.OpEqual, fkValue)
	}
	// An empty fecha sorts before every date.
	q = q.Where(domain.FieldDate, docstore.OpGreater, "")

	docs, err := r.db.Query(ctx, q.Order(domain.FieldDate, docstore.Ascending).Take(1))
	if err != nil {
		if !docstore.IsIndexMissing(err) {
			return "", false, r.fail("earliest-date", collection, err)
		}
		logger.Warn("Earliest date query needs an index, scanning", "collection", collection, "field", fkField)
		docs, err = r.db.Query(ctx, q)
		if err != nil {
			return "", false, r.fail("earliest-date", collection, err)
		}
	}

	earliest := ""
	for _, d := range docs {
		date := domain.Fields(d.Data).String(domain.FieldDate)
		if date != "" && (earliest == "" || date < earliest) {
			earliest = date
		}
	}
	return earliest, earliest != "", nil
}

// ClientDebt sums a client's rentals and advances over an optional date range.
func (r *reportRepository) ClientDebt(ctx context.Context, clientID, start, end string) (domain.Debt, error) {
	if clientID == "" {
		return domain.Debt{}, errors.New("client id is required")
	}
	f := domain.Filter{Start: start, End: end}
	invoiced, _, err := r.sum(ctx, "client-debt-rentals",
		dated(domain.CollectionRentals, f, eq{domain.FieldClientID, clientID}))
	if err != nil {
		return domain.Debt{}, err
	}
	paid, _, err := r.sum(ctx, "client-debt-advances",
		dated(domain.CollectionAdvances, f, eq{domain.FieldClientID, clientID}))
	if err != nil {
		return domain.Debt{}, err
	}
	return domain.NewDebt(invoiced, paid), nil
}
