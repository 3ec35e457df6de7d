package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"equipos-backend/internal/config"
	"equipos-backend/internal/domain"
	"equipos-backend/internal/logger"
)

// Legacy table names.
const (
	TableEquipment     = "equipos"
	TableEntities      = "equipos_entidades"
	TableTransactions  = "transacciones"
	TableRentalMeta    = "equipos_alquiler_meta"
	TablePayments      = "pagos"
	TableMaintenance   = "mantenimientos"
	TableCategories    = "categorias"
	TableAccounts      = "cuentas"
	TableSubcategories = "subcategorias"
)

const projectColumn = "proyecto_id"

// Source reads rows from the legacy relational export. Null columns are
// omitted from the returned rows.
type Source interface {
	Rows(ctx context.Context, table string, where squirrel.Sqlizer) ([]domain.Fields, error)
	HasColumn(ctx context.Context, table, column string) (bool, error)
	ProjectEquipmentIDs(ctx context.Context, projectID string) ([]string, error)
	RentalRows(ctx context.Context, projectID string) ([]domain.Fields, error)
	PaymentRows(ctx context.Context, projectID string) ([]domain.Fields, error)
	CategoryIDByName(ctx context.Context, name string) (string, bool, error)
	ExpenseRows(ctx context.Context, projectID, sentinelID string, operatorPayments bool) ([]domain.Fields, error)
}

// LegacySource is the database/sql implementation of Source.
type LegacySource struct {
	db      *sql.DB
	builder squirrel.StatementBuilderType
}

// NewLegacySource wraps db. The driver name selects the placeholder style.
func NewLegacySource(db *sql.DB, driver string) *LegacySource {
	format := squirrel.PlaceholderFormat(squirrel.Question)
	if driver == "postgres" {
		format = squirrel.Dollar
	}
	return &LegacySource{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(format),
	}
}

// OpenLegacySource opens the export described by cfg.
func OpenLegacySource(cfg config.LegacyConfig) (*LegacySource, error) {
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open legacy database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping legacy database: %w", err)
	}
	logger.Info("Legacy database connected", "driver", cfg.Driver)
	return NewLegacySource(db, cfg.Driver), nil
}

func (s *LegacySource) Close() error {
	return s.db.Close()
}

func (s *LegacySource) query(ctx context.Context, op string, q squirrel.SelectBuilder) ([]domain.Fields, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s query: %w", op, err)
	}
	logger.DatabaseCall("SELECT", op, "query", query)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err, "source", op)
		return nil, fmt.Errorf("failed to query %s: %w", op, err)
	}
	defer rows.Close()

	out, err := scanRows(rows)
	logger.DatabaseResult("SELECT", int64(len(out)), err, "source", op)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", op, err)
	}
	return out, nil
}

func scanRows(rows *sql.Rows) ([]domain.Fields, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []domain.Fields
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(domain.Fields, len(cols))
		for i, col := range cols {
			if v := decodeValue(values[i]); v != nil {
				row[col] = v
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// decodeValue converts driver values into document values.
func decodeValue(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format("2006-01-02")
		}
		return t.Format(time.RFC3339)
	case int32:
		return int64(t)
	default:
		return v
	}
}

// Rows returns every row of table matching where. A nil where reads the whole table.
func (s *LegacySource) Rows(ctx context.Context, table string, where squirrel.Sqlizer) ([]domain.Fields, error) {
	q := s.builder.Select("*").From(table)
	if where != nil {
		q = q.Where(where)
	}
	return s.query(ctx, table, q)
}

// HasColumn reports whether table has column, reading the table's columns
// from an empty result set.
func (s *LegacySource) HasColumn(ctx context.Context, table, column string) (bool, error) {
	query, args, err := s.builder.Select("*").From(table).Limit(0).ToSql()
	if err != nil {
		return false, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to inspect %s: %w", table, err)
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return false, err
	}
	for _, c := range cols {
		if c == column {
			return true, nil
		}
	}
	return false, nil
}

func (s *LegacySource) ProjectEquipmentIDs(ctx context.Context, projectID string) ([]string, error) {
	rows, err := s.query(ctx, TableEquipment,
		s.builder.Select("id").From(TableEquipment).Where(squirrel.Eq{projectColumn: projectID}))
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		if id := r.ID("id"); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// RentalRows joins income transactions with their rental metadata.
func (s *LegacySource) RentalRows(ctx context.Context, projectID string) ([]domain.Fields, error) {
	q := s.builder.
		Select(
			"T.id", "T.fecha", "T.descripcion", "T.monto", "T.pagado", "T.comentario",
			"T.proyecto_id", "T.tipo", "T.equipo_id",
			"META.cliente_id", "META.operador_id", "META.horas", "META.precio_por_hora",
			"META.conduce", "META.ubicacion", "META.conduce_adjunto_path", "META.transaccion_id",
		).
		From(TableTransactions + " T").
		Join(TableRentalMeta + " META ON T.id = META.transaccion_id").
		Where(squirrel.Eq{"T.proyecto_id": projectID}).
		Where(squirrel.Eq{"T.tipo": "Ingreso"})
	return s.query(ctx, "rentals", q)
}

// PaymentRows returns the payments of the project's rentals together with
// the client and description of the rental.
func (s *LegacySource) PaymentRows(ctx context.Context, projectID string) ([]domain.Fields, error) {
	q := s.builder.
		Select(
			"P.id AS pago_id", "P.transaccion_id", "P.cuenta_id", "P.fecha", "P.monto", "P.comentario",
			"T.proyecto_id", "T.descripcion AS transaccion_descripcion", "META.cliente_id",
		).
		From(TablePayments + " P").
		Join(TableTransactions + " T ON P.transaccion_id = T.id").
		Join(TableRentalMeta + " META ON T.id = META.transaccion_id").
		Where(squirrel.Eq{"T.proyecto_id": projectID}).
		Where(squirrel.Eq{"T.tipo": "Ingreso"})
	return s.query(ctx, "payments", q)
}

func (s *LegacySource) CategoryIDByName(ctx context.Context, name string) (string, bool, error) {
	rows, err := s.query(ctx, TableCategories,
		s.builder.Select("id").From(TableCategories).Where(squirrel.Eq{"nombre": name}).Limit(1))
	if err != nil {
		return "", false, err
	}
	if len(rows) == 0 {
		return "", false, nil
	}
	return rows[0].ID("id"), true, nil
}

// ExpenseRows returns the project's expense transactions. With
// operatorPayments set only rows of the sentinel category are returned;
// otherwise every other row is, including rows without a category.
func (s *LegacySource) ExpenseRows(ctx context.Context, projectID, sentinelID string, operatorPayments bool) ([]domain.Fields, error) {
	q := s.builder.Select("*").From(TableTransactions).
		Where(squirrel.Eq{"tipo": "Gasto"}).
		Where(squirrel.Eq{projectColumn: projectID})
	switch {
	case operatorPayments:
		q = q.Where(squirrel.Eq{"categoria_id": sentinelID})
	case sentinelID != "":
		q = q.Where(squirrel.Or{
			squirrel.NotEq{"categoria_id": sentinelID},
			squirrel.Eq{"categoria_id": nil},
		})
	}
	return s.query(ctx, "expenses", q)
}
