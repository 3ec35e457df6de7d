package migration_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equipos-backend/internal/migration"
)

func TestLegacySource_Rows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	src := migration.NewLegacySource(db, "sqlite3")
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
		rows := sqlmock.NewRows([]string{"id", "nombre", "marca", "fecha", "proyecto_id"}).
			AddRow(int64(1), []byte("Retro"), nil, date, int64(3))

		mock.ExpectQuery("SELECT \\* FROM equipos WHERE proyecto_id = \\?").
			WithArgs("3").
			WillReturnRows(rows)

		out, err := src.Rows(ctx, migration.TableEquipment, squirrel.Eq{"proyecto_id": "3"})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, int64(1), out[0]["id"])
		assert.Equal(t, "Retro", out[0]["nombre"])
		assert.Equal(t, "2025-03-14", out[0]["fecha"])
		assert.False(t, out[0].Has("marca"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Whole table", func(t *testing.T) {
		mock.ExpectQuery("SELECT \\* FROM categorias$").
			WillReturnRows(sqlmock.NewRows([]string{"id", "nombre"}).AddRow(int64(5), "Combustible"))

		out, err := src.Rows(ctx, migration.TableCategories, nil)
		require.NoError(t, err)
		assert.Len(t, out, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Equipment ids use IN", func(t *testing.T) {
		mock.ExpectQuery("SELECT \\* FROM mantenimientos WHERE equipo_id IN \\(\\?,\\?\\)").
			WithArgs("1", "2").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		out, err := src.Rows(ctx, migration.TableMaintenance, squirrel.Eq{"equipo_id": []string{"1", "2"}})
		require.NoError(t, err)
		assert.Empty(t, out)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLegacySource_Placeholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	src := migration.NewLegacySource(db, "postgres")
	ctx := context.Background()

	t.Run("Postgres uses numbered placeholders", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "fecha", "monto", "cliente_id", "transaccion_id"}).
			AddRow(int64(10), "2025-01-10", 1000.0, int64(7), int64(10))

		mock.ExpectQuery("SELECT (.+) FROM transacciones T JOIN equipos_alquiler_meta META ON T.id = META.transaccion_id WHERE T.proyecto_id = \\$1 AND T.tipo = \\$2").
			WithArgs("3", "Ingreso").
			WillReturnRows(rows)

		out, err := src.RentalRows(ctx, "3")
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, int64(7), out[0]["cliente_id"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Payments", func(t *testing.T) {
		mock.ExpectQuery("SELECT P.id AS pago_id, (.+) FROM pagos P JOIN transacciones T ON P.transaccion_id = T.id JOIN equipos_alquiler_meta META (.+) WHERE T.proyecto_id = \\$1 AND T.tipo = \\$2").
			WithArgs("3", "Ingreso").
			WillReturnRows(sqlmock.NewRows([]string{"pago_id", "transaccion_id"}).AddRow(int64(50), int64(10)))

		out, err := src.PaymentRows(ctx, "3")
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "50", out[0].ID("pago_id"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLegacySource_ExpenseRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	src := migration.NewLegacySource(db, "sqlite3")
	ctx := context.Background()

	t.Run("Operator payments", func(t *testing.T) {
		mock.ExpectQuery("SELECT \\* FROM transacciones WHERE tipo = \\? AND proyecto_id = \\? AND categoria_id = \\?").
			WithArgs("Gasto", "3", "99").
			WillReturnRows(sqlmock.NewRows([]string{"id", "categoria_id"}).AddRow(int64(1), int64(99)))

		out, err := src.ExpenseRows(ctx, "3", "99", true)
		require.NoError(t, err)
		assert.Len(t, out, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Other expenses include null category", func(t *testing.T) {
		mock.ExpectQuery("SELECT \\* FROM transacciones WHERE tipo = \\? AND proyecto_id = \\? AND \\(categoria_id <> \\? OR categoria_id IS NULL\\)").
			WithArgs("Gasto", "3", "99").
			WillReturnRows(sqlmock.NewRows([]string{"id", "categoria_id"}).
				AddRow(int64(2), int64(5)).
				AddRow(int64(3), nil))

		out, err := src.ExpenseRows(ctx, "3", "99", false)
		require.NoError(t, err)
		assert.Len(t, out, 2)
		assert.False(t, out[1].Has("categoria_id"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Without sentinel every expense", func(t *testing.T) {
		mock.ExpectQuery("SELECT \\* FROM transacciones WHERE tipo = \\? AND proyecto_id = \\?$").
			WithArgs("Gasto", "3").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := src.ExpenseRows(ctx, "3", "", false)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLegacySource_Lookups(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	src := migration.NewLegacySource(db, "sqlite3")
	ctx := context.Background()

	t.Run("HasColumn", func(t *testing.T) {
		mock.ExpectQuery("SELECT \\* FROM equipos_entidades LIMIT 0").
			WillReturnRows(sqlmock.NewRows([]string{"id", "nombre", "tipo"}))

		ok, err := src.HasColumn(ctx, migration.TableEntities, "proyecto_id")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Category found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id FROM categorias WHERE nombre = \\? LIMIT 1").
			WithArgs("PAGO HRS OPERADOR").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(99)))

		id, ok, err := src.CategoryIDByName(ctx, "PAGO HRS OPERADOR")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "99", id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Category missing", func(t *testing.T) {
		mock.ExpectQuery("SELECT id FROM categorias WHERE nombre = \\? LIMIT 1").
			WithArgs("PAGO HRS OPERADOR").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, ok, err := src.CategoryIDByName(ctx, "PAGO HRS OPERADOR")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Project equipment", func(t *testing.T) {
		mock.ExpectQuery("SELECT id FROM equipos WHERE proyecto_id = \\?").
			WithArgs("3").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)).AddRow(int64(2)))

		ids, err := src.ProjectEquipmentIDs(ctx, "3")
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2"}, ids)
	})
}
