package migration

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"equipos-backend/internal/domain"
	"equipos-backend/internal/logger"
	"equipos-backend/internal/utils"
)

// CSV export kinds accepted by ImportCSV.
const (
	KindExpenses         = "gastos"
	KindOperatorPayments = "pagos_operadores"
	KindMaintenance      = "mantenimientos"
)

type columnKind int

const (
	textColumn columnKind = iota
	numberColumn
	amountColumn // number defaulting to 0
)

// column copies the CSV column source into the document field key.
type column struct {
	key    string
	source string
	kind   columnKind
}

type csvLayout struct {
	collection string
	origin     string
	columns    []column
	constants  domain.Fields
}

var csvLayouts = map[string]csvLayout{
	KindExpenses: {
		collection: domain.CollectionExpenses,
		origin:     "sqlite_gastos_csv",
		columns: []column{
			{key: domain.FieldDate, source: "fecha"},
			{key: "proyecto_id", source: "proyecto_id"},
			{key: "cuenta_nombre", source: "cuenta"},
			{key: "categoria_nombre", source: "categoria"},
			{key: "subcategoria_nombre", source: "subcategoria"},
			{key: "equipo_nombre", source: "equipo"},
			{key: domain.FieldDescription, source: "descripcion"},
			{key: domain.FieldComment, source: "comentario"},
			{key: domain.FieldAmount, source: "monto", kind: amountColumn},
		},
		constants: domain.Fields{domain.FieldType: "Gasto"},
	},
	KindOperatorPayments: {
		collection: domain.CollectionOperatorPayments,
		origin:     "sqlite_pagos_operadores_csv",
		columns: []column{
			{key: domain.FieldDate, source: "fecha"},
			{key: "proyecto_id", source: "proyecto_id"},
			{key: "cuenta_nombre", source: "cuenta"},
			{key: "operador_nombre", source: "operador"},
			{key: "equipo_nombre", source: "equipo"},
			{key: domain.FieldHours, source: "horas", kind: numberColumn},
			{key: domain.FieldAmount, source: "monto", kind: amountColumn},
			{key: domain.FieldDescription, source: "descripcion"},
			{key: domain.FieldComment, source: "comentario"},
		},
	},
	KindMaintenance: {
		collection: domain.CollectionMaintenance,
		origin:     "sqlite_mantenimientos_csv",
		columns: []column{
			{key: domain.FieldDate, source: "fecha"},
			{key: "proyecto_id", source: "proyecto_id"},
			{key: domain.FieldEquipmentID, source: "equipo_id"},
			{key: "equipo_nombre", source: "equipo_nombre"},
			{key: domain.FieldDescription, source: "descripcion"},
			{key: "costo", source: "costo", kind: amountColumn},
			{key: "horas_totales_equipo", source: "horas_totales_equipo", kind: numberColumn},
			{key: "km_totales_equipo", source: "km_totales_equipo", kind: numberColumn},
			{key: "valor", source: "costo", kind: amountColumn},
			{key: "odometro_horas", source: "horas_totales_equipo", kind: numberColumn},
			{key: "odometro_km", source: "km_totales_equipo", kind: numberColumn},
		},
		constants: domain.Fields{"lectura_es_horas": true},
	},
}

// ImportCSV merge-sets the rows of a legacy CSV export into the collection of
// kind. Rows without id are skipped.
func (m *Migrator) ImportCSV(ctx context.Context, kind, path string) (*Plan, error) {
	layout, ok := csvLayouts[kind]
	if !ok {
		return nil, fmt.Errorf("unsupported csv kind: %s", kind)
	}
	r := m.begin(JobImportCSV + "_" + kind)

	f, err := os.Open(path)
	if err != nil {
		return m.finish(ctx, r, fmt.Errorf("failed to open csv: %w", err))
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return m.finish(ctx, r, fmt.Errorf("failed to read csv header: %w", err))
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}

	imported := m.now().UTC().Format(time.RFC3339)
	line := 1
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return m.finish(ctx, r, fmt.Errorf("failed to read csv line %d: %w", line+1, err))
		}
		line++

		get := func(name string) string {
			if i, ok := index[name]; ok && i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}
		id := get("id")
		if id == "" {
			logger.Warn("CSV row without id skipped", "line", line, "path", path)
			r.note(layout.collection, "", ActionSkip, map[string]string{"motivo": "sin_id", "linea": strconv.Itoa(line)})
			continue
		}

		data := domain.Fields{}
		for _, c := range layout.columns {
			raw := get(c.source)
			switch c.kind {
			case textColumn:
				data[c.key] = raw
			case numberColumn:
				if n, ok := parseNumber(raw); ok {
					data[c.key] = n
				} else {
					data[c.key] = nil
				}
			case amountColumn:
				n, _ := parseNumber(raw)
				data[c.key] = n
			}
		}
		for k, v := range layout.constants {
			data[k] = v
		}
		data["migracion_origen"] = layout.origin
		data["migracion_csv"] = filepath.Base(path)
		data["migracion_fecha"] = imported

		if err := r.set(ctx, layout.collection, id, domain.Fields(utils.StampPeriod(data)), true); err != nil {
			return m.finish(ctx, r, err)
		}
	}
	return m.finish(ctx, r, nil)
}

// parseNumber parses a CSV number, ignoring thousands separators.
func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
