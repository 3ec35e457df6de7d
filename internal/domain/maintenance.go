package domain

import "time"

// Maintenance is a service event on an equipment.
type Maintenance struct {
	ID            string    `json:"id"`
	Date          string    `json:"fecha"`
	EquipmentID   string    `json:"equipo_id"`
	Description   string    `json:"descripcion,omitempty"`
	Type          string    `json:"tipo,omitempty"`
	Cost          float64   `json:"costo"`
	OdometerHours float64   `json:"odometro_horas,omitempty"`
	OdometerKm    float64   `json:"odometro_km,omitempty"`
	Notes         string    `json:"notas,omitempty"`
	NextType      string    `json:"proximo_tipo,omitempty"`
	NextValue     float64   `json:"proximo_valor,omitempty"`
	NextDate      string    `json:"proximo_fecha,omitempty"`
	Year          int       `json:"ano,omitempty"`
	Month         int       `json:"mes,omitempty"`
	CreatedAt     time.Time `json:"fecha_creacion"`
	UpdatedAt     time.Time `json:"fecha_modificacion"`
	Extra         Fields    `json:"extra,omitempty"`
}

var maintenanceKeys = []string{
	FieldDate, FieldEquipmentID, FieldDescription, FieldType, "costo", "odometro_horas",
	"odometro_km", "notas", "proximo_tipo", "proximo_valor", "proximo_fecha",
}

func (m Maintenance) ToFields() Fields {
	f := Fields{}
	for k, v := range m.Extra {
		f[k] = v
	}
	f[FieldDate] = m.Date
	f[FieldEquipmentID] = m.EquipmentID
	putString(f, FieldDescription, m.Description)
	putString(f, FieldType, m.Type)
	f["costo"] = m.Cost
	if m.OdometerHours != 0 {
		f["odometro_horas"] = m.OdometerHours
	}
	if m.OdometerKm != 0 {
		f["odometro_km"] = m.OdometerKm
	}
	putString(f, "notas", m.Notes)
	putString(f, "proximo_tipo", m.NextType)
	if m.NextValue != 0 {
		f["proximo_valor"] = m.NextValue
	}
	putString(f, "proximo_fecha", m.NextDate)
	return f
}

func MaintenanceFromRecord(r Record) Maintenance {
	f := r.Fields
	return Maintenance{
		ID:            r.ID,
		Date:          f.String(FieldDate),
		EquipmentID:   f.ID(FieldEquipmentID),
		Description:   f.String(FieldDescription),
		Type:          f.String(FieldType),
		Cost:          f.Float("costo"),
		OdometerHours: f.Float("odometro_horas"),
		OdometerKm:    f.Float("odometro_km"),
		Notes:         f.String("notas"),
		NextType:      f.String("proximo_tipo"),
		NextValue:     f.Float("proximo_valor"),
		NextDate:      f.String("proximo_fecha"),
		Year:          f.Int(FieldYear),
		Month:         f.Int(FieldMonth),
		CreatedAt:     f.Time(FieldCreatedAt),
		UpdatedAt:     f.Time(FieldUpdatedAt),
		Extra:         extras(f, maintenanceKeys...),
	}
}

// Lookup is an entry of a global reference collection: an account, a
// category, or a subcategory (which also carries its category).
type Lookup struct {
	ID         string    `json:"id"`
	Name       string    `json:"nombre"`
	CategoryID string    `json:"categoria_id,omitempty"`
	CreatedAt  time.Time `json:"fecha_creacion"`
	UpdatedAt  time.Time `json:"fecha_modificacion"`
	Extra      Fields    `json:"extra,omitempty"`
}

func (l Lookup) ToFields() Fields {
	f := Fields{}
	for k, v := range l.Extra {
		f[k] = v
	}
	f[FieldName] = l.Name
	putString(f, FieldCategoryID, l.CategoryID)
	return f
}

func LookupFromRecord(r Record) Lookup {
	f := r.Fields
	return Lookup{
		ID:         r.ID,
		Name:       f.String(FieldName),
		CategoryID: f.ID(FieldCategoryID),
		CreatedAt:  f.Time(FieldCreatedAt),
		UpdatedAt:  f.Time(FieldUpdatedAt),
		Extra:      extras(f, FieldName, FieldCategoryID),
	}
}
