package domain

import "time"

// Equipment is a rentable machine.
type Equipment struct {
	ID        string    `json:"id"`
	Name      string    `json:"nombre"`
	Category  string    `json:"categoria,omitempty"`
	Brand     string    `json:"marca,omitempty"`
	Model     string    `json:"modelo,omitempty"`
	Plate     string    `json:"placa,omitempty"`
	Active    *bool     `json:"activo,omitempty"`
	CreatedAt time.Time `json:"fecha_creacion"`
	UpdatedAt time.Time `json:"fecha_modificacion"`
	Extra     Fields    `json:"extra,omitempty"`
}

// IsActive treats a missing flag as active.
func (e Equipment) IsActive() bool {
	return boolOr(e.Active, true)
}

// ToFields encodes the equipment for storage. Timestamps are stamped by the repository.
func (e Equipment) ToFields() Fields {
	f := Fields{}
	for k, v := range e.Extra {
		f[k] = v
	}
	f[FieldName] = e.Name
	putString(f, "categoria", e.Category)
	putString(f, "marca", e.Brand)
	putString(f, "modelo", e.Model)
	putString(f, "placa", e.Plate)
	if e.Active != nil {
		f[FieldActive] = *e.Active
	}
	return f
}

// EquipmentFromRecord decodes a stored equipment document.
func EquipmentFromRecord(r Record) Equipment {
	f := r.Fields
	return Equipment{
		ID:        r.ID,
		Name:      f.String(FieldName),
		Category:  f.String("categoria"),
		Brand:     f.String("marca"),
		Model:     f.String("modelo"),
		Plate:     f.String("placa"),
		Active:    BoolPtr(!f.Has(FieldActive) || f.Bool(FieldActive)),
		CreatedAt: f.Time(FieldCreatedAt),
		UpdatedAt: f.Time(FieldUpdatedAt),
		Extra:     extras(f, FieldName, "categoria", "marca", "modelo", "placa", FieldActive),
	}
}
