package domain

import "time"

// EntityType distinguishes clients from operators in the entidades collection.
type EntityType string

const (
	EntityTypeClient   EntityType = "Cliente"
	EntityTypeOperator EntityType = "Operador"
)

// Entity is a client or an operator.
type Entity struct {
	ID        string     `json:"id"`
	Name      string     `json:"nombre"`
	Type      EntityType `json:"tipo"`
	Active    *bool      `json:"activo,omitempty"`
	Phone     string     `json:"telefono,omitempty"`
	IDNumber  string     `json:"cedula,omitempty"`
	Email     string     `json:"email,omitempty"`
	Address   string     `json:"direccion,omitempty"`
	CreatedAt time.Time  `json:"fecha_creacion"`
	UpdatedAt time.Time  `json:"fecha_modificacion"`
	Extra     Fields     `json:"extra,omitempty"`
}

func (e Entity) IsActive() bool {
	return boolOr(e.Active, true)
}

func (e Entity) ToFields() Fields {
	f := Fields{}
	for k, v := range e.Extra {
		f[k] = v
	}
	f[FieldName] = e.Name
	f[FieldType] = string(e.Type)
	putString(f, "telefono", e.Phone)
	putString(f, "cedula", e.IDNumber)
	putString(f, "email", e.Email)
	putString(f, "direccion", e.Address)
	if e.Active != nil {
		f[FieldActive] = *e.Active
	}
	return f
}

func EntityFromRecord(r Record) Entity {
	f := r.Fields
	return Entity{
		ID:        r.ID,
		Name:      f.String(FieldName),
		Type:      EntityType(f.String(FieldType)),
		Active:    BoolPtr(!f.Has(FieldActive) || f.Bool(FieldActive)),
		Phone:     f.String("telefono"),
		IDNumber:  f.String("cedula"),
		Email:     f.String("email"),
		Address:   f.String("direccion"),
		CreatedAt: f.Time(FieldCreatedAt),
		UpdatedAt: f.Time(FieldUpdatedAt),
		Extra:     extras(f, FieldName, FieldType, FieldActive, "telefono", "cedula", "email", "direccion"),
	}
}
