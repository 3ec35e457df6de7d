package domain

import "time"

// Rental is a billable equipment-usage transaction.
type Rental struct {
	ID          string    `json:"id"`
	Date        string    `json:"fecha"`
	ClientID    string    `json:"cliente_id"`
	OperatorID  string    `json:"operador_id,omitempty"`
	EquipmentID string    `json:"equipo_id"`
	Hours       float64   `json:"horas"`
	UnitPrice   float64   `json:"precio_por_hora"`
	Amount      float64   `json:"monto"`
	Paid        *bool     `json:"pagado,omitempty"`
	Location    string    `json:"ubicacion,omitempty"`
	Reference   string    `json:"conduce,omitempty"`
	Description string    `json:"descripcion,omitempty"`
	Comment     string    `json:"comentario,omitempty"`
	ConducePath string    `json:"conduce_storage_path,omitempty"`
	ConduceURL  string    `json:"conduce_url,omitempty"`
	Year        int       `json:"ano,omitempty"`
	Month       int       `json:"mes,omitempty"`
	CreatedAt   time.Time `json:"fecha_creacion"`
	UpdatedAt   time.Time `json:"fecha_modificacion"`
	Extra       Fields    `json:"extra,omitempty"`
}

// IsPaid treats a missing flag as unpaid.
func (r Rental) IsPaid() bool {
	return boolOr(r.Paid, false)
}

func (r Rental) ToFields() Fields {
	f := Fields{}
	for k, v := range r.Extra {
		f[k] = v
	}
	f[FieldDate] = r.Date
	f[FieldClientID] = r.ClientID
	f[FieldEquipmentID] = r.EquipmentID
	putString(f, FieldOperatorID, r.OperatorID)
	f[FieldHours] = r.Hours
	f[FieldUnitPrice] = r.UnitPrice
	f[FieldAmount] = r.Amount
	if r.Paid != nil {
		f[FieldPaid] = *r.Paid
	}
	putString(f, FieldLocation, r.Location)
	putString(f, FieldReference, r.Reference)
	putString(f, FieldDescription, r.Description)
	putString(f, FieldComment, r.Comment)
	putString(f, FieldConducePath, r.ConducePath)
	putString(f, FieldConduceURL, r.ConduceURL)
	return f
}

func RentalFromRecord(rec Record) Rental {
	f := rec.Fields
	return Rental{
		ID:          rec.ID,
		Date:        f.String(FieldDate),
		ClientID:    f.ID(FieldClientID),
		OperatorID:  f.ID(FieldOperatorID),
		EquipmentID: f.ID(FieldEquipmentID),
		Hours:       f.Float(FieldHours),
		UnitPrice:   f.Float(FieldUnitPrice),
		Amount:      f.Float(FieldAmount),
		Paid:        BoolPtr(f.Bool(FieldPaid)),
		Location:    f.String(FieldLocation),
		Reference:   f.String(FieldReference),
		Description: f.String(FieldDescription),
		Comment:     f.String(FieldComment),
		ConducePath: f.String(FieldConducePath),
		ConduceURL:  f.String(FieldConduceURL),
		Year:        f.Int(FieldYear),
		Month:       f.Int(FieldMonth),
		CreatedAt:   f.Time(FieldCreatedAt),
		UpdatedAt:   f.Time(FieldUpdatedAt),
		Extra: extras(f, FieldDate, FieldClientID, FieldOperatorID, FieldEquipmentID, FieldHours,
			FieldUnitPrice, FieldAmount, FieldPaid, FieldLocation, FieldReference, FieldDescription,
			FieldComment, FieldConducePath, FieldConduceURL),
	}
}
