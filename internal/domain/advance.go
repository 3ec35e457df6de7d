package domain

import "time"

// DefaultConcept is the concept of an advance created without one.
const DefaultConcept = "Abono"

// Payment methods accepted for advances.
const (
	PaymentMethodCash     = "Efectivo"
	PaymentMethodTransfer = "Transferencia"
	PaymentMethodCheck    = "Cheque"
	PaymentMethodCard     = "Tarjeta"
	PaymentMethodOther    = "Otro"
)

// Advance (abono) is a client payment that reduces outstanding rental debt.
type Advance struct {
	ID                     string    `json:"id"`
	Date                   string    `json:"fecha"`
	ClientID               string    `json:"cliente_id"`
	TransactionID          string    `json:"transaccion_id,omitempty"`
	AccountID              string    `json:"cuenta_id,omitempty"`
	Amount                 float64   `json:"monto"`
	Concept                string    `json:"concepto"`
	PaymentMethod          string    `json:"metodo_pago,omitempty"`
	Comment                string    `json:"comentario,omitempty"`
	TransactionDescription string    `json:"transaccion_descripcion,omitempty"`
	Year                   int       `json:"ano,omitempty"`
	Month                  int       `json:"mes,omitempty"`
	CreatedAt              time.Time `json:"fecha_creacion"`
	UpdatedAt              time.Time `json:"fecha_modificacion"`
	Extra                  Fields    `json:"extra,omitempty"`
}

func (a Advance) ToFields() Fields {
	f := Fields{}
	for k, v := range a.Extra {
		f[k] = v
	}
	f[FieldDate] = a.Date
	f[FieldClientID] = a.ClientID
	putString(f, FieldTransactionID, a.TransactionID)
	putString(f, FieldAccountID, a.AccountID)
	f[FieldAmount] = a.Amount
	concept := a.Concept
	if concept == "" {
		concept = DefaultConcept
	}
	f[FieldConcept] = concept
	putString(f, FieldMethod, a.PaymentMethod)
	putString(f, FieldComment, a.Comment)
	putString(f, "transaccion_descripcion", a.TransactionDescription)
	return f
}

func AdvanceFromRecord(r Record) Advance {
	f := r.Fields
	return Advance{
		ID:                     r.ID,
		Date:                   f.String(FieldDate),
		ClientID:               f.ID(FieldClientID),
		TransactionID:          f.String(FieldTransactionID),
		AccountID:              f.ID(FieldAccountID),
		Amount:                 f.Float(FieldAmount),
		Concept:                f.String(FieldConcept),
		PaymentMethod:          f.String(FieldMethod),
		Comment:                f.String(FieldComment),
		TransactionDescription: f.String("transaccion_descripcion"),
		Year:                   f.Int(FieldYear),
		Month:                  f.Int(FieldMonth),
		CreatedAt:              f.Time(FieldCreatedAt),
		UpdatedAt:              f.Time(FieldUpdatedAt),
		Extra: extras(f, FieldDate, FieldClientID, FieldTransactionID, FieldAccountID, FieldAmount,
			FieldConcept, FieldMethod, FieldComment, "transaccion_descripcion"),
	}
}
