package domain

import "time"

// Expense is a cost attributed to an equipment or to general operations.
// An empty EquipmentID is valid.
type Expense struct {
	ID             string    `json:"id"`
	Date           string    `json:"fecha"`
	EquipmentID    string    `json:"equipo_id,omitempty"`
	AccountID      string    `json:"cuenta_id,omitempty"`
	CategoryID     string    `json:"categoria_id,omitempty"`
	SubcategoryID  string    `json:"subcategoria_id,omitempty"`
	Amount         float64   `json:"monto"`
	Description    string    `json:"descripcion,omitempty"`
	Comment        string    `json:"comentario,omitempty"`
	AttachmentPath string    `json:"adjunto_storage_path,omitempty"`
	AttachmentURL  string    `json:"adjunto_url,omitempty"`
	Year           int       `json:"ano,omitempty"`
	Month          int       `json:"mes,omitempty"`
	CreatedAt      time.Time `json:"fecha_creacion"`
	UpdatedAt      time.Time `json:"fecha_modificacion"`
	Extra          Fields    `json:"extra,omitempty"`
}

func (e Expense) ToFields() Fields {
	f := Fields{}
	for k, v := range e.Extra {
		f[k] = v
	}
	f[FieldDate] = e.Date
	putString(f, FieldEquipmentID, e.EquipmentID)
	putString(f, FieldAccountID, e.AccountID)
	putString(f, FieldCategoryID, e.CategoryID)
	putString(f, FieldSubcategoryID, e.SubcategoryID)
	f[FieldAmount] = e.Amount
	putString(f, FieldDescription, e.Description)
	putString(f, FieldComment, e.Comment)
	putString(f, FieldAttachmentPath, e.AttachmentPath)
	putString(f, FieldAttachmentURL, e.AttachmentURL)
	return f
}

func ExpenseFromRecord(r Record) Expense {
	f := r.Fields
	return Expense{
		ID:             r.ID,
		Date:           f.String(FieldDate),
		EquipmentID:    f.ID(FieldEquipmentID),
		AccountID:      f.ID(FieldAccountID),
		CategoryID:     f.ID(FieldCategoryID),
		SubcategoryID:  f.ID(FieldSubcategoryID),
		Amount:         f.Float(FieldAmount),
		Description:    f.String(FieldDescription),
		Comment:        f.String(FieldComment),
		AttachmentPath: f.String(FieldAttachmentPath),
		AttachmentURL:  f.String(FieldAttachmentURL),
		Year:           f.Int(FieldYear),
		Month:          f.Int(FieldMonth),
		CreatedAt:      f.Time(FieldCreatedAt),
		UpdatedAt:      f.Time(FieldUpdatedAt),
		Extra: extras(f, FieldDate, FieldEquipmentID, FieldAccountID, FieldCategoryID, FieldSubcategoryID,
			FieldAmount, FieldDescription, FieldComment, FieldAttachmentPath, FieldAttachmentURL),
	}
}

// OperatorPayment is an hourly payment to a machine operator.
type OperatorPayment struct {
	ID            string    `json:"id"`
	Date          string    `json:"fecha"`
	OperatorID    string    `json:"operador_id"`
	EquipmentID   string    `json:"equipo_id,omitempty"`
	AccountID     string    `json:"cuenta_id,omitempty"`
	CategoryID    string    `json:"categoria_id,omitempty"`
	SubcategoryID string    `json:"subcategoria_id,omitempty"`
	Hours         float64   `json:"horas"`
	Amount        float64   `json:"monto"`
	Description   string    `json:"descripcion,omitempty"`
	Comment       string    `json:"comentario,omitempty"`
	Year          int       `json:"ano,omitempty"`
	Month         int       `json:"mes,omitempty"`
	CreatedAt     time.Time `json:"fecha_creacion"`
	UpdatedAt     time.Time `json:"fecha_modificacion"`
	Extra         Fields    `json:"extra,omitempty"`
}

func (p OperatorPayment) ToFields() Fields {
	f := Fields{}
	for k, v := range p.Extra {
		f[k] = v
	}
	f[FieldDate] = p.Date
	f[FieldOperatorID] = p.OperatorID
	putString(f, FieldEquipmentID, p.EquipmentID)
	putString(f, FieldAccountID, p.AccountID)
	putString(f, FieldCategoryID, p.CategoryID)
	putString(f, FieldSubcategoryID, p.SubcategoryID)
	f[FieldHours] = p.Hours
	f[FieldAmount] = p.Amount
	putString(f, FieldDescription, p.Description)
	putString(f, FieldComment, p.Comment)
	return f
}

func OperatorPaymentFromRecord(r Record) OperatorPayment {
	f := r.Fields
	return OperatorPayment{
		ID:            r.ID,
		Date:          f.String(FieldDate),
		OperatorID:    f.ID(FieldOperatorID),
		EquipmentID:   f.ID(FieldEquipmentID),
		AccountID:     f.ID(FieldAccountID),
		CategoryID:    f.ID(FieldCategoryID),
		SubcategoryID: f.ID(FieldSubcategoryID),
		Hours:         f.Float(FieldHours),
		Amount:        f.Float(FieldAmount),
		Description:   f.String(FieldDescription),
		Comment:       f.String(FieldComment),
		Year:          f.Int(FieldYear),
		Month:         f.Int(FieldMonth),
		CreatedAt:     f.Time(FieldCreatedAt),
		UpdatedAt:     f.Time(FieldUpdatedAt),
		Extra: extras(f, FieldDate, FieldOperatorID, FieldEquipmentID, FieldAccountID, FieldCategoryID,
			FieldSubcategoryID, FieldHours, FieldAmount, FieldDescription, FieldComment),
	}
}
