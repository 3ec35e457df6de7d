package domain

import (
	"strconv"
	"strings"
)

// Filter keys accepted by ParseFilter.
const (
	FilterStart = "start"
	FilterEnd   = "end"
)

// Filter narrows a List call. Zero values mean "no filter". Each repository
// applies only the fields that make sense for its collection.
type Filter struct {
	Start         string
	End           string
	EquipmentID   string
	ClientID      string
	OperatorID    string
	AccountID     string
	CategoryID    string
	SubcategoryID string
	TransactionID string
	Paid          *bool
	Active        *bool
	Type          EntityType
	Year          int
	Month         int
	Limit         int
}

// ParseFilter builds a Filter from a key/value map such as URL query
// parameters. Unknown keys and unparseable values are ignored.
func ParseFilter(values map[string]string) Filter {
	var f Filter
	for key, raw := range values {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		switch key {
		case FilterStart, "fecha_inicio":
			f.Start = value
		case FilterEnd, "fecha_fin":
			f.End = value
		case FieldEquipmentID:
			f.EquipmentID = value
		case FieldClientID:
			f.ClientID = value
		case FieldOperatorID:
			f.OperatorID = value
		case FieldAccountID:
			f.AccountID = value
		case FieldCategoryID:
			f.CategoryID = value
		case FieldSubcategoryID:
			f.SubcategoryID = value
		case FieldTransactionID:
			f.TransactionID = value
		case FieldPaid:
			if b, err := strconv.ParseBool(value); err == nil {
				f.Paid = &b
			}
		case FieldActive:
			if b, err := strconv.ParseBool(value); err == nil {
				f.Active = &b
			}
		case FieldType:
			f.Type = EntityType(value)
		case FieldYear:
			if n, err := strconv.Atoi(value); err == nil {
				f.Year = n
			}
		case FieldMonth:
			if n, err := strconv.Atoi(value); err == nil && n >= 1 && n <= 12 {
				f.Month = n
			}
		case "limit":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				f.Limit = n
			}
		}
	}
	return f
}
