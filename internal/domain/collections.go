package domain

import "equipos-backend/internal/utils"

// Collection names in the document store.
const (
	CollectionEquipment        = "equipos"
	CollectionEntities         = "entidades"
	CollectionRentals          = "alquileres"
	CollectionExpenses         = "gastos"
	CollectionOperatorPayments = "pagos_operadores"
	CollectionAdvances         = "abonos"
	CollectionMaintenance      = "mantenimientos"
	CollectionAccounts         = "cuentas"
	CollectionCategories       = "categorias"
	CollectionSubcategories    = "subcategorias"

	// SubcollectionRentalPayments lives under each rental document.
	SubcollectionRentalPayments = "pagos"
)

// RentalPaymentsPath returns the collection path of a rental's payments.
func RentalPaymentsPath(rentalID string) string {
	return CollectionRentals + "/" + rentalID + "/" + SubcollectionRentalPayments
}

// TopLevelCollections lists every top-level collection, in export order.
var TopLevelCollections = []string{
	CollectionEquipment,
	CollectionEntities,
	CollectionRentals,
	CollectionExpenses,
	CollectionOperatorPayments,
	CollectionAdvances,
	CollectionMaintenance,
	CollectionAccounts,
	CollectionCategories,
	CollectionSubcategories,
}

// LookupCollections are the global reference collections.
var LookupCollections = []string{CollectionAccounts, CollectionCategories, CollectionSubcategories}

// Field keys.
const (
	FieldDate      = utils.DateField
	FieldYear      = utils.YearField
	FieldMonth     = utils.MonthField
	FieldName      = "nombre"
	FieldActive    = "activo"
	FieldType      = "tipo"
	FieldCreatedAt = "fecha_creacion"
	FieldUpdatedAt = "fecha_modificacion"

	FieldEquipmentID   = "equipo_id"
	FieldClientID      = "cliente_id"
	FieldOperatorID    = "operador_id"
	FieldAccountID     = "cuenta_id"
	FieldCategoryID    = "categoria_id"
	FieldSubcategoryID = "subcategoria_id"
	FieldTransactionID = "transaccion_id"

	FieldHours       = "horas"
	FieldUnitPrice   = "precio_por_hora"
	FieldAmount      = "monto"
	FieldPaid        = "pagado"
	FieldDescription = "descripcion"
	FieldComment     = "comentario"
	FieldLocation    = "ubicacion"
	FieldReference   = "conduce"
	FieldConcept     = "concepto"
	FieldMethod      = "metodo_pago"

	FieldConducePath    = "conduce_storage_path"
	FieldConduceURL     = "conduce_url"
	FieldAttachmentPath = "adjunto_storage_path"
	FieldAttachmentURL  = "adjunto_url"
)

// ForeignKeyFields must always be stored as canonical id strings.
var ForeignKeyFields = []string{
	FieldEquipmentID,
	FieldClientID,
	FieldOperatorID,
	FieldAccountID,
	FieldCategoryID,
	FieldSubcategoryID,
}

// IsForeignKey reports whether key names a canonical foreign-key field.
func IsForeignKey(key string) bool {
	for _, f := range ForeignKeyFields {
		if f == key {
			return true
		}
	}
	return false
}
