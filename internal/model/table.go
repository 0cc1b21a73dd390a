package model

// Table is the raw content of a loading sheet: the header row and every
// following row as text, in source order.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Field identifies a required column of the loading sheet.
type Field string

// Required fields.
const (
	FieldDriver         Field = "driver"
	FieldPlate          Field = "plate"
	FieldDestination    Field = "destination"
	FieldDate           Field = "date"
	FieldCollectionCode Field = "collection_code"
	FieldClient         Field = "client"
	FieldInvoices       Field = "invoices"
	FieldVolumes        Field = "volumes"
	FieldWeight         Field = "weight"
	FieldCubage         Field = "cubage"
	FieldRedispatch     Field = "redispatch"
	FieldCompleted      Field = "completed"
)

// RequiredFields lists every column the engine reads, in sheet order.
var RequiredFields = []Field{
	FieldDriver,
	FieldPlate,
	FieldDestination,
	FieldDate,
	FieldCollectionCode,
	FieldClient,
	FieldInvoices,
	FieldVolumes,
	FieldWeight,
	FieldCubage,
	FieldRedispatch,
	FieldCompleted,
}

// DefaultColumns returns the header names used by the loading sheet.
func DefaultColumns() map[Field]string {
	return map[Field]string{
		FieldDriver:         "MOTORISTA",
		FieldPlate:          "PLACA",
		FieldDestination:    "DESTINO",
		FieldDate:           "DATA",
		FieldCollectionCode: "COLETA GW",
		FieldClient:         "CLIENTE",
		FieldInvoices:       "NF",
		FieldVolumes:        "VOLUMES",
		FieldWeight:         "PESO Kg",
		FieldCubage:         "CUBAGEM FINAL",
		FieldRedispatch:     "REDESPACHO",
		FieldCompleted:      "CARREGAMENTO CONCLUIDO",
	}
}
