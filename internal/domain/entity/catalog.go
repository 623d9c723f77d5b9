package entity

import "github.com/shopspring/decimal"

// Item datos de referencia del artículo que el motor necesita para reportes.
// El alta y edición de artículos vive fuera de este servicio.
type Item struct {
	ID           string
	SKU          string
	Name         string
	ReorderPoint decimal.Decimal
	MinStock     decimal.Decimal
}

// Warehouse datos de referencia de la bodega.
type Warehouse struct {
	ID   string
	Code string
	Name string
}

// Supplier datos de referencia del proveedor.
type Supplier struct {
	ID   string
	Name string
}
