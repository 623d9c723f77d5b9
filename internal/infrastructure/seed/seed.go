// Package seed carga datos de referencia (items, bodegas, proveedores) desde un CSV.
//
// Formato, con encabezado:
//
//	kind,id,code,name,reorder_point,min_stock
//	warehouse,<uuid>,PRI,Bodega principal,,
//	item,<uuid>,TOR-001,Tornillo 1/4,10,5
//	supplier,<uuid>,,Ferretería Central,,
//
// Los exportes de hojas de cálculo suelen venir en ISO-8859-1; con Latin1 se decodifican a UTF-8.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Data datos de referencia leídos del archivo.
type Data struct {
	Items      []entity.Item
	Warehouses []entity.Warehouse
	Suppliers  []entity.Supplier
}

// Options opciones de lectura.
type Options struct {
	Latin1 bool // el archivo viene en ISO-8859-1
}

var header = []string{"kind", "id", "code", "name", "reorder_point", "min_stock"}

// Parse lee el CSV completo. Los errores indican la línea del archivo.
func Parse(r io.Reader, opts Options) (*Data, error) {
	if opts.Latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)
	cr.TrimLeadingSpace = true

	first, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("seed: leer encabezado: %w", err)
	}
	for i, h := range header {
		if !strings.EqualFold(strings.TrimSpace(first[i]), h) {
			return nil, fmt.Errorf("seed: encabezado inválido, se esperaba %s", strings.Join(header, ","))
		}
	}

	data := &Data{}
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("seed: línea %d: %w", line, err)
		}
		if err := data.add(rec); err != nil {
			return nil, fmt.Errorf("seed: línea %d: %w", line, err)
		}
	}
	return data, nil
}

func (d *Data) add(rec []string) error {
	kind := strings.ToLower(strings.TrimSpace(rec[0]))
	id := strings.TrimSpace(rec[1])
	code := strings.TrimSpace(rec[2])
	name := strings.TrimSpace(rec[3])
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("id %q no es un UUID", id)
	}
	if name == "" {
		return errors.New("name es obligatorio")
	}
	switch kind {
	case "item":
		if code == "" {
			return errors.New("code (SKU) es obligatorio para items")
		}
		reorder, err := optionalDecimal(rec[4])
		if err != nil {
			return fmt.Errorf("reorder_point: %w", err)
		}
		minStock, err := optionalDecimal(rec[5])
		if err != nil {
			return fmt.Errorf("min_stock: %w", err)
		}
		d.Items = append(d.Items, entity.Item{ID: id, SKU: code, Name: name, ReorderPoint: reorder, MinStock: minStock})
	case "warehouse":
		if code == "" {
			return errors.New("code es obligatorio para bodegas")
		}
		d.Warehouses = append(d.Warehouses, entity.Warehouse{ID: id, Code: code, Name: name})
	case "supplier":
		d.Suppliers = append(d.Suppliers, entity.Supplier{ID: id, Name: name})
	default:
		return fmt.Errorf("kind %q desconocido", kind)
	}
	return nil
}

func optionalDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if v.IsNegative() {
		return decimal.Zero, errors.New("no puede ser negativo")
	}
	return v, nil
}

// Apply escribe los datos en el catálogo: bodegas, proveedores y luego items.
func Apply(ctx context.Context, repo repository.CatalogRepository, d *Data) error {
	for _, w := range d.Warehouses {
		if err := repo.UpsertWarehouse(ctx, w); err != nil {
			return fmt.Errorf("seed: bodega %s: %w", w.Code, err)
		}
	}
	for _, s := range d.Suppliers {
		if err := repo.UpsertSupplier(ctx, s); err != nil {
			return fmt.Errorf("seed: proveedor %s: %w", s.Name, err)
		}
	}
	for _, it := range d.Items {
		if err := repo.UpsertItem(ctx, it); err != nil {
			return fmt.Errorf("seed: item %s: %w", it.SKU, err)
		}
	}
	return nil
}
