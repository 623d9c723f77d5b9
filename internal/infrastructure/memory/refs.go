package memory

import (
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// strictRefs: sin datos de referencia cargados no se validan claves foráneas.
func (tx *memTx) strictRefs() bool {
	return len(tx.st.items) > 0 || len(tx.st.warehouses) > 0 || len(tx.st.suppliers) > 0
}

func (tx *memTx) checkItem(id string) error {
	if !tx.strictRefs() {
		return nil
	}
	if _, ok := tx.st.items[id]; !ok {
		return domain.NewValidationError("item_id", fmt.Sprintf("el item %s no existe", id))
	}
	return nil
}

func (tx *memTx) checkWarehouse(id string) error {
	if !tx.strictRefs() || id == "" {
		return nil
	}
	if _, ok := tx.st.warehouses[id]; !ok {
		return domain.NewValidationError("warehouse_id", fmt.Sprintf("la bodega %s no existe", id))
	}
	return nil
}

func (tx *memTx) checkSupplier(id string) error {
	if !tx.strictRefs() {
		return nil
	}
	if _, ok := tx.st.suppliers[id]; !ok {
		return domain.NewValidationError("supplier_id", fmt.Sprintf("el proveedor %s no existe", id))
	}
	return nil
}
