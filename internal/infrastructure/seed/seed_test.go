package seed_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/seed"
)

const sample = `kind,id,code,name,reorder_point,min_stock
warehouse,00000000-0000-0000-0000-000000000201,PRI,Bodega principal,,
supplier,00000000-0000-0000-0000-000000000301,,Ferretería Central,,
item,00000000-0000-0000-0000-000000000101,TOR-001,Tornillo,10,5
`

func TestParse(t *testing.T) {
	data, err := seed.Parse(strings.NewReader(sample), seed.Options{})
	require.NoError(t, err)
	require.Len(t, data.Warehouses, 1)
	require.Len(t, data.Suppliers, 1)
	require.Len(t, data.Items, 1)
	assert.Equal(t, "Ferretería Central", data.Suppliers[0].Name)
	assert.Equal(t, "TOR-001", data.Items[0].SKU)
	assert.Equal(t, "10", data.Items[0].ReorderPoint.String())
	assert.True(t, data.Warehouses[0].Code == "PRI")
}

func TestParse_Latin1(t *testing.T) {
	// "Tornillería" en ISO-8859-1: la í es el byte 0xED.
	var buf bytes.Buffer
	buf.WriteString("kind,id,code,name,reorder_point,min_stock\n")
	buf.WriteString("supplier,00000000-0000-0000-0000-000000000301,,Torniller")
	buf.WriteByte(0xED)
	buf.WriteString("a,,\n")

	data, err := seed.Parse(&buf, seed.Options{Latin1: true})
	require.NoError(t, err)
	assert.Equal(t, "Tornillería", data.Suppliers[0].Name)
}

func TestParse_Errores(t *testing.T) {
	cases := map[string]string{
		"encabezado":  "a,b,c,d,e,f\n",
		"uuid":        "kind,id,code,name,reorder_point,min_stock\nitem,x,SKU,Nombre,,\n",
		"kind":        "kind,id,code,name,reorder_point,min_stock\nfoo,00000000-0000-0000-0000-000000000101,SKU,Nombre,,\n",
		"sku":         "kind,id,code,name,reorder_point,min_stock\nitem,00000000-0000-0000-0000-000000000101,,Nombre,,\n",
		"negativo":    "kind,id,code,name,reorder_point,min_stock\nitem,00000000-0000-0000-0000-000000000101,SKU,Nombre,-1,\n",
		"columnas":    "kind,id,code,name,reorder_point,min_stock\nitem,00000000-0000-0000-0000-000000000101\n",
		"sin nombre":  "kind,id,code,name,reorder_point,min_stock\nsupplier,00000000-0000-0000-0000-000000000301,,,,\n",
		"bodega code": "kind,id,code,name,reorder_point,min_stock\nwarehouse,00000000-0000-0000-0000-000000000201,,Bodega,,\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := seed.Parse(strings.NewReader(in), seed.Options{})
			assert.Error(t, err)
		})
	}
}

func TestApply_CargaElCatalogo(t *testing.T) {
	data, err := seed.Parse(strings.NewReader(sample), seed.Options{})
	require.NoError(t, err)

	store := memory.NewStore()
	require.NoError(t, seed.Apply(context.Background(), store, data))

	// Sin existencias, el item cargado queda bajo su punto de reorden.
	rows, err := store.ItemsBelowReorderPoint(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Tornillo", rows[0].ItemName)
}
