package purchasing_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/purchasing"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLineTotal_ConDescuento(t *testing.T) {
	// 3 * 10.00 * (1 - 10/100) = 27.00
	assert.Equal(t, "27.00", purchasing.LineTotal(d("3"), d("10"), d("10")).StringFixed(2))
	assert.Equal(t, "0.00", purchasing.LineTotal(d("3"), d("10"), d("100")).StringFixed(2))
}

func TestApplyTotals(t *testing.T) {
	o := &entity.PurchaseOrder{
		TaxRate:        d("0.15"),
		DiscountAmount: d("5"),
		Lines: []entity.PurchaseOrderLine{
			{ItemID: "X", Quantity: d("10"), UnitPrice: d("5.00")},
			{ItemID: "Y", Quantity: d("2"), UnitPrice: d("25.00"), DiscountPercent: d("20")},
		},
	}
	require.NoError(t, purchasing.ApplyTotals(o))

	assert.Equal(t, "50.00", o.Lines[0].LineTotal.StringFixed(2))
	assert.Equal(t, "40.00", o.Lines[1].LineTotal.StringFixed(2))
	assert.Equal(t, 2, o.Lines[1].LineNo)
	assert.Equal(t, "90.00", o.Subtotal.StringFixed(2))
	assert.Equal(t, "13.50", o.TaxAmount.StringFixed(2))
	assert.Equal(t, "98.50", o.TotalAmount.StringFixed(2))
}

func TestComputeTotals_DescuentoFueraDeRango(t *testing.T) {
	lines := []entity.PurchaseOrderLine{{ItemID: "X", Quantity: d("1"), UnitPrice: d("10")}}

	_, err := purchasing.ComputeTotals(lines, d("0.15"), d("11.51"))
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "discount_amount", ve.Field)

	_, err = purchasing.ComputeTotals(lines, d("0.15"), d("-1"))
	require.True(t, errors.As(err, &ve))

	tot, err := purchasing.ComputeTotals(lines, d("0.15"), d("11.50"))
	require.NoError(t, err)
	assert.True(t, tot.TotalAmount.IsZero())
}

func TestValidateLines(t *testing.T) {
	cases := map[string]struct {
		lines []entity.PurchaseOrderLine
		field string
	}{
		"vacía":                     {nil, "lines"},
		"cantidad cero":             {[]entity.PurchaseOrderLine{{ItemID: "X", Quantity: d("0"), UnitPrice: d("1")}}, "lines[0].quantity"},
		"precio negativo":           {[]entity.PurchaseOrderLine{{ItemID: "X", Quantity: d("1"), UnitPrice: d("-1")}}, "lines[0].unit_price"},
		"descuento > 100":           {[]entity.PurchaseOrderLine{{ItemID: "X", Quantity: d("1"), UnitPrice: d("1"), DiscountPercent: d("101")}}, "lines[0].discount_percent"},
		"cantidad bajo la escala":   {[]entity.PurchaseOrderLine{{ItemID: "X", Quantity: d("0.00001"), UnitPrice: d("1")}}, "lines[0].quantity"},
		"precio con 5 decimales":    {[]entity.PurchaseOrderLine{{ItemID: "X", Quantity: d("1"), UnitPrice: d("1.00001")}}, "lines[0].unit_price"},
		"descuento con 3 decimales": {[]entity.PurchaseOrderLine{{ItemID: "X", Quantity: d("1"), UnitPrice: d("1"), DiscountPercent: d("2.555")}}, "lines[0].discount_percent"},
		"descuento negativo":        {[]entity.PurchaseOrderLine{{ItemID: "X", Quantity: d("1"), UnitPrice: d("1"), DiscountPercent: d("-1")}}, "lines[0].discount_percent"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := purchasing.ValidateLines(tc.lines)
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}
