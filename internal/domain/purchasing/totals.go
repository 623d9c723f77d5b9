package purchasing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// MoneyPlaces decimales de los importes de la orden.
const MoneyPlaces = 2

// Forma de las columnas de purchase_order_lines.
const (
	QuantityPrecision, QuantityScale   = 18, 4
	UnitPricePrecision, UnitPriceScale = 18, 4
	DiscountScale                      = 2
)

var hundred = decimal.NewFromInt(100)

// LineTotal = cantidad * precio * (1 - descuento/100), redondeado a MoneyPlaces.
func LineTotal(qty, unitPrice, discountPercent decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(discountPercent.Div(hundred))
	return qty.Mul(unitPrice).Mul(factor).Round(MoneyPlaces)
}

// ValidateLines revisa cantidad, precio y descuento de cada línea.
func ValidateLines(lines []entity.PurchaseOrderLine) error {
	if len(lines) == 0 {
		return domain.NewValidationError("lines", "la orden debe tener al menos una línea")
	}
	for i, l := range lines {
		if l.ItemID == "" {
			return domain.NewValidationError(fmt.Sprintf("lines[%d].item_id", i), "requerido")
		}
		if !l.Quantity.IsPositive() {
			return domain.NewValidationError(fmt.Sprintf("lines[%d].quantity", i), "debe ser mayor que cero")
		}
		if !domain.FitsNumeric(l.Quantity, QuantityPrecision, QuantityScale) {
			return domain.NewValidationError(fmt.Sprintf("lines[%d].quantity", i),
				fmt.Sprintf("admite hasta %d decimales y %d enteros", QuantityScale, QuantityPrecision-QuantityScale))
		}
		if l.UnitPrice.IsNegative() {
			return domain.NewValidationError(fmt.Sprintf("lines[%d].unit_price", i), "no puede ser negativo")
		}
		if !domain.FitsNumeric(l.UnitPrice, UnitPricePrecision, UnitPriceScale) {
			return domain.NewValidationError(fmt.Sprintf("lines[%d].unit_price", i),
				fmt.Sprintf("admite hasta %d decimales y %d enteros", UnitPriceScale, UnitPricePrecision-UnitPriceScale))
		}
		if l.DiscountPercent.IsNegative() || l.DiscountPercent.GreaterThan(hundred) {
			return domain.NewValidationError(fmt.Sprintf("lines[%d].discount_percent", i), "debe estar entre 0 y 100")
		}
		if !l.DiscountPercent.Equal(l.DiscountPercent.Truncate(DiscountScale)) {
			return domain.NewValidationError(fmt.Sprintf("lines[%d].discount_percent", i), fmt.Sprintf("admite hasta %d decimales", DiscountScale))
		}
	}
	return nil
}

// Totals importes derivados de una orden.
type Totals struct {
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
}

// ComputeTotals calcula subtotal, impuesto y total. El descuento de cabecera debe
// quedar entre 0 y subtotal + impuesto.
func ComputeTotals(lines []entity.PurchaseOrderLine, taxRate, discount decimal.Decimal) (Totals, error) {
	if taxRate.IsNegative() {
		return Totals{}, domain.NewValidationError("tax_rate", "no puede ser negativa")
	}
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(LineTotal(l.Quantity, l.UnitPrice, l.DiscountPercent))
	}
	tax := subtotal.Mul(taxRate).Round(MoneyPlaces)
	discount = discount.Round(MoneyPlaces)
	if discount.IsNegative() {
		return Totals{}, domain.NewValidationError("discount_amount", "no puede ser negativo")
	}
	if discount.GreaterThan(subtotal.Add(tax)) {
		return Totals{}, domain.NewValidationError("discount_amount", "no puede superar subtotal más impuesto")
	}
	return Totals{
		Subtotal:       subtotal,
		TaxAmount:      tax,
		DiscountAmount: discount,
		TotalAmount:    subtotal.Add(tax).Sub(discount),
	}, nil
}

// ApplyTotals valida las líneas, fija LineTotal en cada una y escribe los importes en la orden.
func ApplyTotals(o *entity.PurchaseOrder) error {
	if err := ValidateLines(o.Lines); err != nil {
		return err
	}
	for i := range o.Lines {
		l := &o.Lines[i]
		l.LineNo = i + 1
		l.LineTotal = LineTotal(l.Quantity, l.UnitPrice, l.DiscountPercent)
	}
	t, err := ComputeTotals(o.Lines, o.TaxRate, o.DiscountAmount)
	if err != nil {
		return err
	}
	o.Subtotal = t.Subtotal
	o.TaxAmount = t.TaxAmount
	o.DiscountAmount = t.DiscountAmount
	o.TotalAmount = t.TotalAmount
	return nil
}
