// Package store contiene las reglas puras del libro de stock (sin I/O).
package store

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/campus-store/internal/domain"
	"github.com/jhoicas/campus-store/internal/domain/entity"
)

// Prefijos por defecto de los códigos legibles.
const (
	DefaultItemPrefix        = "ITM"
	DefaultTransactionPrefix = "TXN"
	DefaultRequestPrefix     = "REQ"
	codeDigits               = 6
)

// Límites de los valores de una transacción. Los montos se guardan como NUMERIC(14,2) (precio)
// y NUMERIC(16,2) (total).
const (
	MaxQuantity int64 = 1_000_000_000
	PriceScale        = 2
)

var (
	MaxUnitPrice  = decimal.RequireFromString("999999999999.99")
	MaxTotalValue = decimal.RequireFromString("99999999999999.99")

	// MinTransactionDate fecha más antigua aceptada para una transacción.
	MinTransactionDate = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	// FutureDateTolerance margen aceptado para fechas posteriores a ahora (zonas horarias).
	FutureDateTolerance = 24 * time.Hour
)

// NextStock calcula el stock resultante de aplicar una transacción sobre previous.
//   - inward/return: previous + quantity
//   - outward: previous - quantity (ErrInsufficientStock si previous < quantity)
//   - adjustment: quantity es el nivel absoluto
func NextStock(txType string, previous, quantity int64) (int64, error) {
	if previous < 0 {
		return 0, fmt.Errorf("%w: stock previo negativo", domain.ErrStorageFailure)
	}
	if quantity > MaxQuantity {
		return 0, fmt.Errorf("%w: la cantidad excede el máximo de %d", domain.ErrInvalidArgument, MaxQuantity)
	}
	switch txType {
	case entity.TransactionTypeInward, entity.TransactionTypeReturn:
		if quantity <= 0 {
			return 0, fmt.Errorf("%w: la cantidad debe ser mayor a 0", domain.ErrInvalidArgument)
		}
		if quantity > math.MaxInt64-previous {
			return 0, fmt.Errorf("%w: el stock resultante excede el máximo representable", domain.ErrInvalidArgument)
		}
		return previous + quantity, nil
	case entity.TransactionTypeOutward:
		if quantity <= 0 {
			return 0, fmt.Errorf("%w: la cantidad debe ser mayor a 0", domain.ErrInvalidArgument)
		}
		if previous < quantity {
			return 0, fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, previous, quantity)
		}
		return previous - quantity, nil
	case entity.TransactionTypeAdjustment:
		if quantity < 0 {
			return 0, fmt.Errorf("%w: el nivel de ajuste no puede ser negativo", domain.ErrInvalidArgument)
		}
		return quantity, nil
	}
	return 0, fmt.Errorf("%w: tipo de transacción %q", domain.ErrInvalidArgument, txType)
}

// TotalValue = quantity × unitPrice.
func TotalValue(quantity int64, unitPrice decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(quantity).Mul(unitPrice)
}

// ValidateUnitPrice exige un precio no negativo, con a lo sumo PriceScale decimales y dentro de MaxUnitPrice.
func ValidateUnitPrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return fmt.Errorf("%w: el precio unitario no puede ser negativo", domain.ErrInvalidArgument)
	}
	if !p.Equal(p.Truncate(PriceScale)) {
		return fmt.Errorf("%w: el precio unitario admite a lo sumo %d decimales", domain.ErrInvalidArgument, PriceScale)
	}
	if p.GreaterThan(MaxUnitPrice) {
		return fmt.Errorf("%w: el precio unitario excede %s", domain.ErrInvalidArgument, MaxUnitPrice.StringFixed(PriceScale))
	}
	return nil
}

// ValidateTotalValue rechaza totales que no caben en el libro.
func ValidateTotalValue(total decimal.Decimal) error {
	if total.GreaterThan(MaxTotalValue) {
		return fmt.Errorf("%w: el valor total excede %s", domain.ErrInvalidArgument, MaxTotalValue.StringFixed(PriceScale))
	}
	return nil
}

// ValidateTransactionDate acepta fechas entre MinTransactionDate y now + FutureDateTolerance.
func ValidateTransactionDate(d, now time.Time) error {
	if d.Before(MinTransactionDate) {
		return fmt.Errorf("%w: fecha de transacción anterior a %s", domain.ErrInvalidArgument, MinTransactionDate.Format(time.DateOnly))
	}
	if d.After(now.Add(FutureDateTolerance)) {
		return fmt.Errorf("%w: fecha de transacción en el futuro", domain.ErrInvalidArgument)
	}
	return nil
}

// FormatCode arma el código legible: prefijo + número con ceros a la izquierda (ITM000001).
// Si n excede el ancho se usa completo.
func FormatCode(prefix string, n uint64) string {
	return fmt.Sprintf("%s%0*d", prefix, codeDigits, n)
}

// Thresholds niveles de un artículo.
type Thresholds struct {
	Minimum int64
	Maximum int64
	Reorder int64
}

// ValidateThresholds verifica que los niveles no sean negativos (error) y devuelve advertencias
// cuando no se cumple minimum ≤ reorder ≤ maximum. maximum = 0 significa "sin máximo".
func ValidateThresholds(t Thresholds) ([]string, error) {
	if t.Minimum < 0 || t.Maximum < 0 || t.Reorder < 0 {
		return nil, fmt.Errorf("%w: los niveles de stock no pueden ser negativos", domain.ErrInvalidArgument)
	}
	var warnings []string
	if t.Reorder < t.Minimum {
		warnings = append(warnings, fmt.Sprintf("reorder_level (%d) es menor que minimum_stock (%d)", t.Reorder, t.Minimum))
	}
	if t.Maximum > 0 && t.Reorder > t.Maximum {
		warnings = append(warnings, fmt.Sprintf("reorder_level (%d) es mayor que maximum_stock (%d)", t.Reorder, t.Maximum))
	}
	if t.Maximum > 0 && t.Minimum > t.Maximum {
		warnings = append(warnings, fmt.Sprintf("minimum_stock (%d) es mayor que maximum_stock (%d)", t.Minimum, t.Maximum))
	}
	return warnings, nil
}

// SuggestedOrderQty cantidad sugerida de reposición para un artículo en stock bajo.
// Con máximo: hasta el máximo. Sin máximo: hasta 1.5 × reorder. Nunca negativa.
func SuggestedOrderQty(item *entity.Item) int64 {
	target := item.MaximumStock
	if target <= 0 {
		target = item.ReorderLevel + item.ReorderLevel/2
	}
	qty := target - item.CurrentStock
	if qty < 0 {
		return 0
	}
	return qty
}

// Valuation valor de inventario de un artículo: currentStock × unitPrice.
func Valuation(item *entity.Item) decimal.Decimal {
	return TotalValue(item.CurrentStock, item.UnitPrice)
}
