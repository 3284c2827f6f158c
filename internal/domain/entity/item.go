package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de artículos del almacén.
const (
	CategoryStationery  = "stationery"
	CategoryLaboratory  = "laboratory"
	CategoryElectrical  = "electrical"
	CategoryFurniture   = "furniture"
	CategoryComputer    = "computer"
	CategorySports      = "sports"
	CategoryCleaning    = "cleaning"
	CategoryMaintenance = "maintenance"
	CategoryMedical     = "medical"
	CategoryOther       = "other"
)

// Unidades de medida.
const (
	UnitPieces = "pcs"
	UnitBox    = "box"
	UnitPack   = "pack"
	UnitSet    = "set"
	UnitReam   = "ream"
	UnitKg     = "kg"
	UnitGram   = "g"
	UnitLitre  = "litre"
	UnitMl     = "ml"
	UnitMetre  = "metre"
	UnitDozen  = "dozen"
	UnitPair   = "pair"
)

// Estados de un artículo. Nunca se borra: se inactiva o se descontinúa.
const (
	ItemStatusActive       = "active"
	ItemStatusInactive     = "inactive"
	ItemStatusDiscontinued = "discontinued"
)

// ItemCategories lista cerrada de categorías, en orden de presentación.
var ItemCategories = []string{
	CategoryStationery, CategoryLaboratory, CategoryElectrical, CategoryFurniture, CategoryComputer,
	CategorySports, CategoryCleaning, CategoryMaintenance, CategoryMedical, CategoryOther,
}

// ItemUnits lista cerrada de unidades de medida.
var ItemUnits = []string{
	UnitPieces, UnitBox, UnitPack, UnitSet, UnitReam, UnitKg,
	UnitGram, UnitLitre, UnitMl, UnitMetre, UnitDozen, UnitPair,
}

// Item representa un artículo del almacén del campus.
// CurrentStock solo cambia vía transacciones de stock; Version se incrementa en cada cambio de stock.
type Item struct {
	ID           string
	Code         string // ITM000001, generado por secuencia
	Name         string
	Description  string
	Category     string
	Unit         string
	CurrentStock int64
	MinimumStock int64
	MaximumStock int64
	ReorderLevel int64
	UnitPrice    decimal.Decimal
	Location     string
	Status       string
	Version      int64
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLowStock indica si el stock está en o por debajo del nivel de reorden.
func (i *Item) IsLowStock() bool {
	return i.CurrentStock <= i.ReorderLevel
}

// IsValidCategory indica si c pertenece a la lista cerrada de categorías.
func IsValidCategory(c string) bool {
	return contains(ItemCategories, c)
}

// IsValidUnit indica si u pertenece a la lista cerrada de unidades.
func IsValidUnit(u string) bool {
	return contains(ItemUnits, u)
}

// IsValidItemStatus indica si s es un estado de artículo válido.
func IsValidItemStatus(s string) bool {
	switch s {
	case ItemStatusActive, ItemStatusInactive, ItemStatusDiscontinued:
		return true
	}
	return false
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
