package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/campus-store/internal/application/store"
)

// ReportHandler lecturas derivadas: stock bajo, valorización y catálogo.
type ReportHandler struct {
	uc *store.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *store.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// LowStock godoc
// @Summary      Artículos en o bajo el nivel de reorden
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SuccessResponse{data=[]dto.LowStockItemDTO}
// @Router       /api/store/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStock(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "", out)
}

// Valuation godoc
// @Summary      Valorización del inventario activo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SuccessResponse{data=dto.ValuationDTO}
// @Router       /api/store/reports/valuation [get]
func (h *ReportHandler) Valuation(c *fiber.Ctx) error {
	out, err := h.uc.Valuation(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "", out)
}

// Categories godoc
// @Summary      Categorías, unidades y tipos válidos
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SuccessResponse{data=dto.CatalogDTO}
// @Router       /api/store/categories [get]
func (h *ReportHandler) Categories(c *fiber.Ctx) error {
	out, err := h.uc.Catalog(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "", out)
}
