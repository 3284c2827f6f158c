package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/campus-store/internal/application/dto"
	"github.com/jhoicas/campus-store/internal/application/store"
	"github.com/jhoicas/campus-store/internal/domain/repository"
)

// ItemHandler maneja el catálogo de artículos del almacén.
type ItemHandler struct {
	uc *store.ItemUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *store.ItemUseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

// Create godoc
// @Summary      Crear artículo
// @Description  El stock inicial (opening_stock) se registra como transacción adjustment.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del artículo"
// @Success      201   {object}  dto.SuccessResponse{data=dto.ItemMutationResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/store/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := decodeBody(c, &in); err != nil {
		return respondError(c, err)
	}
	res, err := h.uc.CreateItem(c.UserContext(), store.CreateItemInput{
		Name:         in.Name,
		Description:  in.Description,
		Category:     in.Category,
		Unit:         in.Unit,
		MinimumStock: in.MinimumStock,
		MaximumStock: in.MaximumStock,
		ReorderLevel: in.ReorderLevel,
		UnitPrice:    in.UnitPrice,
		Location:     in.Location,
		OpeningStock: in.OpeningStock,
		CreatedBy:    GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	out := dto.ItemMutationResponse{Item: dto.NewItemResponse(res.Item), Warnings: res.Warnings}
	if res.OpeningTransaction != nil {
		tr := dto.NewTransactionResponse(res.OpeningTransaction)
		out.OpeningTransaction = &tr
	}
	return ok(c, fiber.StatusCreated, "artículo creado", out)
}

// GetByID godoc
// @Summary      Obtener artículo por ID o código
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID o código (ITM000001)"
// @Success      200  {object}  dto.SuccessResponse{data=dto.ItemResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/store/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	item, err := h.uc.GetItem(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "", dto.NewItemResponse(item))
}

// List godoc
// @Summary      Listar artículos
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        category   query  string  false  "Categoría"
// @Param        status     query  string  false  "active|inactive|discontinued"
// @Param        q          query  string  false  "Texto en código o nombre"
// @Param        low_stock  query  bool    false  "Solo stock <= reorden"
// @Param        limit      query  int     false  "Límite (máx 100)"
// @Param        offset     query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.SuccessResponse{data=dto.ItemListResponse}
// @Router       /api/store/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	items, total, err := h.uc.ListItems(c.UserContext(), repository.ItemFilter{
		Category: strings.TrimSpace(c.Query("category")),
		Status:   strings.TrimSpace(c.Query("status")),
		Search:   c.Query("q"),
		LowStock: c.QueryBool("low_stock", false),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	out := dto.ItemListResponse{Items: make([]dto.ItemResponse, 0, len(items)), Page: page(limit, offset, total)}
	for _, it := range items {
		out.Items = append(out.Items, dto.NewItemResponse(it))
	}
	return ok(c, fiber.StatusOK, "", out)
}

// Update godoc
// @Summary      Editar datos administrativos del artículo
// @Description  El stock no es editable; use una transacción adjustment.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del artículo"
// @Param        body  body  dto.UpdateItemRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.SuccessResponse{data=dto.ItemMutationResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/store/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := decodeBody(c, &in); err != nil {
		return respondError(c, err)
	}
	item, warnings, err := h.uc.UpdateItem(c.UserContext(), c.Params("id"), store.UpdateItemInput{
		Name:         in.Name,
		Description:  in.Description,
		Category:     in.Category,
		Unit:         in.Unit,
		MinimumStock: in.MinimumStock,
		MaximumStock: in.MaximumStock,
		ReorderLevel: in.ReorderLevel,
		UnitPrice:    in.UnitPrice,
		Location:     in.Location,
	})
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "artículo actualizado", dto.ItemMutationResponse{
		Item:     dto.NewItemResponse(item),
		Warnings: warnings,
	})
}

// SetStatus godoc
// @Summary      Cambiar estado del artículo
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del artículo"
// @Param        body  body  dto.UpdateItemStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.SuccessResponse{data=dto.ItemResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/store/items/{id}/status [patch]
func (h *ItemHandler) SetStatus(c *fiber.Ctx) error {
	var in dto.UpdateItemStatusRequest
	if err := decodeBody(c, &in); err != nil {
		return respondError(c, err)
	}
	item, err := h.uc.SetItemStatus(c.UserContext(), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "estado actualizado", dto.NewItemResponse(item))
}
