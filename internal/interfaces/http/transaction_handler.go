package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/campus-store/internal/application/dto"
	"github.com/jhoicas/campus-store/internal/application/store"
	"github.com/jhoicas/campus-store/internal/domain/entity"
	"github.com/jhoicas/campus-store/internal/domain/repository"
)

// TransactionHandler expone el libro de stock: aplicar transacciones y consultar el historial.
type TransactionHandler struct {
	ledger  *store.ApplyStockTransactionUseCase
	reports *store.ReportUseCase
	items   *store.ItemUseCase
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(ledger *store.ApplyStockTransactionUseCase, reports *store.ReportUseCase, items *store.ItemUseCase) *TransactionHandler {
	return &TransactionHandler{ledger: ledger, reports: reports, items: items}
}

// Apply godoc
// @Summary      Registrar transacción de stock
// @Description  inward/return suman, outward resta (400 si no alcanza), adjustment fija el nivel absoluto.
// @Description  409 indica conflicto de concurrencia: reintentar.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyTransactionRequest  true  "Transacción"
// @Success      201   {object}  dto.SuccessResponse{data=dto.ApplyTransactionResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/store/transactions [post]
func (h *TransactionHandler) Apply(c *fiber.Ctx) error {
	var in dto.ApplyTransactionRequest
	if err := decodeBody(c, &in); err != nil {
		return respondError(c, err)
	}
	department := strings.TrimSpace(in.Department)
	if department == "" {
		department = GetDepartment(c)
	}
	var invoice *entity.InvoiceInfo
	if in.Invoice != nil {
		invoice = &entity.InvoiceInfo{Number: in.Invoice.Number, Date: in.Invoice.Date, Supplier: in.Invoice.Supplier}
	}
	res, err := h.ledger.Apply(c.UserContext(), store.ApplyInput{
		ItemID:          in.ItemID,
		Type:            in.Type,
		Quantity:        in.Quantity,
		UnitPrice:       in.UnitPrice,
		Department:      department,
		RequestedBy:     in.RequestedBy,
		Reason:          in.Reason,
		Remarks:         in.Remarks,
		Invoice:         invoice,
		TransactionDate: in.TransactionDate,
		CreatedBy:       GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusCreated, "transacción registrada", dto.ApplyTransactionResponse{
		Transaction: dto.NewTransactionResponse(res.Transaction),
		NewStock:    res.Item.CurrentStock,
		LowStock:    res.Item.IsLowStock(),
	})
}

// List godoc
// @Summary      Historial de transacciones
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        item_id     query  string  false  "ID del artículo"
// @Param        type        query  string  false  "inward|outward|adjustment|return"
// @Param        department  query  string  false  "Departamento"
// @Param        from        query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to          query  string  false  "Hasta (RFC3339 o YYYY-MM-DD, inclusivo)"
// @Param        limit       query  int     false  "Límite (máx 100)"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.SuccessResponse{data=dto.TransactionListResponse}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/store/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	return h.history(c, strings.TrimSpace(c.Query("item_id")))
}

// ItemHistory godoc
// @Summary      Historial de un artículo
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID o código del artículo"
// @Param        type    query  string  false  "inward|outward|adjustment|return"
// @Param        limit   query  int     false  "Límite (máx 100)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.SuccessResponse{data=dto.TransactionListResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/store/items/{id}/transactions [get]
func (h *TransactionHandler) ItemHistory(c *fiber.Ctx) error {
	item, err := h.items.GetItem(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return h.history(c, item.ID)
}

func (h *TransactionHandler) history(c *fiber.Ctx, itemID string) error {
	from, err := dateParam(c, "from", false)
	if err != nil {
		return respondError(c, err)
	}
	to, err := dateParam(c, "to", true)
	if err != nil {
		return respondError(c, err)
	}
	limit, offset := pageParams(c)
	list, total, err := h.reports.History(c.UserContext(), repository.TransactionFilter{
		ItemID:     itemID,
		Type:       strings.TrimSpace(c.Query("type")),
		Department: strings.TrimSpace(c.Query("department")),
		From:       from,
		To:         to,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	out := dto.TransactionListResponse{Items: make([]dto.TransactionResponse, 0, len(list)), Page: page(limit, offset, total)}
	for _, t := range list {
		out.Items = append(out.Items, dto.NewTransactionResponse(t))
	}
	return ok(c, fiber.StatusOK, "", out)
}

// GetByID godoc
// @Summary      Obtener transacción por ID o código
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID o código (TXN000001)"
// @Success      200  {object}  dto.SuccessResponse{data=dto.TransactionResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/store/transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	st, err := h.reports.GetTransaction(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "", dto.NewTransactionResponse(st))
}
