package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/campus-store/internal/application/dto"
	"github.com/jhoicas/campus-store/internal/application/store"
	"github.com/jhoicas/campus-store/internal/domain/entity"
	"github.com/jhoicas/campus-store/internal/domain/repository"
)

// RequestHandler solicitudes de material de los departamentos.
type RequestHandler struct {
	uc *store.RequestUseCase
}

// NewRequestHandler construye el handler.
func NewRequestHandler(uc *store.RequestUseCase) *RequestHandler {
	return &RequestHandler{uc: uc}
}

// Create godoc
// @Summary      Crear solicitud
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStoreRequestRequest  true  "Solicitud"
// @Success      201   {object}  dto.SuccessResponse{data=dto.StoreRequestResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/store/requests [post]
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStoreRequestRequest
	if err := decodeBody(c, &in); err != nil {
		return respondError(c, err)
	}
	department := strings.TrimSpace(in.Department)
	// staff solo solicita para su propio departamento
	if GetRole(c) == entity.RoleStaff || department == "" {
		department = GetDepartment(c)
	}
	req, err := h.uc.CreateRequest(c.UserContext(), store.CreateRequestInput{
		ItemID:      in.ItemID,
		Quantity:    in.Quantity,
		Department:  department,
		RequestedBy: GetUserID(c),
		Purpose:     in.Purpose,
	})
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusCreated, "solicitud registrada", dto.NewStoreRequestResponse(req))
}

// List godoc
// @Summary      Listar solicitudes
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        status      query  string  false  "pending|approved|rejected"
// @Param        department  query  string  false  "Departamento"
// @Param        limit       query  int     false  "Límite (máx 100)"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.SuccessResponse{data=dto.StoreRequestListResponse}
// @Router       /api/store/requests [get]
func (h *RequestHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	department := strings.TrimSpace(c.Query("department"))
	if GetRole(c) == entity.RoleStaff {
		department = GetDepartment(c)
	}
	list, total, err := h.uc.ListRequests(c.UserContext(), repository.RequestFilter{
		Status:     strings.TrimSpace(c.Query("status")),
		Department: department,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	out := dto.StoreRequestListResponse{Items: make([]dto.StoreRequestResponse, 0, len(list)), Page: page(limit, offset, total)}
	for _, r := range list {
		out.Items = append(out.Items, dto.NewStoreRequestResponse(r))
	}
	return ok(c, fiber.StatusOK, "", out)
}

// Approve godoc
// @Summary      Aprobar solicitud (genera una salida de stock)
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true   "ID de la solicitud"
// @Param        body  body  dto.DecideStoreRequestRequest  false  "Nota"
// @Success      200   {object}  dto.SuccessResponse{data=dto.StoreRequestResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/store/requests/{id}/approve [post]
func (h *RequestHandler) Approve(c *fiber.Ctx) error {
	note, err := decisionNote(c)
	if err != nil {
		return respondError(c, err)
	}
	req, _, err := h.uc.ApproveRequest(c.UserContext(), c.Params("id"), GetUserID(c), note)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "solicitud aprobada", dto.NewStoreRequestResponse(req))
}

// Reject godoc
// @Summary      Rechazar solicitud
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true   "ID de la solicitud"
// @Param        body  body  dto.DecideStoreRequestRequest  false  "Nota"
// @Success      200   {object}  dto.SuccessResponse{data=dto.StoreRequestResponse}
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/store/requests/{id}/reject [post]
func (h *RequestHandler) Reject(c *fiber.Ctx) error {
	note, err := decisionNote(c)
	if err != nil {
		return respondError(c, err)
	}
	req, err := h.uc.RejectRequest(c.UserContext(), c.Params("id"), GetUserID(c), note)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "solicitud rechazada", dto.NewStoreRequestResponse(req))
}

// decisionNote el cuerpo es opcional en aprobar/rechazar.
func decisionNote(c *fiber.Ctx) (string, error) {
	if len(strings.TrimSpace(string(c.Body()))) == 0 {
		return "", nil
	}
	var in dto.DecideStoreRequestRequest
	if err := decodeBody(c, &in); err != nil {
		return "", err
	}
	return strings.TrimSpace(in.Note), nil
}
