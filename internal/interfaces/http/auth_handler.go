package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/campus-store/internal/application/auth"
	"github.com/jhoicas/campus-store/internal/application/dto"
	"github.com/jhoicas/campus-store/internal/domain"
)

// AuthHandler maneja registro y login.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar usuario (solo admin)
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, password, role, department"
// @Success      201   {object}  dto.SuccessResponse{data=dto.UserResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := decodeBody(c, &in); err != nil {
		return respondError(c, err)
	}
	user, err := h.uc.RegisterUser(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusCreated, "usuario registrado", user)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.SuccessResponse{data=dto.LoginResponse}
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := decodeBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrUnauthorized) {
			return fail(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "credenciales inválidas")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return fail(c, fiber.StatusForbidden, "FORBIDDEN", "cuenta inactiva")
		}
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "", out)
}
